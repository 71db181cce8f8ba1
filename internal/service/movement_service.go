package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/dto"
	"github.com/haroldrospa/Cobroapp-sub000/internal/model"
	"github.com/haroldrospa/Cobroapp-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MovementService interface {
	Record(ctx context.Context, operatorID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error)
	// ListForWindow returns movements in [start, end); a zero end means now.
	ListForWindow(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]dto.MovementResponse, error)
}

type movementService struct {
	movements repository.MovementRepository
	sessions  repository.SessionRepository
}

func NewMovementService(movements repository.MovementRepository, sessions repository.SessionRepository) MovementService {
	return &movementService{movements: movements, sessions: sessions}
}

// ── Record ────────────────────────────────────────────────────────────────────
// Append-only: no running balance is kept anywhere — expected cash is always
// recomputed from the ledger, so there is no counter to drift out of sync.
// The movement deliberately stores no session id; it is joined to sessions by
// timestamp window. An open session is still required as a gate.

func (s *movementService) Record(ctx context.Context, operatorID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("invalid store_id: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrMissingReason
	}

	if _, err := s.sessions.FindOpenByStore(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, translateStoreErr(err)
	}

	mov := &model.CashMovement{
		StoreID:   storeID,
		Type:      req.Type,
		Amount:    req.Amount,
		Reason:    reason,
		CreatedBy: operatorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.movements.Create(ctx, mov); err != nil {
		return nil, translateStoreErr(err)
	}

	log.Info().
		Str("movement_id", mov.ID.String()).
		Str("store_id", storeID.String()).
		Str("type", mov.Type).
		Str("amount", mov.Amount.String()).
		Msg("cash movement recorded")

	resp := movementToResponse(mov)
	return &resp, nil
}

func (s *movementService) ListForWindow(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]dto.MovementResponse, error) {
	movs, err := s.movements.ListForWindow(ctx, storeID, start, end)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	resp := make([]dto.MovementResponse, len(movs))
	for i := range movs {
		resp[i] = movementToResponse(&movs[i])
	}
	return resp, nil
}

func movementToResponse(m *model.CashMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID.String(),
		StoreID:   m.StoreID.String(),
		Type:      m.Type,
		Amount:    m.Amount,
		Reason:    m.Reason,
		CreatedBy: m.CreatedBy.String(),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
