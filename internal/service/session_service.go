package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/dto"
	"github.com/haroldrospa/Cobroapp-sub000/internal/model"
	"github.com/haroldrospa/Cobroapp-sub000/internal/reconcile"
	"github.com/haroldrospa/Cobroapp-sub000/internal/repository"
	"github.com/haroldrospa/Cobroapp-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SessionService interface {
	Open(ctx context.Context, operatorID uuid.UUID, req dto.OpenDrawerRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, operatorID uuid.UUID, req dto.CloseDrawerRequest) (*dto.CloseResponse, error)
	// Active returns the open session for the store, or (nil, nil) when
	// there is none — the signal for the checkout surface to block sales.
	Active(ctx context.Context, storeID uuid.UUID) (*dto.SessionResponse, error)
	Report(ctx context.Context, sessionID uuid.UUID) (*dto.ReportResponse, error)
	History(ctx context.Context, storeID uuid.UUID, page, limit int) ([]dto.HistoryRow, error)
}

type sessionService struct {
	sessions   repository.SessionRepository
	movements  repository.MovementRepository
	sales      repository.SaleRepository
	dispatcher *worker.Dispatcher
}

func NewSessionService(
	sessions repository.SessionRepository,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	dispatcher *worker.Dispatcher,
) SessionService {
	return &sessionService{
		sessions:   sessions,
		movements:  movements,
		sales:      sales,
		dispatcher: dispatcher,
	}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *sessionService) Open(ctx context.Context, operatorID uuid.UUID, req dto.OpenDrawerRequest) (*dto.SessionResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("invalid store_id: %w", err)
	}
	if req.InitialCash.IsNegative() {
		return nil, ErrInvalidAmount
	}

	// Friendly pre-check. Racy on its own: two terminals can both read
	// "no open session". The partial unique index on (store_id) WHERE
	// status='open' is what actually decides the race — the loser's insert
	// fails with a unique violation and surfaces as ErrSessionConflict.
	if _, err := s.sessions.FindOpenByStore(ctx, storeID); err == nil {
		return nil, ErrSessionConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateStoreErr(err)
	}

	session := &model.CashSession{
		StoreID:     storeID,
		OpenedBy:    operatorID,
		InitialCash: req.InitialCash,
		Status:      model.StatusOpen,
		OpenedAt:    time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, translateStoreErr(err)
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("store_id", storeID.String()).
		Str("initial_cash", req.InitialCash.String()).
		Msg("cash session opened")

	resp := sessionToResponse(session)
	return &resp, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// Reconciles [OpenedAt, now) and applies the snapshot in a single guarded
// update. Any failure fetching sales or movements aborts the close: a partial
// reconciliation is worse than none.

func (s *sessionService) Close(ctx context.Context, operatorID uuid.UUID, req dto.CloseDrawerRequest) (*dto.CloseResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session_id: %w", err)
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotOpen
		}
		return nil, translateStoreErr(err)
	}
	if session.Status != model.StatusOpen {
		return nil, ErrSessionNotOpen
	}

	actualCash, err := resolveActualCash(req)
	if err != nil {
		return nil, err
	}

	closedAt := time.Now().UTC()
	window := reconcile.Window{Start: session.OpenedAt, End: closedAt}

	sales, err := s.sales.ListForWindow(ctx, session.StoreID, window.Start, window.End)
	if err != nil {
		return nil, fetchFailure("sales", err)
	}
	movements, err := s.movements.ListForWindow(ctx, session.StoreID, window.Start, window.End)
	if err != nil {
		return nil, fetchFailure("movements", err)
	}

	summary := reconcile.Summarize(session.InitialCash, window, sales, movements)
	difference := reconcile.Difference(actualCash, summary.ExpectedCash)

	session.ClosedBy = &operatorID
	session.ClosedAt = &closedAt
	session.TotalSalesCash = &summary.CashSales
	session.TotalSalesCard = &summary.CardSales
	session.TotalSalesTransfer = &summary.TransferSales
	session.TotalSalesOther = &summary.OtherSales
	session.TotalRefunds = &summary.Refunds
	session.TotalCashIn = &summary.Deposits
	session.TotalCashOut = &summary.Withdrawals
	session.ExpectedCash = &summary.ExpectedCash
	session.ActualCash = &actualCash
	session.Difference = &difference
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if notes != "" {
			session.Notes = &notes
		}
	}

	rows, err := s.sessions.Close(ctx, session)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if rows == 0 {
		// Lost the race against a concurrent close. The first snapshot won
		// and stays untouched.
		return nil, ErrSessionNotOpen
	}
	session.Status = model.StatusClosed

	verdict := reconcile.Classify(difference)
	log.Info().
		Str("session_id", session.ID.String()).
		Str("expected_cash", summary.ExpectedCash.String()).
		Str("actual_cash", actualCash.String()).
		Str("difference", difference.String()).
		Str("verdict", verdict).
		Msg("cash session closed")

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueCloseReport(ctx, worker.CloseReportPayload{
			SessionID:    session.ID.String(),
			StoreID:      session.StoreID.String(),
			OpenedAt:     session.OpenedAt,
			ClosedAt:     closedAt,
			InitialCash:  session.InitialCash.String(),
			ExpectedCash: summary.ExpectedCash.String(),
			ActualCash:   actualCash.String(),
			Difference:   difference.String(),
			Verdict:      verdict,
		}); err != nil {
			// Reporting is best-effort; the close itself already committed.
			log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("could not enqueue close report")
		}
	}

	return &dto.CloseResponse{
		Session:    sessionToResponse(session),
		Summary:    summaryToDTO(summary),
		ActualCash: actualCash,
		Difference: difference,
		Verdict:    verdict,
	}, nil
}

// ── Active ────────────────────────────────────────────────────────────────────
// Always a fresh query, never a cached reference: other terminals may have
// closed or opened a session since the caller last looked.

func (s *sessionService) Active(ctx context.Context, storeID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindOpenByStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateStoreErr(err)
	}
	resp := sessionToResponse(session)
	return &resp, nil
}

// ── Report ────────────────────────────────────────────────────────────────────
// Open session: live reconciliation over [OpenedAt, now), including the
// cash-to-withdraw planning figure. Closed session: the stored snapshot —
// nothing is recomputed after close.

func (s *sessionService) Report(ctx context.Context, sessionID uuid.UUID) (*dto.ReportResponse, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, translateStoreErr(err)
	}

	if session.Status == model.StatusClosed {
		resp := &dto.ReportResponse{
			Session:    sessionToResponse(session),
			Summary:    snapshotToDTO(session),
			ActualCash: session.ActualCash,
			Difference: session.Difference,
		}
		if session.Difference != nil {
			verdict := reconcile.Classify(*session.Difference)
			resp.Verdict = &verdict
		}
		return resp, nil
	}

	window := reconcile.Window{Start: session.OpenedAt}
	sales, err := s.sales.ListForWindow(ctx, session.StoreID, window.Start, time.Time{})
	if err != nil {
		return nil, fetchFailure("sales", err)
	}
	movements, err := s.movements.ListForWindow(ctx, session.StoreID, window.Start, time.Time{})
	if err != nil {
		return nil, fetchFailure("movements", err)
	}

	summary := reconcile.Summarize(session.InitialCash, window, sales, movements)
	return &dto.ReportResponse{
		Session: sessionToResponse(session),
		Summary: summaryToDTO(summary),
	}, nil
}

// ── History ───────────────────────────────────────────────────────────────────

func (s *sessionService) History(ctx context.Context, storeID uuid.UUID, page, limit int) ([]dto.HistoryRow, error) {
	offset := (page - 1) * limit
	sessions, err := s.sessions.ListClosedByStore(ctx, storeID, offset, limit)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	rows := make([]dto.HistoryRow, len(sessions))
	for i, sess := range sessions {
		row := dto.HistoryRow{
			ID:           sess.ID.String(),
			OpenedAt:     sess.OpenedAt.Format(time.RFC3339),
			InitialCash:  sess.InitialCash,
			ExpectedCash: sess.ExpectedCash,
			ActualCash:   sess.ActualCash,
			Difference:   sess.Difference,
			Notes:        sess.Notes,
		}
		if sess.ClosedAt != nil {
			row.ClosedAt = sess.ClosedAt.Format(time.RFC3339)
		}
		if sess.Opener != nil {
			row.OpenedByName = sess.Opener.Name
		}
		if sess.Closer != nil {
			row.ClosedByName = sess.Closer.Name
		}
		rows[i] = row
	}
	return rows, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// resolveActualCash takes the operator's physical count either directly or as
// a denomination breakdown (Σ value × count). A direct value wins when both
// are present.
func resolveActualCash(req dto.CloseDrawerRequest) (decimal.Decimal, error) {
	if req.ActualCash != nil {
		if req.ActualCash.IsNegative() {
			return decimal.Zero, ErrInvalidAmount
		}
		return *req.ActualCash, nil
	}
	if len(req.Denominations) == 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	values := make([]decimal.Decimal, len(req.Denominations))
	counts := make([]int64, len(req.Denominations))
	for i, d := range req.Denominations {
		if !d.Value.IsPositive() || d.Count < 0 {
			return decimal.Zero, ErrInvalidAmount
		}
		values[i] = d.Value
		counts[i] = d.Count
	}
	return reconcile.CountCash(values, counts), nil
}

func fetchFailure(source string, err error) error {
	if terr := translateStoreErr(err); errors.Is(terr, ErrSchemaUnavailable) {
		return terr
	}
	return fmt.Errorf("%w: %s: %v", ErrExternalFetch, source, err)
}

func sessionToResponse(s *model.CashSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:          s.ID.String(),
		StoreID:     s.StoreID.String(),
		OpenedBy:    s.OpenedBy.String(),
		InitialCash: s.InitialCash,
		Status:      s.Status,
		OpenedAt:    s.OpenedAt.Format(time.RFC3339),
		Notes:       s.Notes,
	}
	if s.ClosedBy != nil {
		cb := s.ClosedBy.String()
		resp.ClosedBy = &cb
	}
	if s.ClosedAt != nil {
		ca := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &ca
	}
	return resp
}

func summaryToDTO(sum reconcile.Summary) dto.SessionSummary {
	return dto.SessionSummary{
		CashSales:      sum.CashSales,
		CardSales:      sum.CardSales,
		TransferSales:  sum.TransferSales,
		OtherSales:     sum.OtherSales,
		Refunds:        sum.Refunds,
		Deposits:       sum.Deposits,
		Withdrawals:    sum.Withdrawals,
		ExpectedCash:   sum.ExpectedCash,
		CashToWithdraw: sum.CashToWithdraw,
	}
}

// snapshotToDTO rebuilds the summary view from the persisted closing snapshot.
func snapshotToDTO(s *model.CashSession) dto.SessionSummary {
	deref := func(d *decimal.Decimal) decimal.Decimal {
		if d == nil {
			return decimal.Zero
		}
		return *d
	}
	return dto.SessionSummary{
		CashSales:     deref(s.TotalSalesCash),
		CardSales:     deref(s.TotalSalesCard),
		TransferSales: deref(s.TotalSalesTransfer),
		OtherSales:    deref(s.TotalSalesOther),
		Refunds:       deref(s.TotalRefunds),
		Deposits:      deref(s.TotalCashIn),
		Withdrawals:   deref(s.TotalCashOut),
		ExpectedCash:  deref(s.ExpectedCash),
	}
}
