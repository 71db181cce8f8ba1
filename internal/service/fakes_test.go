package service_test

// In-memory repository fakes backing the service unit tests. They mimic the
// behaviors the services rely on: gorm.ErrRecordNotFound on missing rows, the
// guarded close (zero rows affected for a non-open session), and the partial
// unique index on open sessions (duplicate-key error for a second open).

import (
	"context"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Session repository ───────────────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions  map[uuid.UUID]*model.CashSession
	createErr error
	findErr   error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *model.CashSession) error {
	if r.createErr != nil {
		return r.createErr
	}
	// Enforce what idx_cash_sessions_open_store enforces in Postgres.
	for _, existing := range r.sessions {
		if existing.StoreID == s.StoreID && existing.Status == model.StatusOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) FindOpenByStore(_ context.Context, storeID uuid.UUID) (*model.CashSession, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, s := range r.sessions {
		if s.StoreID == storeID && s.Status == model.StatusOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) Close(_ context.Context, s *model.CashSession) (int64, error) {
	stored, ok := r.sessions[s.ID]
	if !ok || stored.Status != model.StatusOpen {
		return 0, nil
	}
	cp := *s
	cp.Status = model.StatusClosed
	r.sessions[s.ID] = &cp
	return 1, nil
}

func (r *fakeSessionRepo) ListClosedByStore(_ context.Context, storeID uuid.UUID, offset, limit int) ([]model.CashSession, error) {
	var out []model.CashSession
	for _, s := range r.sessions {
		if s.StoreID == storeID && s.Status == model.StatusClosed {
			out = append(out, *s)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── Movement repository ──────────────────────────────────────────────────────

type fakeMovementRepo struct {
	movements []model.CashMovement
	listErr   error
}

func (r *fakeMovementRepo) Create(_ context.Context, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) ListForWindow(_ context.Context, storeID uuid.UUID, start, end time.Time) ([]model.CashMovement, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.StoreID != storeID || m.CreatedAt.Before(start) {
			continue
		}
		if !end.IsZero() && !m.CreatedAt.Before(end) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// ── Sale repository ──────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	sales   []model.Sale
	listErr error
}

func (r *fakeSaleRepo) ListForWindow(_ context.Context, storeID uuid.UUID, start, end time.Time) ([]model.Sale, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.Sale
	for _, s := range r.sales {
		if s.StoreID != storeID || s.CreatedAt.Before(start) {
			continue
		}
		if !end.IsZero() && !s.CreatedAt.Before(end) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
