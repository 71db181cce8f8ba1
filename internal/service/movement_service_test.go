package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/dto"
	"github.com/haroldrospa/Cobroapp-sub000/internal/model"
	"github.com/haroldrospa/Cobroapp-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movementFixture struct {
	sessions  *fakeSessionRepo
	movements *fakeMovementRepo
	svc       service.MovementService
	storeID   uuid.UUID
	operator  uuid.UUID
}

func newMovementFixture(withOpenSession bool) *movementFixture {
	f := &movementFixture{
		sessions:  newFakeSessionRepo(),
		movements: &fakeMovementRepo{},
		storeID:   uuid.New(),
		operator:  uuid.New(),
	}
	f.svc = service.NewMovementService(f.movements, f.sessions)
	if withOpenSession {
		f.sessions.sessions[uuid.New()] = &model.CashSession{
			ID:          uuid.New(),
			StoreID:     f.storeID,
			OpenedBy:    f.operator,
			InitialCash: decimal.RequireFromString("100"),
			Status:      model.StatusOpen,
			OpenedAt:    time.Now().UTC().Add(-time.Hour),
		}
	}
	return f
}

func TestRecordMovement(t *testing.T) {
	f := newMovementFixture(true)

	resp, err := f.svc.Record(context.Background(), f.operator, dto.MovementRequest{
		StoreID: f.storeID.String(),
		Type:    model.MovementDeposit,
		Amount:  decimal.RequireFromString("200"),
		Reason:  "  extra float  ",
	})
	require.NoError(t, err)

	assert.Equal(t, model.MovementDeposit, resp.Type)
	assert.Equal(t, "200", resp.Amount.String())
	assert.Equal(t, "extra float", resp.Reason, "reason is trimmed before storage")
	assert.Equal(t, f.operator.String(), resp.CreatedBy)
	require.Len(t, f.movements.movements, 1)
}

func TestRecordRejectsZeroAmount(t *testing.T) {
	f := newMovementFixture(true)

	_, err := f.svc.Record(context.Background(), f.operator, dto.MovementRequest{
		StoreID: f.storeID.String(),
		Type:    model.MovementDeposit,
		Amount:  decimal.Zero,
		Reason:  "why not",
	})

	assert.ErrorIs(t, err, service.ErrInvalidAmount)
	assert.Empty(t, f.movements.movements, "rejected movements are never persisted")
}

func TestRecordRejectsNegativeAmount(t *testing.T) {
	f := newMovementFixture(true)

	_, err := f.svc.Record(context.Background(), f.operator, dto.MovementRequest{
		StoreID: f.storeID.String(),
		Type:    model.MovementWithdrawal,
		Amount:  decimal.RequireFromString("-75"),
		Reason:  "petty cash",
	})

	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestRecordRejectsBlankReason(t *testing.T) {
	f := newMovementFixture(true)

	_, err := f.svc.Record(context.Background(), f.operator, dto.MovementRequest{
		StoreID: f.storeID.String(),
		Type:    model.MovementWithdrawal,
		Amount:  decimal.RequireFromString("75"),
		Reason:  "   ",
	})

	assert.ErrorIs(t, err, service.ErrMissingReason)
	assert.Empty(t, f.movements.movements)
}

func TestRecordRequiresOpenSession(t *testing.T) {
	f := newMovementFixture(false)

	_, err := f.svc.Record(context.Background(), f.operator, dto.MovementRequest{
		StoreID: f.storeID.String(),
		Type:    model.MovementDeposit,
		Amount:  decimal.RequireFromString("50"),
		Reason:  "drawer top-up",
	})

	assert.ErrorIs(t, err, service.ErrNoActiveSession)
}

func TestListForWindowIsHalfOpen(t *testing.T) {
	f := newMovementFixture(true)
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	add := func(at time.Time) {
		f.movements.movements = append(f.movements.movements, model.CashMovement{
			ID:        uuid.New(),
			StoreID:   f.storeID,
			Type:      model.MovementDeposit,
			Amount:    decimal.RequireFromString("10"),
			Reason:    "x",
			CreatedAt: at,
		})
	}
	add(start.Add(-time.Minute)) // before window
	add(start)                   // included: start is inclusive
	add(start.Add(30 * time.Minute))
	add(end) // excluded: end is exclusive

	rows, err := f.svc.ListForWindow(context.Background(), f.storeID, start, end)
	require.NoError(t, err)

	assert.Len(t, rows, 2)
}
