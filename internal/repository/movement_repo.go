package repository

import (
	"context"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(ctx context.Context, m *model.CashMovement) error
	// ListForWindow returns movements with created_at in [start, end),
	// ordered chronologically. A zero end means no upper bound.
	ListForWindow(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]model.CashMovement, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) ListForWindow(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]model.CashMovement, error) {
	q := r.db.WithContext(ctx).
		Where("store_id = ? AND created_at >= ?", storeID, start)
	if !end.IsZero() {
		q = q.Where("created_at < ?", end)
	}
	var movs []model.CashMovement
	err := q.Order("created_at ASC").Find(&movs).Error
	return movs, err
}
