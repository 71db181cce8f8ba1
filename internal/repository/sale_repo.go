package repository

import (
	"context"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRepository is a read-only view over the checkout subsystem's sales
// table. This service never creates or mutates sales.
type SaleRepository interface {
	// ListForWindow returns sales with created_at in [start, end),
	// ordered chronologically. A zero end means no upper bound.
	ListForWindow(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]model.Sale, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) ListForWindow(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]model.Sale, error) {
	q := r.db.WithContext(ctx).
		Where("store_id = ? AND created_at >= ?", storeID, start)
	if !end.IsZero() {
		q = q.Where("created_at < ?", end)
	}
	var sales []model.Sale
	err := q.Order("created_at ASC").Find(&sales).Error
	return sales, err
}
