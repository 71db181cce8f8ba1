package repository

import (
	"context"

	"github.com/haroldrospa/Cobroapp-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.CashSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error)
	// FindOpenByStore returns the single open session for the store,
	// most recent first should the invariant ever be violated.
	FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.CashSession, error)
	// Close applies the closing snapshot guarded by status='open' and
	// reports how many rows were updated: 0 means the session was already
	// closed (or never existed) and the caller must reject the close.
	Close(ctx context.Context, s *model.CashSession) (int64, error)
	ListClosedByStore(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]model.CashSession, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) Create(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, model.StatusOpen).
		Order("opened_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Close(ctx context.Context, s *model.CashSession) (int64, error) {
	// Guarded single mutation: only an open row may receive the snapshot.
	// A repeated close matches zero rows and leaves the first snapshot intact.
	res := r.db.WithContext(ctx).
		Model(&model.CashSession{}).
		Where("id = ? AND status = ?", s.ID, model.StatusOpen).
		Updates(map[string]interface{}{
			"status":               model.StatusClosed,
			"closed_by":            s.ClosedBy,
			"closed_at":            s.ClosedAt,
			"total_sales_cash":     s.TotalSalesCash,
			"total_sales_card":     s.TotalSalesCard,
			"total_sales_transfer": s.TotalSalesTransfer,
			"total_sales_other":    s.TotalSalesOther,
			"total_refunds":        s.TotalRefunds,
			"total_cash_in":        s.TotalCashIn,
			"total_cash_out":       s.TotalCashOut,
			"expected_cash":        s.ExpectedCash,
			"actual_cash":          s.ActualCash,
			"difference":           s.Difference,
			"notes":                s.Notes,
		})
	return res.RowsAffected, res.Error
}

func (r *sessionRepo) ListClosedByStore(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]model.CashSession, error) {
	var sessions []model.CashSession
	err := r.db.WithContext(ctx).
		Preload("Opener").
		Preload("Closer").
		Where("store_id = ? AND status = ?", storeID, model.StatusClosed).
		Order("closed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
