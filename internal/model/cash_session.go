package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status values.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Movement types.
const (
	MovementDeposit    = "deposit"
	MovementWithdrawal = "withdrawal"
)

// CashSession represents the lifecycle of a cash drawer shift.
// Status: "open" | "closed". A session is created open, closed exactly once,
// never deleted and never reopened — a new shift always creates a new row.
// At most one open session may exist per store; the partial unique index
// idx_cash_sessions_open_store enforces this at the storage level.
type CashSession struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	OpenedBy uuid.UUID  `gorm:"type:uuid;not null"`
	ClosedBy *uuid.UUID `gorm:"type:uuid"`

	InitialCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'open'"`

	// Closing snapshot — populated exactly once, on close.
	TotalSalesCash     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalSalesCard     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalSalesTransfer *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalSalesOther    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalRefunds       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalCashIn        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalCashOut       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedCash       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ActualCash         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes              *string

	OpenedAt time.Time `gorm:"not null"`
	ClosedAt *time.Time

	Opener *Operator `gorm:"foreignKey:OpenedBy"`
	Closer *Operator `gorm:"foreignKey:ClosedBy"`
}

// CashMovement is an immutable entry in the manual cash ledger.
// Type: "deposit" | "withdrawal". Amount is always positive; the type carries
// the sign. Movements are NEVER updated or deleted, and carry no session
// reference — session membership is derived from CreatedAt falling inside a
// session's [OpenedAt, ClosedAt) window.
type CashMovement struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_cash_movements_store_time"`
	Type      string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason    string          `gorm:"not null"`
	CreatedBy uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time       `gorm:"not null;index:idx_cash_movements_store_time"`
}
