package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods recognized by the drawer reconciliation. Anything else
// (including "credit") lands in the "other" bucket.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentCredit   = "credit"
)

// Sale is the completed-transaction record produced by the checkout subsystem.
// This service reads it and never writes it — the sales table is owned by
// checkout and its migration is deployed independently, which is why a missing
// relation here is reported as a schema problem rather than swallowed.
//
// Total is signed: a negative total is a refund. A sale belongs to whichever
// session's [OpenedAt, ClosedAt) window contains its CreatedAt.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	ProfileID     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time       `gorm:"not null"`
}

func (Sale) TableName() string { return "sales" }
