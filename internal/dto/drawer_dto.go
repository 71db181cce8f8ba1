package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenDrawerRequest struct {
	StoreID     string          `json:"store_id"     validate:"required,uuid"`
	InitialCash decimal.Decimal `json:"initial_cash" validate:"min=0"`
}

// DenominationCount is one row of a physical cash count: how many units of a
// given bill/coin value were found in the drawer.
type DenominationCount struct {
	Value decimal.Decimal `json:"value" validate:"required"`
	Count int64           `json:"count" validate:"min=0"`
}

// CloseDrawerRequest closes a session. The physical count can be supplied
// either directly (actual_cash) or as a denomination breakdown, in which case
// actual cash is Σ(value × count).
type CloseDrawerRequest struct {
	SessionID     string              `json:"session_id"    validate:"required,uuid"`
	ActualCash    *decimal.Decimal    `json:"actual_cash"   validate:"omitempty"`
	Denominations []DenominationCount `json:"denominations" validate:"omitempty,dive"`
	Notes         *string             `json:"notes"`
}

type MovementRequest struct {
	StoreID string          `json:"store_id" validate:"required,uuid"`
	Type    string          `json:"type"     validate:"required,oneof=deposit withdrawal"`
	Amount  decimal.Decimal `json:"amount"   validate:"required"`
	Reason  string          `json:"reason"   validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SessionSummary mirrors the reconcile.Summary buckets for JSON transport.
type SessionSummary struct {
	CashSales      decimal.Decimal `json:"cash_sales"`
	CardSales      decimal.Decimal `json:"card_sales"`
	TransferSales  decimal.Decimal `json:"transfer_sales"`
	OtherSales     decimal.Decimal `json:"other_sales"`
	Refunds        decimal.Decimal `json:"refunds"`
	Deposits       decimal.Decimal `json:"deposits"`
	Withdrawals    decimal.Decimal `json:"withdrawals"`
	ExpectedCash   decimal.Decimal `json:"expected_cash"`
	CashToWithdraw decimal.Decimal `json:"cash_to_withdraw"`
}

type SessionResponse struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id"`
	OpenedBy    string          `json:"opened_by"`
	ClosedBy    *string         `json:"closed_by,omitempty"`
	InitialCash decimal.Decimal `json:"initial_cash"`
	Status      string          `json:"status"`
	OpenedAt    string          `json:"opened_at"`
	ClosedAt    *string         `json:"closed_at,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

// CloseResponse is the persisted reconciliation outcome of a close.
type CloseResponse struct {
	Session    SessionResponse `json:"session"`
	Summary    SessionSummary  `json:"summary"`
	ActualCash decimal.Decimal `json:"actual_cash"`
	Difference decimal.Decimal `json:"difference"`
	Verdict    string          `json:"verdict"` // balanced | surplus | shortage
}

// ReportResponse is the live reconciliation preview of an open session, or
// the stored snapshot of a closed one.
type ReportResponse struct {
	Session    SessionResponse  `json:"session"`
	Summary    SessionSummary   `json:"summary"`
	ActualCash *decimal.Decimal `json:"actual_cash,omitempty"`
	Difference *decimal.Decimal `json:"difference,omitempty"`
	Verdict    *string          `json:"verdict,omitempty"`
}

// HistoryRow is one closed session in the audit listing, with operator
// display names resolved for manager review.
type HistoryRow struct {
	ID           string           `json:"id"`
	OpenedByName string           `json:"opened_by_name"`
	ClosedByName string           `json:"closed_by_name"`
	OpenedAt     string           `json:"opened_at"`
	ClosedAt     string           `json:"closed_at"`
	InitialCash  decimal.Decimal  `json:"initial_cash"`
	ExpectedCash *decimal.Decimal `json:"expected_cash"`
	ActualCash   *decimal.Decimal `json:"actual_cash"`
	Difference   *decimal.Decimal `json:"difference"`
	Notes        *string          `json:"notes,omitempty"`
}

type MovementResponse struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	CreatedBy string          `json:"created_by"`
	CreatedAt string          `json:"created_at"`
}
