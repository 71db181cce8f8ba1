// Package reconcile computes the financial summary of a cash drawer session
// from independently-sourced sales and manual movements. It is pure: no I/O,
// no clocks, no mutation of its inputs, so the same inputs always produce the
// same summary. All arithmetic uses shopspring/decimal — amounts never pass
// through binary floats, so long runs of small sales cannot accumulate drift.
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/haroldrospa/Cobroapp-sub000/internal/model"
)

// Verdict values for a closing difference.
const (
	VerdictBalanced = "balanced"
	VerdictSurplus  = "surplus"
	VerdictShortage = "shortage"
)

// Summary is the deterministic aggregation of a session window.
//
// Sales are bucketed by payment method; a negative total is a refund: it
// always raises Refunds by its absolute value, and when paid in cash it also
// reduces CashSales (refunds are handed out of the drawer). Deposits and
// Withdrawals come from the manual movement ledger.
//
// ExpectedCash = initial + CashSales + Deposits - Withdrawals.
// CashToWithdraw is the planning figure for close-out: how much to remove so
// that exactly the initial float remains for the next shift. It is
// informational only and never persisted.
type Summary struct {
	CashSales     decimal.Decimal
	CardSales     decimal.Decimal
	TransferSales decimal.Decimal
	OtherSales    decimal.Decimal
	Refunds       decimal.Decimal

	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal

	ExpectedCash   decimal.Decimal
	CashToWithdraw decimal.Decimal
}

// Window is a half-open time range [Start, End). A zero End means "no upper
// bound" and is used while the session is still open.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return w.End.IsZero() || t.Before(w.End)
}

// Summarize aggregates sales and movements for one session window.
//
// Records outside the window are skipped rather than assumed absent: sales and
// movements arrive from independently-run flows and the fetch layer gives no
// ordering guarantee, so membership is decided per record by timestamp, never
// by slice position.
func Summarize(initialCash decimal.Decimal, w Window, sales []model.Sale, movements []model.CashMovement) Summary {
	var s Summary

	for _, sale := range sales {
		if !w.Contains(sale.CreatedAt) {
			continue
		}
		if sale.Total.IsNegative() {
			s.Refunds = s.Refunds.Add(sale.Total.Abs())
			// Only cash refunds touch a bucket: they are paid out of the
			// drawer. Card/transfer refunds are settled outside it.
			if sale.PaymentMethod == model.PaymentCash {
				s.CashSales = s.CashSales.Add(sale.Total)
			}
			continue
		}
		switch sale.PaymentMethod {
		case model.PaymentCash:
			s.CashSales = s.CashSales.Add(sale.Total)
		case model.PaymentCard:
			s.CardSales = s.CardSales.Add(sale.Total)
		case model.PaymentTransfer:
			s.TransferSales = s.TransferSales.Add(sale.Total)
		default:
			s.OtherSales = s.OtherSales.Add(sale.Total)
		}
	}

	for _, m := range movements {
		if !w.Contains(m.CreatedAt) {
			continue
		}
		switch m.Type {
		case model.MovementDeposit:
			s.Deposits = s.Deposits.Add(m.Amount)
		case model.MovementWithdrawal:
			s.Withdrawals = s.Withdrawals.Add(m.Amount)
		}
	}

	s.ExpectedCash = initialCash.Add(s.CashSales).Add(s.Deposits).Sub(s.Withdrawals)

	s.CashToWithdraw = s.ExpectedCash.Sub(initialCash)
	if s.CashToWithdraw.IsNegative() {
		s.CashToWithdraw = decimal.Zero
	}

	return s
}

// Difference returns actual - expected. Zero means the drawer balanced.
func Difference(actual, expected decimal.Decimal) decimal.Decimal {
	return actual.Sub(expected)
}

// Classify maps a difference onto a verdict string for audit display.
func Classify(difference decimal.Decimal) string {
	switch {
	case difference.IsZero():
		return VerdictBalanced
	case difference.IsPositive():
		return VerdictSurplus
	default:
		return VerdictShortage
	}
}

// CountCash computes a physical count from a denomination breakdown:
// Σ(denomination value × counted quantity).
func CountCash(values []decimal.Decimal, counts []int64) decimal.Decimal {
	total := decimal.Zero
	for i := range values {
		if i >= len(counts) {
			break
		}
		total = total.Add(values[i].Mul(decimal.NewFromInt(counts[i])))
	}
	return total
}
