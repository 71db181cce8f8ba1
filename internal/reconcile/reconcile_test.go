package reconcile_test

import (
	"testing"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/model"
	"github.com/haroldrospa/Cobroapp-sub000/internal/reconcile"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	storeID = uuid.New()
	t0      = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
)

func sale(minutes int, total string, method string) model.Sale {
	return model.Sale{
		ID:            uuid.New(),
		StoreID:       storeID,
		Total:         decimal.RequireFromString(total),
		PaymentMethod: method,
		CreatedAt:     t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func movement(minutes int, typ, amount string) model.CashMovement {
	return model.CashMovement{
		ID:        uuid.New(),
		StoreID:   storeID,
		Type:      typ,
		Amount:    decimal.RequireFromString(amount),
		Reason:    "test",
		CreatedAt: t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestSummarizeShiftWithMovements(t *testing.T) {
	// Open with a 1000 float, one cash sale of 500, one card sale of 300,
	// a 200 deposit and a 100 withdrawal.
	sales := []model.Sale{
		sale(10, "500", model.PaymentCash),
		sale(20, "300", model.PaymentCard),
	}
	movs := []model.CashMovement{
		movement(30, model.MovementDeposit, "200"),
		movement(40, model.MovementWithdrawal, "100"),
	}

	sum := reconcile.Summarize(decimal.RequireFromString("1000"), reconcile.Window{Start: t0}, sales, movs)

	assert.Equal(t, "500", sum.CashSales.String())
	assert.Equal(t, "300", sum.CardSales.String())
	assert.Equal(t, "200", sum.Deposits.String())
	assert.Equal(t, "100", sum.Withdrawals.String())
	assert.Equal(t, "1600", sum.ExpectedCash.String())
	assert.Equal(t, "600", sum.CashToWithdraw.String())
	assert.True(t, sum.Refunds.IsZero())
}

func TestCashRefundReducesDrawer(t *testing.T) {
	sales := []model.Sale{
		sale(5, "200", model.PaymentCash),
		sale(10, "-50", model.PaymentCash),
	}

	sum := reconcile.Summarize(decimal.Zero, reconcile.Window{Start: t0}, sales, nil)

	assert.Equal(t, "150", sum.CashSales.String())
	assert.Equal(t, "50", sum.Refunds.String())
	assert.Equal(t, "150", sum.ExpectedCash.String())
}

func TestCardRefundDoesNotTouchCash(t *testing.T) {
	sales := []model.Sale{
		sale(5, "200", model.PaymentCash),
		sale(10, "-50", model.PaymentCard),
	}

	sum := reconcile.Summarize(decimal.Zero, reconcile.Window{Start: t0}, sales, nil)

	assert.Equal(t, "200", sum.CashSales.String())
	assert.Equal(t, "50", sum.Refunds.String())
	assert.True(t, sum.CardSales.IsZero(), "a card refund must not reduce the card bucket")
	assert.Equal(t, "200", sum.ExpectedCash.String())
}

func TestUnknownMethodsLandInOtherBucket(t *testing.T) {
	sales := []model.Sale{
		sale(5, "120", model.PaymentCredit),
		sale(10, "30", "voucher"),
		sale(15, "75", model.PaymentTransfer),
	}

	sum := reconcile.Summarize(decimal.Zero, reconcile.Window{Start: t0}, sales, nil)

	assert.Equal(t, "150", sum.OtherSales.String())
	assert.Equal(t, "75", sum.TransferSales.String())
	assert.True(t, sum.ExpectedCash.IsZero(), "non-cash methods never affect expected cash")
}

func TestSummarizeIsDeterministic(t *testing.T) {
	sales := []model.Sale{
		sale(10, "19.99", model.PaymentCash),
		sale(20, "-5.50", model.PaymentCash),
		sale(30, "42", model.PaymentCard),
	}
	movs := []model.CashMovement{
		movement(15, model.MovementDeposit, "10"),
	}
	w := reconcile.Window{Start: t0}
	initial := decimal.RequireFromString("100")

	first := reconcile.Summarize(initial, w, sales, movs)
	second := reconcile.Summarize(initial, w, sales, movs)

	assert.Equal(t, first, second)
}

func TestWindowMembershipIgnoresSliceOrder(t *testing.T) {
	// Records arrive out of chronological order and partly outside the
	// window; only timestamps decide membership.
	end := t0.Add(time.Hour)
	sales := []model.Sale{
		sale(90, "999", model.PaymentCash),  // after close — excluded
		sale(30, "40", model.PaymentCash),   // in window
		sale(-10, "888", model.PaymentCash), // before open — excluded
		sale(1, "60", model.PaymentCash),    // in window, delivered last
	}
	movs := []model.CashMovement{
		movement(75, model.MovementDeposit, "500"), // after close — excluded
		movement(45, model.MovementWithdrawal, "25"),
	}

	sum := reconcile.Summarize(decimal.Zero, reconcile.Window{Start: t0, End: end}, sales, movs)

	assert.Equal(t, "100", sum.CashSales.String())
	assert.Equal(t, "25", sum.Withdrawals.String())
	assert.Equal(t, "75", sum.ExpectedCash.String())
}

func TestWindowBoundsHalfOpen(t *testing.T) {
	end := t0.Add(time.Hour)
	atStart := sale(0, "10", model.PaymentCash)
	atEnd := sale(60, "20", model.PaymentCash)

	sum := reconcile.Summarize(decimal.Zero, reconcile.Window{Start: t0, End: end},
		[]model.Sale{atStart, atEnd}, nil)

	assert.Equal(t, "10", sum.CashSales.String(), "start is inclusive, end is exclusive")
}

func TestNoFloatDriftAcrossManySmallSales(t *testing.T) {
	// 0.1 is not representable in binary floating point; 1000 of them must
	// still sum to exactly 100.
	var sales []model.Sale
	for i := 0; i < 1000; i++ {
		sales = append(sales, sale(i%60, "0.1", model.PaymentCash))
	}

	sum := reconcile.Summarize(decimal.Zero, reconcile.Window{Start: t0}, sales, nil)

	assert.Equal(t, "100", sum.CashSales.String())
}

func TestCashToWithdrawNeverNegative(t *testing.T) {
	// Refund-heavy shift: expected cash drops below the float, so there is
	// nothing to withdraw at close-out.
	sales := []model.Sale{
		sale(10, "-300", model.PaymentCash),
	}

	sum := reconcile.Summarize(decimal.RequireFromString("200"), reconcile.Window{Start: t0}, sales, nil)

	assert.Equal(t, "-100", sum.ExpectedCash.String())
	assert.True(t, sum.CashToWithdraw.IsZero())
}

func TestDifferenceAndVerdicts(t *testing.T) {
	expected := decimal.RequireFromString("1600")

	shortage := reconcile.Difference(decimal.RequireFromString("1550"), expected)
	assert.Equal(t, "-50", shortage.String())
	assert.Equal(t, reconcile.VerdictShortage, reconcile.Classify(shortage))

	surplus := reconcile.Difference(decimal.RequireFromString("1620"), expected)
	assert.Equal(t, reconcile.VerdictSurplus, reconcile.Classify(surplus))

	balanced := reconcile.Difference(expected, expected)
	assert.Equal(t, reconcile.VerdictBalanced, reconcile.Classify(balanced))
}

func TestCountCash(t *testing.T) {
	values := []decimal.Decimal{
		decimal.RequireFromString("100"),
		decimal.RequireFromString("20"),
		decimal.RequireFromString("0.5"),
	}
	counts := []int64{3, 7, 4}

	total := reconcile.CountCash(values, counts)
	require.Equal(t, "442", total.String())
}
