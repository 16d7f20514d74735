package services

import (
	"time"

	"parking-marketplace-backend/db/models"

	"github.com/shopspring/decimal"
)

// RefundPercentage applies the cancellation schedule. Boundaries are strict: exactly 48h
// before start gets the 50% tier, exactly 24h gets nothing.
func RefundPercentage(start, now time.Time) int {
	if !now.Before(start) {
		return 0
	}
	notice := start.Sub(now)
	switch {
	case notice > FullRefundNotice:
		return FullRefundPercentage
	case notice > PartialRefundNotice:
		return PartialRefundPercentage
	default:
		return 0
	}
}

type Refund struct {
	Percentage int
	Amount     decimal.Decimal
}

// ComputeRefund returns the refund owed when r is cancelled at now. The percentage applies to
// collected, the amount of the settled charge, not to the reservation total: extensions and
// overtime raise the total without being charged. An unpaid booking reports the percentage
// with a zero amount.
func ComputeRefund(r *models.Reservation, collected decimal.Decimal, now time.Time) Refund {
	pct := RefundPercentage(r.StartTime, now)
	amount := decimal.Zero
	if r.PaymentStatus == models.PaidBookingPayment && pct > 0 && collected.IsPositive() {
		amount = collected.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Round(2)
	}
	return Refund{Percentage: pct, Amount: amount}
}
