package engine

import (
	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/shopspring/decimal"
)

// Due is what a field officer should collect on a loan as of one reference
// date: the current period's installment plus the arrears from missed
// periods.
type Due struct {
	Expected decimal.Decimal `json:"expected"`
	Overdue  decimal.Decimal `json:"overdue"`
}

// CollectionDue computes the expected and overdue amounts for a loan on the
// given reference date.
//
// The schedule is anchored on the last observed payment when one exists,
// falling back to the loan's repayment start date. Anchoring on the last
// payment makes the schedule self-correcting: a client who pays keeps
// resetting the anchor forward, while a missed period widens the overdue
// figure by one installment per elapsed week.
//
//	weeksElapsed <= 0  nothing due yet
//	weeksElapsed == 1  the current installment is expected, no backlog
//	weeksElapsed >= 2  current installment expected, prior weeks in arrears
//
// Weeks are counted as whole 7-day periods since the anchor. With no anchor
// at all both figures are zero.
func CollectionDue(weekly decimal.Decimal, repaymentStart models.Date, lastPayment *models.Date, reference models.Date) Due {
	weekly = nonNegative(weekly)

	anchor := repaymentStart
	if lastPayment != nil && !lastPayment.IsZero() {
		anchor = *lastPayment
	}
	if anchor.IsZero() || reference.IsZero() {
		return Due{Expected: decimal.Zero, Overdue: decimal.Zero}
	}

	elapsedDays := reference.DaysSince(anchor)
	if elapsedDays < 7 {
		return Due{Expected: decimal.Zero, Overdue: decimal.Zero}
	}

	weeksElapsed := elapsedDays / 7
	if weeksElapsed == 1 {
		return Due{Expected: weekly, Overdue: decimal.Zero}
	}
	return Due{
		Expected: weekly,
		Overdue:  weekly.Mul(decimal.NewFromInt(int64(weeksElapsed - 1))),
	}
}
