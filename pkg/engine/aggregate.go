package engine

import (
	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// LedgerView is the derived financial state of one loan, recomputed freshly
// from the loan's terms and its payment history on every call.
type LedgerView struct {
	// TotalDebt = principal * (1 + interestRate/100). Fixed by the loan's
	// terms; payments never change it.
	TotalDebt decimal.Decimal `json:"total_debt"`
	// WeeklyInstallment = totalDebt / paymentWeeks, zero when the term is
	// degenerate.
	WeeklyInstallment  decimal.Decimal `json:"weekly_installment"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	TotalSecuritySaved decimal.Decimal `json:"total_security_saved"`
	// OutstandingBalance = totalDebt - totalPaid. Signed: an overpaid loan
	// reports a negative balance rather than clamping to zero.
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	// RemainingWeeks estimates periods left by payment progress
	// (paymentWeeks - totalPaid/weeklyInstallment, floored at zero). It is
	// a fractional amount-based estimate and deliberately independent of
	// the calendar-based weeksElapsed the arrears schedule uses; the two
	// can disagree for a client who pays ahead or behind.
	RemainingWeeks  decimal.Decimal `json:"remaining_weeks"`
	LastPaymentDate *models.Date    `json:"last_payment_date,omitempty"`
}

// Aggregate computes the ledger view for one loan from the payments recorded
// against it. Payments whose LoanID does not match are skipped, so a caller
// may pass an unfiltered set without orphaned records polluting the fold.
// Degenerate terms (zero principal, zero weeks) and missing or negative
// amounts degrade to zero contributions; Aggregate never fails.
func Aggregate(loan models.Loan, payments []models.Payment) LedgerView {
	principal := nonNegative(loan.Principal)
	rate := nonNegative(loan.InterestRate)

	totalDebt := principal.Mul(one.Add(rate.Div(hundred)))

	weekly := decimal.Zero
	if loan.PaymentWeeks > 0 {
		weekly = totalDebt.Div(decimal.NewFromInt(int64(loan.PaymentWeeks)))
	}

	totalPaid := decimal.Zero
	totalSecurity := decimal.Zero
	var lastPayment *models.Date
	for _, p := range payments {
		if p.LoanID != loan.LoanID {
			continue
		}
		totalPaid = totalPaid.Add(nonNegative(p.RepaymentAmount))
		totalSecurity = totalSecurity.Add(nonNegative(p.SecurityCollected))
		if !p.Date.IsZero() && (lastPayment == nil || p.Date.After(lastPayment.Time)) {
			d := p.Date
			lastPayment = &d
		}
	}

	remaining := decimal.Zero
	if weekly.IsPositive() {
		remaining = decimal.NewFromInt(int64(loan.PaymentWeeks)).Sub(totalPaid.Div(weekly))
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
	}

	return LedgerView{
		TotalDebt:          totalDebt,
		WeeklyInstallment:  weekly,
		TotalPaid:          totalPaid,
		TotalSecuritySaved: totalSecurity,
		OutstandingBalance: totalDebt.Sub(totalPaid),
		RemainingWeeks:     remaining,
		LastPaymentDate:    lastPayment,
	}
}

// nonNegative coerces missing or negative magnitudes to zero so that
// partially entered records contribute nothing instead of corrupting a
// whole report.
func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
