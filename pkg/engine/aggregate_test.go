package engine

import (
	"testing"
	"time"

	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/shopspring/decimal"
)

func testLoan() models.Loan {
	return models.Loan{
		LoanID:       "ACOD-LN-01",
		BranchID:     "branch-1",
		Principal:    decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(20),
		PaymentWeeks: 12,
	}
}

func pay(loanID string, amount float64, date models.Date) models.Payment {
	return models.Payment{
		LoanID:          loanID,
		RepaymentAmount: decimal.NewFromFloat(amount),
		Date:            date,
	}
}

func TestAggregate_DebtInvariance(t *testing.T) {
	loan := testLoan()
	expected := decimal.NewFromInt(1200)

	view := Aggregate(loan, nil)
	if !view.TotalDebt.Equal(expected) {
		t.Errorf("Expected total debt %s, got %s", expected, view.TotalDebt)
	}

	// Payments never move the debt.
	view = Aggregate(loan, []models.Payment{
		pay(loan.LoanID, 500, models.NewDate(2024, time.January, 8)),
	})
	if !view.TotalDebt.Equal(expected) {
		t.Errorf("Expected total debt %s after payments, got %s", expected, view.TotalDebt)
	}
}

func TestAggregate_FoldCorrectness(t *testing.T) {
	loan := testLoan()
	payments := []models.Payment{
		pay(loan.LoanID, 100, models.NewDate(2024, time.January, 8)),
		pay(loan.LoanID, 150, models.NewDate(2024, time.January, 15)),
		pay(loan.LoanID, 50, models.NewDate(2024, time.January, 22)),
	}

	view := Aggregate(loan, payments)
	if !view.TotalPaid.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected total paid 300, got %s", view.TotalPaid)
	}
	if !view.OutstandingBalance.Equal(decimal.NewFromInt(900)) {
		t.Errorf("Expected outstanding 900, got %s", view.OutstandingBalance)
	}
}

func TestAggregate_ZeroWeeksGuard(t *testing.T) {
	loan := testLoan()
	loan.PaymentWeeks = 0

	view := Aggregate(loan, []models.Payment{
		pay(loan.LoanID, 100, models.NewDate(2024, time.January, 8)),
	})
	if !view.WeeklyInstallment.IsZero() {
		t.Errorf("Expected weekly installment 0, got %s", view.WeeklyInstallment)
	}
	if !view.RemainingWeeks.IsZero() {
		t.Errorf("Expected remaining weeks 0, got %s", view.RemainingWeeks)
	}
}

func TestAggregate_DegenerateTermsAreNotAnError(t *testing.T) {
	view := Aggregate(models.Loan{LoanID: "ACOD-LN-02"}, nil)
	if !view.TotalDebt.IsZero() || !view.OutstandingBalance.IsZero() {
		t.Errorf("Expected zero figures for a zero-valued loan, got debt %s outstanding %s",
			view.TotalDebt, view.OutstandingBalance)
	}
	if view.LastPaymentDate != nil {
		t.Errorf("Expected no last payment date, got %s", view.LastPaymentDate)
	}
}

func TestAggregate_OrphanedPaymentsExcluded(t *testing.T) {
	loan := testLoan()
	payments := []models.Payment{
		pay(loan.LoanID, 100, models.NewDate(2024, time.January, 8)),
		pay("ACOD-LN-99", 5000, models.NewDate(2024, time.January, 8)),
	}

	view := Aggregate(loan, payments)
	if !view.TotalPaid.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected total paid 100, got %s", view.TotalPaid)
	}
}

func TestAggregate_NegativeAmountsCoercedToZero(t *testing.T) {
	loan := testLoan()
	payments := []models.Payment{
		pay(loan.LoanID, -250, models.NewDate(2024, time.January, 8)),
		pay(loan.LoanID, 100, models.NewDate(2024, time.January, 15)),
	}

	view := Aggregate(loan, payments)
	if !view.TotalPaid.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected negative amount to contribute nothing, total paid %s", view.TotalPaid)
	}
}

func TestAggregate_OverpaymentStaysSigned(t *testing.T) {
	loan := testLoan()
	payments := []models.Payment{
		pay(loan.LoanID, 1500, models.NewDate(2024, time.March, 4)),
	}

	view := Aggregate(loan, payments)
	if !view.OutstandingBalance.Equal(decimal.NewFromInt(-300)) {
		t.Errorf("Expected outstanding -300, got %s", view.OutstandingBalance)
	}
	if !view.RemainingWeeks.IsZero() {
		t.Errorf("Expected remaining weeks floored at 0, got %s", view.RemainingWeeks)
	}
}

func TestAggregate_LastPaymentDate(t *testing.T) {
	loan := testLoan()
	latest := models.NewDate(2024, time.February, 12)
	payments := []models.Payment{
		pay(loan.LoanID, 100, models.NewDate(2024, time.January, 8)),
		pay(loan.LoanID, 100, latest),
		pay(loan.LoanID, 100, models.NewDate(2024, time.January, 29)),
	}

	view := Aggregate(loan, payments)
	if view.LastPaymentDate == nil || !view.LastPaymentDate.Equal(latest.Time) {
		t.Errorf("Expected last payment date %s, got %v", latest, view.LastPaymentDate)
	}
}

func TestAggregate_SecuritySavedSeparateFromRepayment(t *testing.T) {
	loan := testLoan()
	p := pay(loan.LoanID, 100, models.NewDate(2024, time.January, 8))
	p.SecurityCollected = decimal.NewFromInt(25)

	view := Aggregate(loan, []models.Payment{p})
	if !view.TotalSecuritySaved.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected security saved 25, got %s", view.TotalSecuritySaved)
	}
	if !view.TotalPaid.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected total paid 100, got %s", view.TotalPaid)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	loan := testLoan()
	payments := []models.Payment{
		pay(loan.LoanID, 123.45, models.NewDate(2024, time.January, 8)),
		pay(loan.LoanID, 67.89, models.NewDate(2024, time.January, 15)),
	}

	first := Aggregate(loan, payments)
	second := Aggregate(loan, payments)

	if !first.TotalPaid.Equal(second.TotalPaid) ||
		!first.OutstandingBalance.Equal(second.OutstandingBalance) ||
		!first.RemainingWeeks.Equal(second.RemainingWeeks) {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
}
