// Package report builds the branch-level read views: the field collection
// sheet, loan reports grouped by group, the cashbook summary and dashboard
// totals. Every report is recomputed in full from the current record sets;
// nothing is cached between calls.
package report

import (
	"fmt"
	"sort"

	"github.com/codeWithLeonard225/osmfs/pkg/engine"
	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/codeWithLeonard225/osmfs/pkg/store"
	"github.com/shopspring/decimal"
)

// Loans with no group fall under this heading in grouped reports.
const ungroupedHeading = "Individual"

// Builder assembles reports from storage reads and engine computations.
type Builder struct {
	storage store.Storage
}

// NewBuilder creates a report Builder over the given Storage.
func NewBuilder(s store.Storage) *Builder {
	return &Builder{storage: s}
}

// CollectionRow is one loan's line on the field collection sheet.
type CollectionRow struct {
	Loan models.Loan       `json:"loan"`
	View engine.LedgerView `json:"view"`
	Due  engine.Due        `json:"due"`
	// Savings balances shown alongside the loan: deposits summed per
	// client, withdrawals netted off the voluntary side.
	CompulsoryBalance decimal.Decimal `json:"compulsory_balance"`
	VoluntaryBalance  decimal.Decimal `json:"voluntary_balance"`
	// PaidOnDate flags loans that already have a payment on the sheet
	// date, so field staff do not collect twice.
	PaidOnDate bool `json:"paid_on_date"`
}

// CollectionSheet is the worksheet a field officer takes out for one day.
type CollectionSheet struct {
	Date          models.Date     `json:"date"`
	Rows          []CollectionRow `json:"rows"`
	TotalExpected decimal.Decimal `json:"total_expected"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
}

// FieldCollectionSheet builds the worksheet for the given sheet date,
// optionally filtered by staff and group name.
func (b *Builder) FieldCollectionSheet(branchID, staffName, groupName string, date models.Date) (*CollectionSheet, error) {
	loans, err := b.storage.ListLoans(branchID, store.LoanFilter{StaffName: staffName, GroupName: groupName})
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	payments, err := b.storage.ListPayments(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	savings, err := b.storage.ListSavings(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings: %w", err)
	}
	withdrawals, err := b.storage.ListWithdrawals(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load withdrawals: %w", err)
	}

	byLoan := make(map[string][]models.Payment)
	for _, p := range payments {
		byLoan[p.LoanID] = append(byLoan[p.LoanID], *p)
	}

	type savingsBalance struct{ comp, vol decimal.Decimal }
	byClient := make(map[string]savingsBalance)
	for _, s := range savings {
		bal := byClient[s.ClientID]
		bal.comp = bal.comp.Add(s.CompulsoryAmount)
		bal.vol = bal.vol.Add(s.VoluntarySavings)
		byClient[s.ClientID] = bal
	}
	for _, w := range withdrawals {
		bal := byClient[w.ClientID]
		bal.vol = bal.vol.Sub(w.Amount)
		byClient[w.ClientID] = bal
	}

	sheet := &CollectionSheet{
		Date:          date,
		TotalExpected: decimal.Zero,
		TotalOverdue:  decimal.Zero,
	}
	for _, loan := range loans {
		loanPayments := byLoan[loan.LoanID]
		view := engine.Aggregate(*loan, loanPayments)
		due := engine.CollectionDue(view.WeeklyInstallment, loan.RepaymentStartDate, view.LastPaymentDate, date)

		paidOnDate := false
		for _, p := range loanPayments {
			if p.Date.Equal(date.Time) {
				paidOnDate = true
				break
			}
		}

		bal := byClient[loan.ClientID]
		sheet.Rows = append(sheet.Rows, CollectionRow{
			Loan:              *loan,
			View:              view,
			Due:               due,
			CompulsoryBalance: bal.comp,
			VoluntaryBalance:  bal.vol,
			PaidOnDate:        paidOnDate,
		})
		sheet.TotalExpected = sheet.TotalExpected.Add(due.Expected)
		sheet.TotalOverdue = sheet.TotalOverdue.Add(due.Overdue)
	}
	return sheet, nil
}

// GroupLoans is one group's section in a grouped loan report.
type GroupLoans struct {
	GroupName      string          `json:"group_name"`
	Loans          []models.Loan   `json:"loans"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
}

// StaffLoanReport lists a staff member's loans grouped by group name.
type StaffLoanReport struct {
	StaffName      string          `json:"staff_name"`
	Groups         []GroupLoans    `json:"groups"`
	GrandPrincipal decimal.Decimal `json:"grand_principal"`
}

// StaffLoans groups one staff member's loans by group with principal totals.
func (b *Builder) StaffLoans(branchID, staffName string) (*StaffLoanReport, error) {
	loans, err := b.storage.ListLoans(branchID, store.LoanFilter{StaffName: staffName})
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}

	groups, grand := groupByName(loans)
	return &StaffLoanReport{StaffName: staffName, Groups: groups, GrandPrincipal: grand}, nil
}

// OutstandingReport lists loans disbursed in a date range with projected
// totals: outstanding here is the full projected debt of each loan
// (principal plus flat interest), not net of payments.
type OutstandingReport struct {
	Groups           []GroupLoans    `json:"groups"`
	TotalPrincipal   decimal.Decimal `json:"total_principal"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// Outstanding builds the client-loan-outstanding report for loans disbursed
// between from and to, optionally filtered by staff.
func (b *Builder) Outstanding(branchID, staffName string, from, to models.Date) (*OutstandingReport, error) {
	loans, err := b.storage.ListLoans(branchID, store.LoanFilter{StaffName: staffName, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}

	groups, grand := groupByName(loans)
	outstanding := decimal.Zero
	for _, l := range loans {
		outstanding = outstanding.Add(engine.Aggregate(*l, nil).TotalDebt)
	}
	return &OutstandingReport{
		Groups:           groups,
		TotalPrincipal:   grand,
		TotalOutstanding: outstanding,
	}, nil
}

func groupByName(loans []*models.Loan) ([]GroupLoans, decimal.Decimal) {
	byName := make(map[string]*GroupLoans)
	grand := decimal.Zero
	for _, l := range loans {
		name := l.GroupName
		if name == "" {
			name = ungroupedHeading
		}
		g, ok := byName[name]
		if !ok {
			g = &GroupLoans{GroupName: name, TotalPrincipal: decimal.Zero}
			byName[name] = g
		}
		g.Loans = append(g.Loans, *l)
		g.TotalPrincipal = g.TotalPrincipal.Add(l.Principal)
		grand = grand.Add(l.Principal)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]GroupLoans, 0, len(names))
	for _, name := range names {
		groups = append(groups, *byName[name])
	}
	return groups, grand
}

// CashbookLine sums one group's collections for the cashbook.
type CashbookLine struct {
	GroupName      string          `json:"group_name"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
	TotalSecurity  decimal.Decimal `json:"total_security"`
	LastDate       models.Date     `json:"last_date"`
}

// CashbookSummary sums a staff member's collections grouped by group.
type CashbookSummary struct {
	StaffName      string          `json:"staff_name"`
	Lines          []CashbookLine  `json:"lines"`
	GrandRepayment decimal.Decimal `json:"grand_repayment"`
	GrandSecurity  decimal.Decimal `json:"grand_security"`
}

// Cashbook builds the cashbook summary for one staff member.
func (b *Builder) Cashbook(branchID, staffName string) (*CashbookSummary, error) {
	payments, err := b.storage.ListPayments(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	byGroup := make(map[string]*CashbookLine)
	summary := &CashbookSummary{
		StaffName:      staffName,
		GrandRepayment: decimal.Zero,
		GrandSecurity:  decimal.Zero,
	}
	for _, p := range payments {
		if staffName != "" && p.StaffName != staffName {
			continue
		}
		name := p.GroupName
		if name == "" {
			name = ungroupedHeading
		}
		line, ok := byGroup[name]
		if !ok {
			line = &CashbookLine{GroupName: name, TotalRepayment: decimal.Zero, TotalSecurity: decimal.Zero}
			byGroup[name] = line
		}
		line.TotalRepayment = line.TotalRepayment.Add(p.RepaymentAmount)
		line.TotalSecurity = line.TotalSecurity.Add(p.SecurityCollected)
		if p.Date.After(line.LastDate.Time) {
			line.LastDate = p.Date
		}
		summary.GrandRepayment = summary.GrandRepayment.Add(p.RepaymentAmount)
		summary.GrandSecurity = summary.GrandSecurity.Add(p.SecurityCollected)
	}

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		summary.Lines = append(summary.Lines, *byGroup[name])
	}
	return summary, nil
}

// DashboardTotals are the branch-wide headline figures.
type DashboardTotals struct {
	BranchID         string          `json:"branch_id"`
	LoanCount        int             `json:"loan_count"`
	TotalPrincipal   decimal.Decimal `json:"total_principal"`
	TotalRepaid      decimal.Decimal `json:"total_repaid"`
	TotalSecurity    decimal.Decimal `json:"total_security"`
	TotalCompulsory  decimal.Decimal `json:"total_compulsory"`
	TotalVoluntary   decimal.Decimal `json:"total_voluntary"`
	TotalWithdrawn   decimal.Decimal `json:"total_withdrawn"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// Dashboard computes branch-wide totals across loans, payments, savings and
// withdrawals.
func (b *Builder) Dashboard(branchID string) (*DashboardTotals, error) {
	loans, err := b.storage.ListLoans(branchID, store.LoanFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	payments, err := b.storage.ListPayments(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	savings, err := b.storage.ListSavings(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings: %w", err)
	}
	withdrawals, err := b.storage.ListWithdrawals(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load withdrawals: %w", err)
	}

	byLoan := make(map[string][]models.Payment)
	for _, p := range payments {
		byLoan[p.LoanID] = append(byLoan[p.LoanID], *p)
	}

	totals := &DashboardTotals{
		BranchID:         branchID,
		LoanCount:        len(loans),
		TotalPrincipal:   decimal.Zero,
		TotalRepaid:      decimal.Zero,
		TotalSecurity:    decimal.Zero,
		TotalCompulsory:  decimal.Zero,
		TotalVoluntary:   decimal.Zero,
		TotalWithdrawn:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, l := range loans {
		view := engine.Aggregate(*l, byLoan[l.LoanID])
		totals.TotalPrincipal = totals.TotalPrincipal.Add(l.Principal)
		totals.TotalRepaid = totals.TotalRepaid.Add(view.TotalPaid)
		totals.TotalSecurity = totals.TotalSecurity.Add(view.TotalSecuritySaved)
		totals.TotalOutstanding = totals.TotalOutstanding.Add(view.OutstandingBalance)
	}
	for _, s := range savings {
		totals.TotalCompulsory = totals.TotalCompulsory.Add(s.CompulsoryAmount)
		totals.TotalVoluntary = totals.TotalVoluntary.Add(s.VoluntarySavings)
	}
	for _, w := range withdrawals {
		totals.TotalWithdrawn = totals.TotalWithdrawn.Add(w.Amount)
	}
	return totals, nil
}
