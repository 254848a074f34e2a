// Package ledger implements the back-office operations: registering clients
// and groups, disbursing loans, and recording payments, savings and
// withdrawals. It owns no derived state; financial figures always come from
// pkg/engine over freshly loaded records.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/codeWithLeonard225/osmfs/pkg/engine"
	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/codeWithLeonard225/osmfs/pkg/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Defaults applied when a Small or Medium loan is disbursed without explicit
// terms.
var (
	defaultInterestRate = decimal.NewFromInt(20)
	defaultPaymentWeeks = 23
)

// ErrGroupHasLoans rejects renaming or deleting a group that loans still
// reference.
var ErrGroupHasLoans = errors.New("group has active loans")

// ErrValidation marks a rejected input; handlers map it to a 400.
var ErrValidation = errors.New("invalid input")

// Ledger handles the business logic for the branch back office.
type Ledger struct {
	storage store.Storage
	log     *logrus.Logger
}

// NewLedger creates a Ledger over the given Storage implementation.
func NewLedger(s store.Storage, log *logrus.Logger) *Ledger {
	return &Ledger{storage: s, log: log}
}

// --- Clients ---

// RegisterClient stores a new client with the next sequential client ID for
// the branch's short code.
func (l *Ledger) RegisterClient(branchID, shortCode string, c models.Client) (*models.Client, error) {
	if c.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}

	existing, err := l.storage.ListClients(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing clients: %w", err)
	}
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.ClientID)
	}

	now := time.Now()
	c.ID = uuid.New()
	c.ClientID = engine.NextSequentialID(shortCode, engine.KindClient, ids)
	c.BranchID = branchID
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := l.storage.CreateClient(&c); err != nil {
		return nil, fmt.Errorf("failed to store client: %w", err)
	}
	l.log.WithFields(logrus.Fields{"branch": branchID, "client": c.ClientID}).Info("client registered")
	return &c, nil
}

// UpdateClient amends a client's descriptive fields.
func (l *Ledger) UpdateClient(branchID string, c models.Client) error {
	c.BranchID = branchID
	c.UpdatedAt = time.Now()
	return l.storage.UpdateClient(&c)
}

// ListClients returns the branch's clients.
func (l *Ledger) ListClients(branchID string) ([]*models.Client, error) {
	return l.storage.ListClients(branchID)
}

// --- Groups ---

// RegisterGroup stores a new group with the next sequential group ID.
func (l *Ledger) RegisterGroup(branchID, shortCode string, g models.Group) (*models.Group, error) {
	if g.GroupName == "" || g.LeaderName == "" {
		return nil, fmt.Errorf("%w: group name and leader are required", ErrValidation)
	}

	existing, err := l.storage.ListGroups(branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing groups: %w", err)
	}
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.GroupID)
	}

	now := time.Now()
	g.ID = uuid.New()
	g.GroupID = engine.NextSequentialID(shortCode, engine.KindGroup, ids)
	g.BranchID = branchID
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := l.storage.CreateGroup(&g); err != nil {
		return nil, fmt.Errorf("failed to store group: %w", err)
	}
	l.log.WithFields(logrus.Fields{"branch": branchID, "group": g.GroupID}).Info("group registered")
	return &g, nil
}

// UpdateGroup amends a group. Renaming is refused while any loan references
// the group, since reports key on the group name.
func (l *Ledger) UpdateGroup(branchID string, g models.Group) error {
	current, err := l.storage.GetGroup(branchID, g.ID)
	if err != nil {
		return err
	}
	if current.GroupName != g.GroupName {
		referenced, err := l.groupReferenced(branchID, current.GroupID)
		if err != nil {
			return err
		}
		if referenced {
			return ErrGroupHasLoans
		}
	}

	g.GroupID = current.GroupID
	g.BranchID = branchID
	g.UpdatedAt = time.Now()
	return l.storage.UpdateGroup(&g)
}

// DeleteGroup removes a group, refusing while loans reference it.
func (l *Ledger) DeleteGroup(branchID string, id uuid.UUID) error {
	g, err := l.storage.GetGroup(branchID, id)
	if err != nil {
		return err
	}
	referenced, err := l.groupReferenced(branchID, g.GroupID)
	if err != nil {
		return err
	}
	if referenced {
		return ErrGroupHasLoans
	}
	return l.storage.DeleteGroup(branchID, id)
}

// ListGroups returns the branch's groups.
func (l *Ledger) ListGroups(branchID string) ([]*models.Group, error) {
	return l.storage.ListGroups(branchID)
}

func (l *Ledger) groupReferenced(branchID, groupID string) (bool, error) {
	loans, err := l.storage.ListLoans(branchID, store.LoanFilter{})
	if err != nil {
		return false, fmt.Errorf("failed to check group loans: %w", err)
	}
	for _, loan := range loans {
		if loan.GroupID == groupID {
			return true, nil
		}
	}
	return false, nil
}

// --- Loans ---

// DisburseLoan stores a new loan, allocating the next sequential loan ID and
// filling term defaults: the repayment start is a week after disbursement
// when unset, and Small/Medium loans default to 20% flat over 23 weeks.
func (l *Ledger) DisburseLoan(branchID, shortCode string, loan models.Loan) (*models.Loan, error) {
	if loan.ClientName == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if !loan.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", ErrValidation)
	}

	existing, err := l.storage.ListLoans(branchID, store.LoanFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load existing loans: %w", err)
	}
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.LoanID)
	}

	if loan.LoanType == "Small" || loan.LoanType == "Medium" {
		if loan.InterestRate.IsZero() {
			loan.InterestRate = defaultInterestRate
		}
		if loan.PaymentWeeks == 0 {
			loan.PaymentWeeks = defaultPaymentWeeks
		}
	}
	if loan.DisbursementDate.IsZero() {
		loan.DisbursementDate = models.Today()
	}
	if loan.RepaymentStartDate.IsZero() {
		loan.RepaymentStartDate = loan.DisbursementDate.AddDays(7)
	}

	now := time.Now()
	loan.ID = uuid.New()
	loan.LoanID = engine.NextSequentialID(shortCode, engine.KindLoan, ids)
	loan.BranchID = branchID
	loan.CreatedAt = now
	loan.UpdatedAt = now

	if err := l.storage.CreateLoan(&loan); err != nil {
		if store.IsConflict(err) {
			return nil, fmt.Errorf("loan id %s already allocated, retry: %w", loan.LoanID, err)
		}
		return nil, fmt.Errorf("failed to store loan: %w", err)
	}
	l.log.WithFields(logrus.Fields{
		"branch":    branchID,
		"loan":      loan.LoanID,
		"principal": loan.Principal.String(),
	}).Info("loan disbursed")
	return &loan, nil
}

// UpdateLoan amends an existing loan's terms and descriptive fields.
func (l *Ledger) UpdateLoan(branchID string, loan models.Loan) error {
	current, err := l.storage.GetLoan(branchID, loan.ID)
	if err != nil {
		return err
	}
	loan.LoanID = current.LoanID
	loan.BranchID = branchID
	loan.UpdatedAt = time.Now()
	return l.storage.UpdateLoan(&loan)
}

// DeleteLoan removes a loan. Payments referencing it become orphans, which
// the aggregation deliberately tolerates.
func (l *Ledger) DeleteLoan(branchID string, id uuid.UUID) error {
	return l.storage.DeleteLoan(branchID, id)
}

// GetLoan retrieves one loan by storage key.
func (l *Ledger) GetLoan(branchID string, id uuid.UUID) (*models.Loan, error) {
	return l.storage.GetLoan(branchID, id)
}

// ListLoans returns the branch's loans, optionally filtered.
func (l *Ledger) ListLoans(branchID string, filter store.LoanFilter) ([]*models.Loan, error) {
	return l.storage.ListLoans(branchID, filter)
}

// LoanLedger couples a loan with its freshly computed financial view.
type LoanLedger struct {
	Loan models.Loan       `json:"loan"`
	View engine.LedgerView `json:"view"`
}

// GetLoanLedger loads a loan and its payments and aggregates them.
func (l *Ledger) GetLoanLedger(branchID string, id uuid.UUID) (*LoanLedger, error) {
	loan, err := l.storage.GetLoan(branchID, id)
	if err != nil {
		return nil, err
	}
	payments, err := l.storage.ListPaymentsForLoan(branchID, loan.LoanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	deref := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		deref = append(deref, *p)
	}
	return &LoanLedger{Loan: *loan, View: engine.Aggregate(*loan, deref)}, nil
}

// --- Payments ---

// RecordPayment stores one collection event against a loan, denormalizing
// the loan's client and group fields onto the payment for reporting.
func (l *Ledger) RecordPayment(branchID string, p models.Payment) (*models.Payment, error) {
	loan, err := l.storage.GetLoanByLoanID(branchID, p.LoanID)
	if err != nil {
		return nil, err
	}
	if p.RepaymentAmount.IsNegative() || p.SecurityCollected.IsNegative() {
		return nil, fmt.Errorf("%w: amounts must not be negative", ErrValidation)
	}
	if p.Date.IsZero() {
		p.Date = models.Today()
	}

	p.ID = uuid.New()
	p.BranchID = branchID
	p.ClientID = loan.ClientID
	p.ClientName = loan.ClientName
	p.StaffName = loan.StaffName
	p.GroupName = loan.GroupName
	p.CreatedAt = time.Now()

	if err := l.storage.CreatePayment(&p); err != nil {
		return nil, fmt.Errorf("failed to store payment: %w", err)
	}
	l.log.WithFields(logrus.Fields{
		"branch": branchID,
		"loan":   p.LoanID,
		"amount": p.RepaymentAmount.String(),
	}).Info("payment recorded")
	return &p, nil
}

// BulkPaymentRow is one collection-sheet line submitted for saving.
type BulkPaymentRow struct {
	LoanID            string          `json:"loan_id"`
	RepaymentAmount   decimal.Decimal `json:"repayment_amount"`
	SecurityCollected decimal.Decimal `json:"security_collected"`
}

// SaveCollectionSheet records a day's collections in one call. Rows with
// nothing collected are skipped, as are rows whose loan already has a
// payment dated that day, so re-submitting a sheet cannot double-post.
// Returns the number of payments actually recorded.
func (l *Ledger) SaveCollectionSheet(branchID string, date models.Date, rows []BulkPaymentRow) (int, error) {
	if date.IsZero() {
		return 0, fmt.Errorf("%w: collection date is required", ErrValidation)
	}

	saved := 0
	for _, row := range rows {
		if row.RepaymentAmount.IsZero() && row.SecurityCollected.IsZero() {
			continue
		}

		existing, err := l.storage.ListPaymentsForLoan(branchID, row.LoanID)
		if err != nil {
			return saved, fmt.Errorf("failed to load payments for %s: %w", row.LoanID, err)
		}
		alreadyPaid := false
		for _, p := range existing {
			if p.Date.Equal(date.Time) {
				alreadyPaid = true
				break
			}
		}
		if alreadyPaid {
			l.log.WithFields(logrus.Fields{"loan": row.LoanID, "date": date.String()}).
				Warn("skipping loan already paid on this date")
			continue
		}

		_, err = l.RecordPayment(branchID, models.Payment{
			LoanID:            row.LoanID,
			Date:              date,
			RepaymentAmount:   row.RepaymentAmount,
			SecurityCollected: row.SecurityCollected,
		})
		if err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// ListPayments returns all payments for the branch.
func (l *Ledger) ListPayments(branchID string) ([]*models.Payment, error) {
	return l.storage.ListPayments(branchID)
}

// --- Savings & withdrawals ---

// RecordSaving stores a savings deposit for a client.
func (l *Ledger) RecordSaving(branchID string, e models.SavingsEntry) (*models.SavingsEntry, error) {
	if e.ClientID == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrValidation)
	}
	if e.Date.IsZero() {
		e.Date = models.Today()
	}
	now := time.Now()
	e.ID = uuid.New()
	e.BranchID = branchID
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := l.storage.CreateSaving(&e); err != nil {
		return nil, fmt.Errorf("failed to store savings entry: %w", err)
	}
	return &e, nil
}

// UpdateSaving amends a savings entry.
func (l *Ledger) UpdateSaving(branchID string, e models.SavingsEntry) error {
	e.BranchID = branchID
	e.UpdatedAt = time.Now()
	return l.storage.UpdateSaving(&e)
}

// ListSavings returns all savings entries for the branch.
func (l *Ledger) ListSavings(branchID string) ([]*models.SavingsEntry, error) {
	return l.storage.ListSavings(branchID)
}

// RecordWithdrawal stores a savings withdrawal for a client.
func (l *Ledger) RecordWithdrawal(branchID string, w models.Withdrawal) (*models.Withdrawal, error) {
	if w.ClientID == "" || !w.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: client id and a positive amount are required", ErrValidation)
	}
	if w.Date.IsZero() {
		w.Date = models.Today()
	}
	now := time.Now()
	w.ID = uuid.New()
	w.BranchID = branchID
	w.CreatedAt = now
	w.UpdatedAt = now
	if err := l.storage.CreateWithdrawal(&w); err != nil {
		return nil, fmt.Errorf("failed to store withdrawal: %w", err)
	}
	return &w, nil
}

// UpdateWithdrawal amends a withdrawal record.
func (l *Ledger) UpdateWithdrawal(branchID string, w models.Withdrawal) error {
	w.BranchID = branchID
	w.UpdatedAt = time.Now()
	return l.storage.UpdateWithdrawal(&w)
}

// DeleteWithdrawal removes a withdrawal record.
func (l *Ledger) DeleteWithdrawal(branchID string, id uuid.UUID) error {
	return l.storage.DeleteWithdrawal(branchID, id)
}

// ListWithdrawals returns all withdrawals for the branch.
func (l *Ledger) ListWithdrawals(branchID string) ([]*models.Withdrawal, error) {
	return l.storage.ListWithdrawals(branchID)
}
