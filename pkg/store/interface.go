package store

import (
	"errors"

	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a branch-scoped lookup matches no record.
var ErrNotFound = errors.New("record not found")

// LoanFilter narrows a branch's loan listing. Zero values leave a dimension
// unfiltered; From/To bound the disbursement date inclusively.
type LoanFilter struct {
	StaffName string
	GroupName string
	From      models.Date
	To        models.Date
}

// Storage defines the persistence operations the back office needs. Every
// method is scoped by an explicit branch ID; implementations must never
// infer the branch from ambient state.
type Storage interface {
	CreateClient(client *models.Client) error
	UpdateClient(client *models.Client) error
	GetClientByClientID(branchID, clientID string) (*models.Client, error)
	ListClients(branchID string) ([]*models.Client, error)

	CreateGroup(group *models.Group) error
	UpdateGroup(group *models.Group) error
	DeleteGroup(branchID string, id uuid.UUID) error
	GetGroup(branchID string, id uuid.UUID) (*models.Group, error)
	ListGroups(branchID string) ([]*models.Group, error)

	CreateLoan(loan *models.Loan) error
	UpdateLoan(loan *models.Loan) error
	DeleteLoan(branchID string, id uuid.UUID) error
	GetLoan(branchID string, id uuid.UUID) (*models.Loan, error)
	GetLoanByLoanID(branchID, loanID string) (*models.Loan, error)
	ListLoans(branchID string, filter LoanFilter) ([]*models.Loan, error)

	CreatePayment(payment *models.Payment) error
	ListPayments(branchID string) ([]*models.Payment, error)
	ListPaymentsForLoan(branchID, loanID string) ([]*models.Payment, error)

	CreateSaving(entry *models.SavingsEntry) error
	UpdateSaving(entry *models.SavingsEntry) error
	ListSavings(branchID string) ([]*models.SavingsEntry, error)

	CreateWithdrawal(w *models.Withdrawal) error
	UpdateWithdrawal(w *models.Withdrawal) error
	DeleteWithdrawal(branchID string, id uuid.UUID) error
	ListWithdrawals(branchID string) ([]*models.Withdrawal, error)

	CreateUser(user *models.User) error
	FindUserByUsername(username string) (*models.User, error)

	// ListBranches reports every branch ID that has at least one loan;
	// used by the nightly summary job.
	ListBranches() ([]string, error)

	Close() error
}
