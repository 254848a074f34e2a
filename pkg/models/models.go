package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Roles recognised by the back office. Staff operate within their branch;
// admins and the owner additionally perform destructive operations.
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// Client is a registered borrower. ClientID is the human-readable sequential
// identifier (CODE-SD-NN) scoped to the branch; ID is the storage key.
type Client struct {
	ID        uuid.UUID `json:"id"`
	ClientID  string    `json:"client_id"`
	BranchID  string    `json:"branch_id"`
	FullName  string    `json:"full_name"`
	StaffName string    `json:"staff_name"`
	Tel       string    `json:"tel"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Group is a named cohort of loans under one branch. Its name is frozen once
// any loan references the group.
type Group struct {
	ID            uuid.UUID `json:"id"`
	GroupID       string    `json:"group_id"`
	BranchID      string    `json:"branch_id"`
	GroupName     string    `json:"group_name"`
	LeaderName    string    `json:"leader_name"`
	LeaderTel     string    `json:"leader_tel"`
	LeaderAddress string    `json:"leader_address"`
	SecretaryName string    `json:"secretary_name"`
	SecretaryTel  string    `json:"secretary_tel"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Loan is a disbursed credit agreement. Interest is flat: applied once to the
// principal for the whole term, never compounded. An empty GroupID marks an
// individual (non-grouped) loan.
type Loan struct {
	ID                 uuid.UUID       `json:"id"`
	LoanID             string          `json:"loan_id"`
	BranchID           string          `json:"branch_id"`
	ClientID           string          `json:"client_id"`
	ClientName         string          `json:"client_name"`
	StaffName          string          `json:"staff_name"`
	GroupID            string          `json:"group_id,omitempty"`
	GroupName          string          `json:"group_name,omitempty"`
	LoanType           string          `json:"loan_type,omitempty"`
	LoanOutcome        string          `json:"loan_outcome,omitempty"`
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	PaymentWeeks       int             `json:"payment_weeks"`
	DisbursementDate   Date            `json:"disbursement_date"`
	RepaymentStartDate Date            `json:"repayment_start_date"`
	CashSecurity       decimal.Decimal `json:"cash_security"`
	AdmissionFee       decimal.Decimal `json:"admission_fee"`
	PassbookFee        decimal.Decimal `json:"passbook_fee"`
	LoanProcessingFee  decimal.Decimal `json:"loan_processing_fee"`

	// Guarantor details are carried verbatim on the loan record; the
	// ledger computations never read them.
	GuarantorName         string          `json:"guarantor_name,omitempty"`
	GuarantorIDCard       string          `json:"guarantor_id_card,omitempty"`
	GuarantorRelationship string          `json:"guarantor_relationship,omitempty"`
	GuarantorTel          string          `json:"guarantor_tel,omitempty"`
	GuarantorAmount       decimal.Decimal `json:"guarantor_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payment records money collected against a loan on a collection date. The
// date is the field-collection date, which may differ from CreatedAt.
// SecurityCollected feeds the running security-savings balance, a separate
// ledger from the loan's one-off CashSecurity deposit.
type Payment struct {
	ID                uuid.UUID       `json:"id"`
	BranchID          string          `json:"branch_id"`
	LoanID            string          `json:"loan_id"`
	ClientID          string          `json:"client_id"`
	ClientName        string          `json:"client_name,omitempty"`
	StaffName         string          `json:"staff_name,omitempty"`
	GroupName         string          `json:"group_name,omitempty"`
	Date              Date            `json:"date"`
	RepaymentAmount   decimal.Decimal `json:"repayment_amount"`
	SecurityCollected decimal.Decimal `json:"security_collected"`
	CreatedAt         time.Time       `json:"created_at"`
}

// SavingsEntry records a client's compulsory and voluntary savings deposit.
type SavingsEntry struct {
	ID               uuid.UUID       `json:"id"`
	BranchID         string          `json:"branch_id"`
	ClientID         string          `json:"client_id"`
	ClientName       string          `json:"client_name"`
	StaffName        string          `json:"staff_name,omitempty"`
	Date             Date            `json:"date"`
	CompulsoryAmount decimal.Decimal `json:"compulsory_amount"`
	VoluntarySavings decimal.Decimal `json:"voluntary_savings"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Withdrawal records money paid out of a client's savings.
type Withdrawal struct {
	ID         uuid.UUID       `json:"id"`
	BranchID   string          `json:"branch_id"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Date       Date            `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// User is a back-office operator. BranchID scopes every query the user's
// requests perform; ShortCode seeds sequential identifier allocation for the
// branch.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	BranchID     string    `json:"branch_id"`
	ShortCode    string    `json:"short_code"`
	CreatedAt    time.Time `json:"created_at"`
}
