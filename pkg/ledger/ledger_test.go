package ledger

import (
	"errors"
	"io"
	"testing"

	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/codeWithLeonard225/osmfs/pkg/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// MockStore is an in-memory Storage for testing the service layer without a
// database.
type MockStore struct {
	clients     map[uuid.UUID]*models.Client
	groups      map[uuid.UUID]*models.Group
	loans       map[uuid.UUID]*models.Loan
	payments    []*models.Payment
	savings     map[uuid.UUID]*models.SavingsEntry
	withdrawals map[uuid.UUID]*models.Withdrawal
	users       map[string]*models.User
}

func NewMockStore() *MockStore {
	return &MockStore{
		clients:     make(map[uuid.UUID]*models.Client),
		groups:      make(map[uuid.UUID]*models.Group),
		loans:       make(map[uuid.UUID]*models.Loan),
		savings:     make(map[uuid.UUID]*models.SavingsEntry),
		withdrawals: make(map[uuid.UUID]*models.Withdrawal),
		users:       make(map[string]*models.User),
	}
}

func (m *MockStore) CreateClient(c *models.Client) error {
	m.clients[c.ID] = c
	return nil
}

func (m *MockStore) UpdateClient(c *models.Client) error {
	if _, ok := m.clients[c.ID]; !ok {
		return store.ErrNotFound
	}
	m.clients[c.ID] = c
	return nil
}

func (m *MockStore) GetClientByClientID(branchID, clientID string) (*models.Client, error) {
	for _, c := range m.clients {
		if c.BranchID == branchID && c.ClientID == clientID {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) ListClients(branchID string) ([]*models.Client, error) {
	var out []*models.Client
	for _, c := range m.clients {
		if c.BranchID == branchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockStore) CreateGroup(g *models.Group) error {
	m.groups[g.ID] = g
	return nil
}

func (m *MockStore) UpdateGroup(g *models.Group) error {
	if _, ok := m.groups[g.ID]; !ok {
		return store.ErrNotFound
	}
	m.groups[g.ID] = g
	return nil
}

func (m *MockStore) DeleteGroup(branchID string, id uuid.UUID) error {
	g, ok := m.groups[id]
	if !ok || g.BranchID != branchID {
		return store.ErrNotFound
	}
	delete(m.groups, id)
	return nil
}

func (m *MockStore) GetGroup(branchID string, id uuid.UUID) (*models.Group, error) {
	g, ok := m.groups[id]
	if !ok || g.BranchID != branchID {
		return nil, store.ErrNotFound
	}
	return g, nil
}

func (m *MockStore) ListGroups(branchID string) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range m.groups {
		if g.BranchID == branchID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *MockStore) CreateLoan(l *models.Loan) error {
	for _, existing := range m.loans {
		if existing.BranchID == l.BranchID && existing.LoanID == l.LoanID {
			return errors.New("UNIQUE constraint failed: loans.loan_id")
		}
	}
	m.loans[l.ID] = l
	return nil
}

func (m *MockStore) UpdateLoan(l *models.Loan) error {
	if _, ok := m.loans[l.ID]; !ok {
		return store.ErrNotFound
	}
	m.loans[l.ID] = l
	return nil
}

func (m *MockStore) DeleteLoan(branchID string, id uuid.UUID) error {
	l, ok := m.loans[id]
	if !ok || l.BranchID != branchID {
		return store.ErrNotFound
	}
	delete(m.loans, id)
	return nil
}

func (m *MockStore) GetLoan(branchID string, id uuid.UUID) (*models.Loan, error) {
	l, ok := m.loans[id]
	if !ok || l.BranchID != branchID {
		return nil, store.ErrNotFound
	}
	return l, nil
}

func (m *MockStore) GetLoanByLoanID(branchID, loanID string) (*models.Loan, error) {
	for _, l := range m.loans {
		if l.BranchID == branchID && l.LoanID == loanID {
			return l, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) ListLoans(branchID string, filter store.LoanFilter) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range m.loans {
		if l.BranchID != branchID {
			continue
		}
		if filter.StaffName != "" && l.StaffName != filter.StaffName {
			continue
		}
		if filter.GroupName != "" && l.GroupName != filter.GroupName {
			continue
		}
		if !filter.From.IsZero() && l.DisbursementDate.Before(filter.From.Time) {
			continue
		}
		if !filter.To.IsZero() && l.DisbursementDate.After(filter.To.Time) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *MockStore) CreatePayment(p *models.Payment) error {
	m.payments = append(m.payments, p)
	return nil
}

func (m *MockStore) ListPayments(branchID string) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if p.BranchID == branchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockStore) ListPaymentsForLoan(branchID, loanID string) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if p.BranchID == branchID && p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockStore) CreateSaving(e *models.SavingsEntry) error {
	m.savings[e.ID] = e
	return nil
}

func (m *MockStore) UpdateSaving(e *models.SavingsEntry) error {
	if _, ok := m.savings[e.ID]; !ok {
		return store.ErrNotFound
	}
	m.savings[e.ID] = e
	return nil
}

func (m *MockStore) ListSavings(branchID string) ([]*models.SavingsEntry, error) {
	var out []*models.SavingsEntry
	for _, e := range m.savings {
		if e.BranchID == branchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockStore) CreateWithdrawal(w *models.Withdrawal) error {
	m.withdrawals[w.ID] = w
	return nil
}

func (m *MockStore) UpdateWithdrawal(w *models.Withdrawal) error {
	if _, ok := m.withdrawals[w.ID]; !ok {
		return store.ErrNotFound
	}
	m.withdrawals[w.ID] = w
	return nil
}

func (m *MockStore) DeleteWithdrawal(branchID string, id uuid.UUID) error {
	w, ok := m.withdrawals[id]
	if !ok || w.BranchID != branchID {
		return store.ErrNotFound
	}
	delete(m.withdrawals, id)
	return nil
}

func (m *MockStore) ListWithdrawals(branchID string) ([]*models.Withdrawal, error) {
	var out []*models.Withdrawal
	for _, w := range m.withdrawals {
		if w.BranchID == branchID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *MockStore) CreateUser(u *models.User) error {
	if _, ok := m.users[u.Username]; ok {
		return errors.New("UNIQUE constraint failed: users.username")
	}
	m.users[u.Username] = u
	return nil
}

func (m *MockStore) FindUserByUsername(username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *MockStore) ListBranches() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, l := range m.loans {
		if !seen[l.BranchID] {
			seen[l.BranchID] = true
			out = append(out, l.BranchID)
		}
	}
	return out, nil
}

func (m *MockStore) Close() error { return nil }

func testLedger() (*Ledger, *MockStore) {
	mock := NewMockStore()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewLedger(mock, log), mock
}

func TestDisburseLoanAllocatesSequentialIDs(t *testing.T) {
	l, _ := testLedger()

	first, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName: "Mary K",
		Principal:  decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	if first.LoanID != "ABC-LN-01" {
		t.Errorf("Expected loan ID ABC-LN-01, got %s", first.LoanID)
	}

	second, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName: "John D",
		Principal:  decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	if second.LoanID != "ABC-LN-02" {
		t.Errorf("Expected loan ID ABC-LN-02, got %s", second.LoanID)
	}
}

func TestDisburseLoanBranchesAllocateIndependently(t *testing.T) {
	l, _ := testLedger()

	if _, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName: "Mary K",
		Principal:  decimal.NewFromInt(1000),
	}); err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}

	other, err := l.DisburseLoan("branch-2", "ABC", models.Loan{
		ClientName: "Fatu S",
		Principal:  decimal.NewFromInt(700),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	if other.LoanID != "ABC-LN-01" {
		t.Errorf("Expected branch-2 to start at ABC-LN-01, got %s", other.LoanID)
	}
}

func TestDisburseLoanAppliesDefaults(t *testing.T) {
	l, _ := testLedger()

	loan, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName:       "Mary K",
		LoanType:         "Small",
		Principal:        decimal.NewFromInt(1000),
		DisbursementDate: models.NewDate(2026, 3, 2),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	if !loan.InterestRate.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected default interest rate 20, got %s", loan.InterestRate)
	}
	if loan.PaymentWeeks != 23 {
		t.Errorf("Expected default payment weeks 23, got %d", loan.PaymentWeeks)
	}
	want := models.NewDate(2026, 3, 9)
	if !loan.RepaymentStartDate.Equal(want.Time) {
		t.Errorf("Expected repayment start %s, got %s", want, loan.RepaymentStartDate)
	}
}

func TestDisburseLoanKeepsExplicitTerms(t *testing.T) {
	l, _ := testLedger()

	loan, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName:   "Mary K",
		LoanType:     "Small",
		Principal:    decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(15),
		PaymentWeeks: 12,
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	if !loan.InterestRate.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected interest rate 15, got %s", loan.InterestRate)
	}
	if loan.PaymentWeeks != 12 {
		t.Errorf("Expected payment weeks 12, got %d", loan.PaymentWeeks)
	}
}

func TestDisburseLoanRejectsInvalidInput(t *testing.T) {
	l, _ := testLedger()

	_, err := l.DisburseLoan("branch-1", "ABC", models.Loan{Principal: decimal.NewFromInt(1000)})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for missing client name, got %v", err)
	}

	_, err = l.DisburseLoan("branch-1", "ABC", models.Loan{ClientName: "Mary K"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for zero principal, got %v", err)
	}
}

func TestUpdateLoanPreservesLoanID(t *testing.T) {
	l, _ := testLedger()

	loan, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName: "Mary K",
		Principal:  decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}

	updated := *loan
	updated.LoanID = "ABC-LN-99"
	updated.ClientName = "Mary Kamara"
	if err := l.UpdateLoan("branch-1", updated); err != nil {
		t.Fatalf("UpdateLoan failed: %v", err)
	}

	got, err := l.GetLoan("branch-1", loan.ID)
	if err != nil {
		t.Fatalf("GetLoan failed: %v", err)
	}
	if got.LoanID != loan.LoanID {
		t.Errorf("Expected loan ID %s to be preserved, got %s", loan.LoanID, got.LoanID)
	}
	if got.ClientName != "Mary Kamara" {
		t.Errorf("Expected updated client name, got %s", got.ClientName)
	}
}

func TestRegisterClientAllocatesClientID(t *testing.T) {
	l, _ := testLedger()

	client, err := l.RegisterClient("branch-1", "", models.Client{FullName: "Mary K"})
	if err != nil {
		t.Fatalf("RegisterClient failed: %v", err)
	}
	if client.ClientID != "PMCD-SD-01" {
		t.Errorf("Expected client ID PMCD-SD-01, got %s", client.ClientID)
	}
}

func TestGroupRenameBlockedWhileLoansReference(t *testing.T) {
	l, _ := testLedger()

	group, err := l.RegisterGroup("branch-1", "ABC", models.Group{
		GroupName:  "Sunrise",
		LeaderName: "Adama T",
	})
	if err != nil {
		t.Fatalf("RegisterGroup failed: %v", err)
	}

	if _, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName: "Mary K",
		GroupID:    group.GroupID,
		GroupName:  group.GroupName,
		Principal:  decimal.NewFromInt(1000),
	}); err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}

	renamed := *group
	renamed.GroupName = "Sunset"
	if err := l.UpdateGroup("branch-1", renamed); !errors.Is(err, ErrGroupHasLoans) {
		t.Errorf("Expected ErrGroupHasLoans on rename, got %v", err)
	}

	// Updating without renaming is still allowed.
	touched := *group
	touched.LeaderTel = "076123456"
	if err := l.UpdateGroup("branch-1", touched); err != nil {
		t.Errorf("Expected non-rename update to succeed, got %v", err)
	}

	if err := l.DeleteGroup("branch-1", group.ID); !errors.Is(err, ErrGroupHasLoans) {
		t.Errorf("Expected ErrGroupHasLoans on delete, got %v", err)
	}
}

func TestDeleteGroupWithoutLoans(t *testing.T) {
	l, _ := testLedger()

	group, err := l.RegisterGroup("branch-1", "ABC", models.Group{
		GroupName:  "Sunrise",
		LeaderName: "Adama T",
	})
	if err != nil {
		t.Fatalf("RegisterGroup failed: %v", err)
	}
	if err := l.DeleteGroup("branch-1", group.ID); err != nil {
		t.Errorf("Expected delete to succeed, got %v", err)
	}
}

func TestRecordPaymentDenormalizesLoanFields(t *testing.T) {
	l, _ := testLedger()

	loan, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientID:   "ABC-SD-01",
		ClientName: "Mary K",
		StaffName:  "Foday",
		GroupName:  "Sunrise",
		Principal:  decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}

	p, err := l.RecordPayment("branch-1", models.Payment{
		LoanID:          loan.LoanID,
		RepaymentAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if p.ClientName != "Mary K" || p.StaffName != "Foday" || p.GroupName != "Sunrise" {
		t.Errorf("Expected payment to carry loan's client/staff/group, got %+v", p)
	}
	if p.Date.IsZero() {
		t.Error("Expected payment date to default to today")
	}
}

func TestRecordPaymentRejectsNegativeAmount(t *testing.T) {
	l, _ := testLedger()

	loan, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName: "Mary K",
		Principal:  decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}

	_, err = l.RecordPayment("branch-1", models.Payment{
		LoanID:          loan.LoanID,
		RepaymentAmount: decimal.NewFromInt(-50),
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for negative amount, got %v", err)
	}
}

func TestRecordPaymentUnknownLoan(t *testing.T) {
	l, _ := testLedger()

	_, err := l.RecordPayment("branch-1", models.Payment{
		LoanID:          "ABC-LN-99",
		RepaymentAmount: decimal.NewFromInt(100),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown loan, got %v", err)
	}
}

func TestSaveCollectionSheetSkipsZeroAndDuplicateRows(t *testing.T) {
	l, _ := testLedger()

	first, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName: "Mary K",
		Principal:  decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	second, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName: "John D",
		Principal:  decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}

	date := models.NewDate(2026, 8, 24)
	rows := []BulkPaymentRow{
		{LoanID: first.LoanID, RepaymentAmount: decimal.NewFromInt(100)},
		{LoanID: second.LoanID}, // nothing collected
	}

	saved, err := l.SaveCollectionSheet("branch-1", date, rows)
	if err != nil {
		t.Fatalf("SaveCollectionSheet failed: %v", err)
	}
	if saved != 1 {
		t.Errorf("Expected 1 payment saved, got %d", saved)
	}

	// Re-submitting the same sheet must not double-post.
	saved, err = l.SaveCollectionSheet("branch-1", date, rows)
	if err != nil {
		t.Fatalf("SaveCollectionSheet failed: %v", err)
	}
	if saved != 0 {
		t.Errorf("Expected 0 payments saved on resubmission, got %d", saved)
	}

	payments, err := l.ListPayments("branch-1")
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("Expected 1 payment in total, got %d", len(payments))
	}
}

func TestSaveCollectionSheetRequiresDate(t *testing.T) {
	l, _ := testLedger()

	_, err := l.SaveCollectionSheet("branch-1", models.Date{}, nil)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for zero date, got %v", err)
	}
}

func TestGetLoanLedgerAggregatesPayments(t *testing.T) {
	l, _ := testLedger()

	loan, err := l.DisburseLoan("branch-1", "ABC", models.Loan{
		ClientName:   "Mary K",
		Principal:    decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(20),
		PaymentWeeks: 12,
	})
	if err != nil {
		t.Fatalf("DisburseLoan failed: %v", err)
	}
	if _, err := l.RecordPayment("branch-1", models.Payment{
		LoanID:          loan.LoanID,
		RepaymentAmount: decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	view, err := l.GetLoanLedger("branch-1", loan.ID)
	if err != nil {
		t.Fatalf("GetLoanLedger failed: %v", err)
	}
	if !view.View.TotalDebt.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected total debt 1200, got %s", view.View.TotalDebt)
	}
	if !view.View.OutstandingBalance.Equal(decimal.NewFromInt(900)) {
		t.Errorf("Expected outstanding 900, got %s", view.View.OutstandingBalance)
	}
}

func TestRegisterUserAndAuthenticate(t *testing.T) {
	l, mock := testLedger()

	user, err := l.RegisterUser("foday", "secret123", models.RoleStaff, "branch-1", "ABC")
	if err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	if user.PasswordHash == "secret123" {
		t.Error("Expected password to be hashed, got plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(mock.users["foday"].PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("Stored hash does not match password: %v", err)
	}

	got, err := l.Authenticate("foday", "secret123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.BranchID != "branch-1" || got.ShortCode != "ABC" {
		t.Errorf("Expected branch-1/ABC claims source, got %s/%s", got.BranchID, got.ShortCode)
	}

	if _, err := l.Authenticate("foday", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := l.Authenticate("nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterUserRejectsUnknownRole(t *testing.T) {
	l, _ := testLedger()

	_, err := l.RegisterUser("foday", "secret123", "superuser", "branch-1", "ABC")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for unknown role, got %v", err)
	}
}
