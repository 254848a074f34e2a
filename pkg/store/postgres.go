package store

import (
	"database/sql"
	"fmt"

	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/google/uuid"

	_ "github.com/lib/pq"
)

// PostgresStore is the production Storage backend. Monetary columns use
// NUMERIC and dates use DATE; row scanning is shared with the SQLite store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects with a lib/pq connection string and ensures the
// schema exists.
func NewPostgresStore(conn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY,
		client_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		staff_name TEXT NOT NULL DEFAULT '',
		tel TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE(branch_id, client_id)
	);
	CREATE TABLE IF NOT EXISTS groups (
		id UUID PRIMARY KEY,
		group_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		group_name TEXT NOT NULL,
		leader_name TEXT NOT NULL DEFAULT '',
		leader_tel TEXT NOT NULL DEFAULT '',
		leader_address TEXT NOT NULL DEFAULT '',
		secretary_name TEXT NOT NULL DEFAULT '',
		secretary_tel TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE(branch_id, group_id)
	);
	CREATE TABLE IF NOT EXISTS loans (
		id UUID PRIMARY KEY,
		loan_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		client_name TEXT NOT NULL,
		staff_name TEXT NOT NULL DEFAULT '',
		group_id TEXT NOT NULL DEFAULT '',
		group_name TEXT NOT NULL DEFAULT '',
		loan_type TEXT NOT NULL DEFAULT '',
		loan_outcome TEXT NOT NULL DEFAULT '',
		principal NUMERIC NOT NULL,
		interest_rate NUMERIC NOT NULL,
		payment_weeks INTEGER NOT NULL DEFAULT 0,
		disbursement_date DATE,
		repayment_start_date DATE,
		cash_security NUMERIC NOT NULL DEFAULT 0,
		admission_fee NUMERIC NOT NULL DEFAULT 0,
		passbook_fee NUMERIC NOT NULL DEFAULT 0,
		loan_processing_fee NUMERIC NOT NULL DEFAULT 0,
		guarantor_name TEXT NOT NULL DEFAULT '',
		guarantor_id_card TEXT NOT NULL DEFAULT '',
		guarantor_relationship TEXT NOT NULL DEFAULT '',
		guarantor_tel TEXT NOT NULL DEFAULT '',
		guarantor_amount NUMERIC NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE(branch_id, loan_id)
	);
	CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		branch_id TEXT NOT NULL,
		loan_id TEXT NOT NULL,
		client_id TEXT NOT NULL DEFAULT '',
		client_name TEXT NOT NULL DEFAULT '',
		staff_name TEXT NOT NULL DEFAULT '',
		group_name TEXT NOT NULL DEFAULT '',
		date DATE,
		repayment_amount NUMERIC NOT NULL DEFAULT 0,
		security_collected NUMERIC NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS savings (
		id UUID PRIMARY KEY,
		branch_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		staff_name TEXT NOT NULL DEFAULT '',
		date DATE,
		compulsory_amount NUMERIC NOT NULL DEFAULT 0,
		voluntary_savings NUMERIC NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS withdrawals (
		id UUID PRIMARY KEY,
		branch_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		date DATE,
		amount NUMERIC NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		short_code TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_loans_branch ON loans(branch_id);
	CREATE INDEX IF NOT EXISTS idx_payments_branch_loan ON payments(branch_id, loan_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- Clients ---

func (s *PostgresStore) CreateClient(c *models.Client) error {
	_, err := s.db.Exec(
		`INSERT INTO clients (id, client_id, branch_id, full_name, staff_name, tel, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.ClientID, c.BranchID, c.FullName, c.StaffName, c.Tel, c.Address, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateClient(c *models.Client) error {
	result, err := s.db.Exec(
		`UPDATE clients SET full_name = $1, staff_name = $2, tel = $3, address = $4, updated_at = $5
		WHERE branch_id = $6 AND id = $7`,
		c.FullName, c.StaffName, c.Tel, c.Address, c.UpdatedAt, c.BranchID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return checkAffected(result)
}

func (s *PostgresStore) GetClientByClientID(branchID, clientID string) (*models.Client, error) {
	row := s.db.QueryRow(
		`SELECT id, client_id, branch_id, full_name, staff_name, tel, address, created_at, updated_at
		FROM clients WHERE branch_id = $1 AND client_id = $2`, branchID, clientID)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListClients(branchID string) ([]*models.Client, error) {
	rows, err := s.db.Query(
		`SELECT id, client_id, branch_id, full_name, staff_name, tel, address, created_at, updated_at
		FROM clients WHERE branch_id = $1 ORDER BY client_id`, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// --- Groups ---

func (s *PostgresStore) CreateGroup(g *models.Group) error {
	_, err := s.db.Exec(
		`INSERT INTO groups (id, group_id, branch_id, group_name, leader_name, leader_tel, leader_address, secretary_name, secretary_tel, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		g.ID, g.GroupID, g.BranchID, g.GroupName, g.LeaderName, g.LeaderTel, g.LeaderAddress, g.SecretaryName, g.SecretaryTel, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateGroup(g *models.Group) error {
	result, err := s.db.Exec(
		`UPDATE groups SET group_name = $1, leader_name = $2, leader_tel = $3, leader_address = $4, secretary_name = $5, secretary_tel = $6, updated_at = $7
		WHERE branch_id = $8 AND id = $9`,
		g.GroupName, g.LeaderName, g.LeaderTel, g.LeaderAddress, g.SecretaryName, g.SecretaryTel, g.UpdatedAt, g.BranchID, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return checkAffected(result)
}

func (s *PostgresStore) DeleteGroup(branchID string, id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM groups WHERE branch_id = $1 AND id = $2`, branchID, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return checkAffected(result)
}

func (s *PostgresStore) GetGroup(branchID string, id uuid.UUID) (*models.Group, error) {
	row := s.db.QueryRow(
		`SELECT id, group_id, branch_id, group_name, leader_name, leader_tel, leader_address, secretary_name, secretary_tel, created_at, updated_at
		FROM groups WHERE branch_id = $1 AND id = $2`, branchID, id)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) ListGroups(branchID string) ([]*models.Group, error) {
	rows, err := s.db.Query(
		`SELECT id, group_id, branch_id, group_name, leader_name, leader_tel, leader_address, secretary_name, secretary_tel, created_at, updated_at
		FROM groups WHERE branch_id = $1 ORDER BY group_id`, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// --- Loans ---

func (s *PostgresStore) CreateLoan(l *models.Loan) error {
	_, err := s.db.Exec(
		`INSERT INTO loans (`+loanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		l.ID, l.LoanID, l.BranchID, l.ClientID, l.ClientName, l.StaffName, l.GroupID, l.GroupName, l.LoanType, l.LoanOutcome,
		l.Principal, l.InterestRate, l.PaymentWeeks, l.DisbursementDate, l.RepaymentStartDate, l.CashSecurity,
		l.AdmissionFee, l.PassbookFee, l.LoanProcessingFee,
		l.GuarantorName, l.GuarantorIDCard, l.GuarantorRelationship, l.GuarantorTel, l.GuarantorAmount,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateLoan(l *models.Loan) error {
	result, err := s.db.Exec(
		`UPDATE loans SET client_id = $1, client_name = $2, staff_name = $3, group_id = $4, group_name = $5, loan_type = $6, loan_outcome = $7,
		principal = $8, interest_rate = $9, payment_weeks = $10, disbursement_date = $11, repayment_start_date = $12, cash_security = $13,
		admission_fee = $14, passbook_fee = $15, loan_processing_fee = $16,
		guarantor_name = $17, guarantor_id_card = $18, guarantor_relationship = $19, guarantor_tel = $20, guarantor_amount = $21,
		updated_at = $22
		WHERE branch_id = $23 AND id = $24`,
		l.ClientID, l.ClientName, l.StaffName, l.GroupID, l.GroupName, l.LoanType, l.LoanOutcome,
		l.Principal, l.InterestRate, l.PaymentWeeks, l.DisbursementDate, l.RepaymentStartDate, l.CashSecurity,
		l.AdmissionFee, l.PassbookFee, l.LoanProcessingFee,
		l.GuarantorName, l.GuarantorIDCard, l.GuarantorRelationship, l.GuarantorTel, l.GuarantorAmount,
		l.UpdatedAt,
		l.BranchID, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return checkAffected(result)
}

func (s *PostgresStore) DeleteLoan(branchID string, id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM loans WHERE branch_id = $1 AND id = $2`, branchID, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return checkAffected(result)
}

func (s *PostgresStore) GetLoan(branchID string, id uuid.UUID) (*models.Loan, error) {
	row := s.db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE branch_id = $1 AND id = $2`, branchID, id)
	l, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) GetLoanByLoanID(branchID, loanID string) (*models.Loan, error) {
	row := s.db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE branch_id = $1 AND loan_id = $2`, branchID, loanID)
	l, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan by loan id: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) ListLoans(branchID string, filter LoanFilter) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE branch_id = $1`
	args := []interface{}{branchID}
	if filter.StaffName != "" {
		args = append(args, filter.StaffName)
		query += fmt.Sprintf(` AND staff_name = $%d`, len(args))
	}
	if filter.GroupName != "" {
		args = append(args, filter.GroupName)
		query += fmt.Sprintf(` AND group_name = $%d`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(` AND disbursement_date >= $%d`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(` AND disbursement_date <= $%d`, len(args))
	}
	query += ` ORDER BY loan_id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// --- Payments ---

func (s *PostgresStore) CreatePayment(p *models.Payment) error {
	_, err := s.db.Exec(
		`INSERT INTO payments (`+paymentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.BranchID, p.LoanID, p.ClientID, p.ClientName, p.StaffName, p.GroupName, p.Date, p.RepaymentAmount, p.SecurityCollected, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListPayments(branchID string) ([]*models.Payment, error) {
	return s.queryPayments(`SELECT `+paymentColumns+` FROM payments WHERE branch_id = $1 ORDER BY date`, branchID)
}

func (s *PostgresStore) ListPaymentsForLoan(branchID, loanID string) ([]*models.Payment, error) {
	return s.queryPayments(`SELECT `+paymentColumns+` FROM payments WHERE branch_id = $1 AND loan_id = $2 ORDER BY date`, branchID, loanID)
}

func (s *PostgresStore) queryPayments(query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		var idStr string
		if err := rows.Scan(&idStr, &p.BranchID, &p.LoanID, &p.ClientID, &p.ClientName, &p.StaffName, &p.GroupName, &p.Date, &p.RepaymentAmount, &p.SecurityCollected, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		p.ID = uuid.MustParse(idStr)
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// --- Savings ---

func (s *PostgresStore) CreateSaving(e *models.SavingsEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO savings (id, branch_id, client_id, client_name, staff_name, date, compulsory_amount, voluntary_savings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.BranchID, e.ClientID, e.ClientName, e.StaffName, e.Date, e.CompulsoryAmount, e.VoluntarySavings, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create savings entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateSaving(e *models.SavingsEntry) error {
	result, err := s.db.Exec(
		`UPDATE savings SET client_id = $1, client_name = $2, staff_name = $3, date = $4, compulsory_amount = $5, voluntary_savings = $6, updated_at = $7
		WHERE branch_id = $8 AND id = $9`,
		e.ClientID, e.ClientName, e.StaffName, e.Date, e.CompulsoryAmount, e.VoluntarySavings, e.UpdatedAt, e.BranchID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update savings entry: %w", err)
	}
	return checkAffected(result)
}

func (s *PostgresStore) ListSavings(branchID string) ([]*models.SavingsEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, branch_id, client_id, client_name, staff_name, date, compulsory_amount, voluntary_savings, created_at, updated_at
		FROM savings WHERE branch_id = $1 ORDER BY date`, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings: %w", err)
	}
	defer rows.Close()

	var entries []*models.SavingsEntry
	for rows.Next() {
		var e models.SavingsEntry
		var idStr string
		if err := rows.Scan(&idStr, &e.BranchID, &e.ClientID, &e.ClientName, &e.StaffName, &e.Date, &e.CompulsoryAmount, &e.VoluntarySavings, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan savings row: %w", err)
		}
		e.ID = uuid.MustParse(idStr)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// --- Withdrawals ---

func (s *PostgresStore) CreateWithdrawal(w *models.Withdrawal) error {
	_, err := s.db.Exec(
		`INSERT INTO withdrawals (id, branch_id, client_id, client_name, date, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.BranchID, w.ClientID, w.ClientName, w.Date, w.Amount, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateWithdrawal(w *models.Withdrawal) error {
	result, err := s.db.Exec(
		`UPDATE withdrawals SET client_id = $1, client_name = $2, date = $3, amount = $4, updated_at = $5
		WHERE branch_id = $6 AND id = $7`,
		w.ClientID, w.ClientName, w.Date, w.Amount, w.UpdatedAt, w.BranchID, w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal: %w", err)
	}
	return checkAffected(result)
}

func (s *PostgresStore) DeleteWithdrawal(branchID string, id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM withdrawals WHERE branch_id = $1 AND id = $2`, branchID, id)
	if err != nil {
		return fmt.Errorf("failed to delete withdrawal: %w", err)
	}
	return checkAffected(result)
}

func (s *PostgresStore) ListWithdrawals(branchID string) ([]*models.Withdrawal, error) {
	rows, err := s.db.Query(
		`SELECT id, branch_id, client_id, client_name, date, amount, created_at, updated_at
		FROM withdrawals WHERE branch_id = $1 ORDER BY date`, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []*models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		var idStr string
		if err := rows.Scan(&idStr, &w.BranchID, &w.ClientID, &w.ClientName, &w.Date, &w.Amount, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal row: %w", err)
		}
		w.ID = uuid.MustParse(idStr)
		withdrawals = append(withdrawals, &w)
	}
	return withdrawals, rows.Err()
}

// --- Users ---

func (s *PostgresStore) CreateUser(u *models.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, username, password_hash, role, branch_id, short_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.BranchID, u.ShortCode, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindUserByUsername(username string) (*models.User, error) {
	var u models.User
	var idStr string
	row := s.db.QueryRow(
		`SELECT id, username, password_hash, role, branch_id, short_code, created_at
		FROM users WHERE username = $1`, username)
	err := row.Scan(&idStr, &u.Username, &u.PasswordHash, &u.Role, &u.BranchID, &u.ShortCode, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	u.ID = uuid.MustParse(idStr)
	return &u, nil
}

func (s *PostgresStore) ListBranches() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT branch_id FROM loans ORDER BY branch_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to scan branch row: %w", err)
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
