package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists all back-office records in a single SQLite file.
// Monetary columns are stored as TEXT so decimal values survive round-trips
// without floating-point loss; dates are stored as YYYY-MM-DD TEXT.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dataSourceName.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates the tables if they do not exist. The UNIQUE constraints
// on (branch_id, human-readable id) are the backstop for identifier
// allocation races: two staff allocating from equally stale snapshots get a
// constraint error instead of a silent duplicate.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		staff_name TEXT NOT NULL DEFAULT '',
		tel TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE(branch_id, client_id)
	);
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		group_name TEXT NOT NULL,
		leader_name TEXT NOT NULL DEFAULT '',
		leader_tel TEXT NOT NULL DEFAULT '',
		leader_address TEXT NOT NULL DEFAULT '',
		secretary_name TEXT NOT NULL DEFAULT '',
		secretary_tel TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE(branch_id, group_id)
	);
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		loan_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		client_name TEXT NOT NULL,
		staff_name TEXT NOT NULL DEFAULT '',
		group_id TEXT NOT NULL DEFAULT '',
		group_name TEXT NOT NULL DEFAULT '',
		loan_type TEXT NOT NULL DEFAULT '',
		loan_outcome TEXT NOT NULL DEFAULT '',
		principal TEXT NOT NULL,
		interest_rate TEXT NOT NULL,
		payment_weeks INTEGER NOT NULL DEFAULT 0,
		disbursement_date TEXT,
		repayment_start_date TEXT,
		cash_security TEXT NOT NULL DEFAULT '0',
		admission_fee TEXT NOT NULL DEFAULT '0',
		passbook_fee TEXT NOT NULL DEFAULT '0',
		loan_processing_fee TEXT NOT NULL DEFAULT '0',
		guarantor_name TEXT NOT NULL DEFAULT '',
		guarantor_id_card TEXT NOT NULL DEFAULT '',
		guarantor_relationship TEXT NOT NULL DEFAULT '',
		guarantor_tel TEXT NOT NULL DEFAULT '',
		guarantor_amount TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE(branch_id, loan_id)
	);
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL,
		loan_id TEXT NOT NULL,
		client_id TEXT NOT NULL DEFAULT '',
		client_name TEXT NOT NULL DEFAULT '',
		staff_name TEXT NOT NULL DEFAULT '',
		group_name TEXT NOT NULL DEFAULT '',
		date TEXT,
		repayment_amount TEXT NOT NULL DEFAULT '0',
		security_collected TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS savings (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		staff_name TEXT NOT NULL DEFAULT '',
		date TEXT,
		compulsory_amount TEXT NOT NULL DEFAULT '0',
		voluntary_savings TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS withdrawals (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		date TEXT,
		amount TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		short_code TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_loans_branch ON loans(branch_id);
	CREATE INDEX IF NOT EXISTS idx_payments_branch_loan ON payments(branch_id, loan_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// --- Clients ---

func (s *SQLiteStore) CreateClient(c *models.Client) error {
	_, err := s.db.Exec(
		`INSERT INTO clients (id, client_id, branch_id, full_name, staff_name, tel, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.ClientID, c.BranchID, c.FullName, c.StaffName, c.Tel, c.Address, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateClient(c *models.Client) error {
	result, err := s.db.Exec(
		`UPDATE clients SET full_name = ?, staff_name = ?, tel = ?, address = ?, updated_at = ?
		WHERE branch_id = ? AND id = ?`,
		c.FullName, c.StaffName, c.Tel, c.Address, c.UpdatedAt, c.BranchID, c.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) GetClientByClientID(branchID, clientID string) (*models.Client, error) {
	row := s.db.QueryRow(
		`SELECT id, client_id, branch_id, full_name, staff_name, tel, address, created_at, updated_at
		FROM clients WHERE branch_id = ? AND client_id = ?`, branchID, clientID)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListClients(branchID string) ([]*models.Client, error) {
	rows, err := s.db.Query(
		`SELECT id, client_id, branch_id, full_name, staff_name, tel, address, created_at, updated_at
		FROM clients WHERE branch_id = ? ORDER BY client_id`, branchID)
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

func scanClient(r rowScanner) (*models.Client, error) {
	var c models.Client
	var idStr string
	if err := r.Scan(&idStr, &c.ClientID, &c.BranchID, &c.FullName, &c.StaffName, &c.Tel, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ID = uuid.MustParse(idStr)
	return &c, nil
}

// --- Groups ---

func (s *SQLiteStore) CreateGroup(g *models.Group) error {
	_, err := s.db.Exec(
		`INSERT INTO groups (id, group_id, branch_id, group_name, leader_name, leader_tel, leader_address, secretary_name, secretary_tel, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID.String(), g.GroupID, g.BranchID, g.GroupName, g.LeaderName, g.LeaderTel, g.LeaderAddress, g.SecretaryName, g.SecretaryTel, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateGroup(g *models.Group) error {
	result, err := s.db.Exec(
		`UPDATE groups SET group_name = ?, leader_name = ?, leader_tel = ?, leader_address = ?, secretary_name = ?, secretary_tel = ?, updated_at = ?
		WHERE branch_id = ? AND id = ?`,
		g.GroupName, g.LeaderName, g.LeaderTel, g.LeaderAddress, g.SecretaryName, g.SecretaryTel, g.UpdatedAt, g.BranchID, g.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) DeleteGroup(branchID string, id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM groups WHERE branch_id = ? AND id = ?`, branchID, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) GetGroup(branchID string, id uuid.UUID) (*models.Group, error) {
	row := s.db.QueryRow(
		`SELECT id, group_id, branch_id, group_name, leader_name, leader_tel, leader_address, secretary_name, secretary_tel, created_at, updated_at
		FROM groups WHERE branch_id = ? AND id = ?`, branchID, id.String())
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

func (s *SQLiteStore) ListGroups(branchID string) ([]*models.Group, error) {
	rows, err := s.db.Query(
		`SELECT id, group_id, branch_id, group_name, leader_name, leader_tel, leader_address, secretary_name, secretary_tel, created_at, updated_at
		FROM groups WHERE branch_id = ? ORDER BY group_id`, branchID)
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

func scanGroup(r rowScanner) (*models.Group, error) {
	var g models.Group
	var idStr string
	if err := r.Scan(&idStr, &g.GroupID, &g.BranchID, &g.GroupName, &g.LeaderName, &g.LeaderTel, &g.LeaderAddress, &g.SecretaryName, &g.SecretaryTel, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.ID = uuid.MustParse(idStr)
	return &g, nil
}

// --- Loans ---

const loanColumns = `id, loan_id, branch_id, client_id, client_name, staff_name, group_id, group_name, loan_type, loan_outcome,
	principal, interest_rate, payment_weeks, disbursement_date, repayment_start_date, cash_security,
	admission_fee, passbook_fee, loan_processing_fee,
	guarantor_name, guarantor_id_card, guarantor_relationship, guarantor_tel, guarantor_amount,
	created_at, updated_at`

func (s *SQLiteStore) CreateLoan(l *models.Loan) error {
	_, err := s.db.Exec(
		`INSERT INTO loans (`+loanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID.String(), l.LoanID, l.BranchID, l.ClientID, l.ClientName, l.StaffName, l.GroupID, l.GroupName, l.LoanType, l.LoanOutcome,
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

func (s *SQLiteStore) UpdateLoan(l *models.Loan) error {
	result, err := s.db.Exec(
		`UPDATE loans SET client_id = ?, client_name = ?, staff_name = ?, group_id = ?, group_name = ?, loan_type = ?, loan_outcome = ?,
		principal = ?, interest_rate = ?, payment_weeks = ?, disbursement_date = ?, repayment_start_date = ?, cash_security = ?,
		admission_fee = ?, passbook_fee = ?, loan_processing_fee = ?,
		guarantor_name = ?, guarantor_id_card = ?, guarantor_relationship = ?, guarantor_tel = ?, guarantor_amount = ?,
		updated_at = ?
		WHERE branch_id = ? AND id = ?`,
		l.ClientID, l.ClientName, l.StaffName, l.GroupID, l.GroupName, l.LoanType, l.LoanOutcome,
		l.Principal, l.InterestRate, l.PaymentWeeks, l.DisbursementDate, l.RepaymentStartDate, l.CashSecurity,
		l.AdmissionFee, l.PassbookFee, l.LoanProcessingFee,
		l.GuarantorName, l.GuarantorIDCard, l.GuarantorRelationship, l.GuarantorTel, l.GuarantorAmount,
		l.UpdatedAt,
		l.BranchID, l.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) DeleteLoan(branchID string, id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM loans WHERE branch_id = ? AND id = ?`, branchID, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) GetLoan(branchID string, id uuid.UUID) (*models.Loan, error) {
	row := s.db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE branch_id = ? AND id = ?`, branchID, id.String())
	l, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

func (s *SQLiteStore) GetLoanByLoanID(branchID, loanID string) (*models.Loan, error) {
	row := s.db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE branch_id = ? AND loan_id = ?`, branchID, loanID)
	l, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan by loan id: %w", err)
	}
	return l, nil
}

func (s *SQLiteStore) ListLoans(branchID string, filter LoanFilter) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE branch_id = ?`
	args := []interface{}{branchID}
	if filter.StaffName != "" {
		query += ` AND staff_name = ?`
		args = append(args, filter.StaffName)
	}
	if filter.GroupName != "" {
		query += ` AND group_name = ?`
		args = append(args, filter.GroupName)
	}
	if !filter.From.IsZero() {
		query += ` AND disbursement_date >= ?`
		args = append(args, filter.From.String())
	}
	if !filter.To.IsZero() {
		query += ` AND disbursement_date <= ?`
		args = append(args, filter.To.String())
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

func scanLoan(r rowScanner) (*models.Loan, error) {
	var l models.Loan
	var idStr string
	if err := r.Scan(&idStr, &l.LoanID, &l.BranchID, &l.ClientID, &l.ClientName, &l.StaffName, &l.GroupID, &l.GroupName, &l.LoanType, &l.LoanOutcome,
		&l.Principal, &l.InterestRate, &l.PaymentWeeks, &l.DisbursementDate, &l.RepaymentStartDate, &l.CashSecurity,
		&l.AdmissionFee, &l.PassbookFee, &l.LoanProcessingFee,
		&l.GuarantorName, &l.GuarantorIDCard, &l.GuarantorRelationship, &l.GuarantorTel, &l.GuarantorAmount,
		&l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.ID = uuid.MustParse(idStr)
	return &l, nil
}

// --- Payments ---

const paymentColumns = `id, branch_id, loan_id, client_id, client_name, staff_name, group_name, date, repayment_amount, security_collected, created_at`

func (s *SQLiteStore) CreatePayment(p *models.Payment) error {
	_, err := s.db.Exec(
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.BranchID, p.LoanID, p.ClientID, p.ClientName, p.StaffName, p.GroupName, p.Date, p.RepaymentAmount, p.SecurityCollected, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListPayments(branchID string) ([]*models.Payment, error) {
	return s.queryPayments(`SELECT `+paymentColumns+` FROM payments WHERE branch_id = ? ORDER BY date`, branchID)
}

func (s *SQLiteStore) ListPaymentsForLoan(branchID, loanID string) ([]*models.Payment, error) {
	return s.queryPayments(`SELECT `+paymentColumns+` FROM payments WHERE branch_id = ? AND loan_id = ? ORDER BY date`, branchID, loanID)
}

func (s *SQLiteStore) queryPayments(query string, args ...interface{}) ([]*models.Payment, error) {
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

func (s *SQLiteStore) CreateSaving(e *models.SavingsEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO savings (id, branch_id, client_id, client_name, staff_name, date, compulsory_amount, voluntary_savings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.BranchID, e.ClientID, e.ClientName, e.StaffName, e.Date, e.CompulsoryAmount, e.VoluntarySavings, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create savings entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateSaving(e *models.SavingsEntry) error {
	result, err := s.db.Exec(
		`UPDATE savings SET client_id = ?, client_name = ?, staff_name = ?, date = ?, compulsory_amount = ?, voluntary_savings = ?, updated_at = ?
		WHERE branch_id = ? AND id = ?`,
		e.ClientID, e.ClientName, e.StaffName, e.Date, e.CompulsoryAmount, e.VoluntarySavings, e.UpdatedAt, e.BranchID, e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update savings entry: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) ListSavings(branchID string) ([]*models.SavingsEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, branch_id, client_id, client_name, staff_name, date, compulsory_amount, voluntary_savings, created_at, updated_at
		FROM savings WHERE branch_id = ? ORDER BY date`, branchID)
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

func (s *SQLiteStore) CreateWithdrawal(w *models.Withdrawal) error {
	_, err := s.db.Exec(
		`INSERT INTO withdrawals (id, branch_id, client_id, client_name, date, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID.String(), w.BranchID, w.ClientID, w.ClientName, w.Date, w.Amount, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateWithdrawal(w *models.Withdrawal) error {
	result, err := s.db.Exec(
		`UPDATE withdrawals SET client_id = ?, client_name = ?, date = ?, amount = ?, updated_at = ?
		WHERE branch_id = ? AND id = ?`,
		w.ClientID, w.ClientName, w.Date, w.Amount, w.UpdatedAt, w.BranchID, w.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) DeleteWithdrawal(branchID string, id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM withdrawals WHERE branch_id = ? AND id = ?`, branchID, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete withdrawal: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) ListWithdrawals(branchID string) ([]*models.Withdrawal, error) {
	rows, err := s.db.Query(
		`SELECT id, branch_id, client_id, client_name, date, amount, created_at, updated_at
		FROM withdrawals WHERE branch_id = ? ORDER BY date`, branchID)
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

func (s *SQLiteStore) CreateUser(u *models.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, username, password_hash, role, branch_id, short_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Username, u.PasswordHash, u.Role, u.BranchID, u.ShortCode, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindUserByUsername(username string) (*models.User, error) {
	var u models.User
	var idStr string
	row := s.db.QueryRow(
		`SELECT id, username, password_hash, role, branch_id, short_code, created_at
		FROM users WHERE username = ?`, username)
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

func (s *SQLiteStore) ListBranches() ([]string, error) {
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
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// checkAffected maps a zero-row UPDATE/DELETE to ErrNotFound.
func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsConflict reports whether err is a uniqueness violation, used by callers
// to distinguish an identifier allocation race from other failures.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
