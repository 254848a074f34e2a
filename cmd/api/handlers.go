package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codeWithLeonard225/osmfs/pkg/ledger"
	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/codeWithLeonard225/osmfs/pkg/store"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Record not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrGroupHasLoans):
		http.Error(w, "Group has active loans", http.StatusConflict)
	case errors.Is(err, ledger.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

// --- Auth ---

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Role      string `json:"role"`
		BranchID  string `json:"branch_id"`
		ShortCode string `json:"short_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := s.ledger.RegisterUser(req.Username, req.Password, req.Role, req.BranchID, req.ShortCode)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := s.ledger.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// --- Clients ---

func (s *Server) createClientHandler(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := s.ledger.RegisterClient(branchFor(r), claimsFrom(r).ShortCode, client)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listClientsHandler(w http.ResponseWriter, r *http.Request) {
	clients, err := s.ledger.ListClients(branchFor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

func (s *Server) updateClientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	client.ID = id

	if err := s.ledger.UpdateClient(branchFor(r), client); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// --- Groups ---

func (s *Server) createGroupHandler(w http.ResponseWriter, r *http.Request) {
	var group models.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := s.ledger.RegisterGroup(branchFor(r), claimsFrom(r).ShortCode, group)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listGroupsHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := s.ledger.ListGroups(branchFor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) updateGroupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid group ID", http.StatusBadRequest)
		return
	}
	var group models.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	group.ID = id

	if err := s.ledger.UpdateGroup(branchFor(r), group); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) deleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid group ID", http.StatusBadRequest)
		return
	}
	if err := s.ledger.DeleteGroup(branchFor(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Loans ---

func (s *Server) createLoanHandler(w http.ResponseWriter, r *http.Request) {
	var loan models.Loan
	if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := s.ledger.DisburseLoan(branchFor(r), claimsFrom(r).ShortCode, loan)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listLoansHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := models.ParseDate(q.Get("from"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := models.ParseDate(q.Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loans, err := s.ledger.ListLoans(branchFor(r), store.LoanFilter{
		StaffName: q.Get("staff"),
		GroupName: q.Get("group"),
		From:      from,
		To:        to,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loans)
}

func (s *Server) getLoanHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}
	loan, err := s.ledger.GetLoan(branchFor(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

func (s *Server) updateLoanHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}
	var loan models.Loan
	if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	loan.ID = id

	if err := s.ledger.UpdateLoan(branchFor(r), loan); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteLoanHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}
	if err := s.ledger.DeleteLoan(branchFor(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loanLedgerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}
	view, err := s.ledger.GetLoanLedger(branchFor(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// --- Payments ---

func (s *Server) recordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}
	branch := branchFor(r)
	loan, err := s.ledger.GetLoan(branch, id)
	if err != nil {
		writeError(w, err)
		return
	}

	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payment.LoanID = loan.LoanID

	created, err := s.ledger.RecordPayment(branch, payment)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	payments, err := s.ledger.ListPayments(branchFor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (s *Server) bulkPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date models.Date             `json:"date"`
		Rows []ledger.BulkPaymentRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := s.ledger.SaveCollectionSheet(branchFor(r), req.Date, req.Rows)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int{"saved": saved})
}

// --- Savings ---

func (s *Server) createSavingHandler(w http.ResponseWriter, r *http.Request) {
	var entry models.SavingsEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := s.ledger.RecordSaving(branchFor(r), entry)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listSavingsHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.ListSavings(branchFor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) updateSavingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid savings ID", http.StatusBadRequest)
		return
	}
	var entry models.SavingsEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entry.ID = id

	if err := s.ledger.UpdateSaving(branchFor(r), entry); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// --- Withdrawals ---

func (s *Server) createWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	var withdrawal models.Withdrawal
	if err := json.NewDecoder(r.Body).Decode(&withdrawal); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := s.ledger.RecordWithdrawal(branchFor(r), withdrawal)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := s.ledger.ListWithdrawals(branchFor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, withdrawals)
}

func (s *Server) updateWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid withdrawal ID", http.StatusBadRequest)
		return
	}
	var withdrawal models.Withdrawal
	if err := json.NewDecoder(r.Body).Decode(&withdrawal); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	withdrawal.ID = id

	if err := s.ledger.UpdateWithdrawal(branchFor(r), withdrawal); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, withdrawal)
}

func (s *Server) deleteWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid withdrawal ID", http.StatusBadRequest)
		return
	}
	if err := s.ledger.DeleteWithdrawal(branchFor(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Reports ---

func (s *Server) fieldCollectionHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := models.ParseDate(q.Get("date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if date.IsZero() {
		date = models.Today()
	}

	sheet, err := s.reports.FieldCollectionSheet(branchFor(r), q.Get("staff"), q.Get("group"), date)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

func (s *Server) staffLoansHandler(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.StaffLoans(branchFor(r), r.URL.Query().Get("staff"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) outstandingHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := models.ParseDate(q.Get("from"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := models.ParseDate(q.Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := s.reports.Outstanding(branchFor(r), q.Get("staff"), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) cashbookHandler(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Cashbook(branchFor(r), r.URL.Query().Get("staff"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	totals, err := s.reports.Dashboard(branchFor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}
