package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codeWithLeonard225/osmfs/pkg/auth"
	"github.com/codeWithLeonard225/osmfs/pkg/config"
	"github.com/codeWithLeonard225/osmfs/pkg/ledger"
	"github.com/codeWithLeonard225/osmfs/pkg/report"
	"github.com/codeWithLeonard225/osmfs/pkg/store"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Server wires the ledger, reports and auth together behind the HTTP API.
type Server struct {
	ledger  *ledger.Ledger
	reports *report.Builder
	storage store.Storage
	tokens  *auth.Maker
	log     *logrus.Logger
}

// NewServer builds a Server over the given storage.
func NewServer(s store.Storage, tokens *auth.Maker, log *logrus.Logger) *Server {
	return &Server{
		ledger:  ledger.NewLedger(s, log),
		reports: report.NewBuilder(s),
		storage: s,
		tokens:  tokens,
		log:     log,
	}
}

// router builds the full route table. Public: register and login. Everything
// else requires a token; destructive routes additionally require the admin
// or owner role.
func (s *Server) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/register", s.registerHandler).Methods("POST")
	r.HandleFunc("/login", s.loginHandler).Methods("POST")

	api := r.PathPrefix("/").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/clients", s.listClientsHandler).Methods("GET")
	api.HandleFunc("/clients", s.createClientHandler).Methods("POST")
	api.HandleFunc("/clients/{id}", s.updateClientHandler).Methods("PUT")

	api.HandleFunc("/groups", s.listGroupsHandler).Methods("GET")
	api.HandleFunc("/groups", s.createGroupHandler).Methods("POST")
	api.HandleFunc("/groups/{id}", s.updateGroupHandler).Methods("PUT")
	api.HandleFunc("/groups/{id}", s.requireRole(s.deleteGroupHandler)).Methods("DELETE")

	api.HandleFunc("/loans", s.listLoansHandler).Methods("GET")
	api.HandleFunc("/loans", s.createLoanHandler).Methods("POST")
	api.HandleFunc("/loans/{id}", s.getLoanHandler).Methods("GET")
	api.HandleFunc("/loans/{id}", s.updateLoanHandler).Methods("PUT")
	api.HandleFunc("/loans/{id}", s.requireRole(s.deleteLoanHandler)).Methods("DELETE")
	api.HandleFunc("/loans/{id}/ledger", s.loanLedgerHandler).Methods("GET")
	api.HandleFunc("/loans/{id}/payments", s.recordPaymentHandler).Methods("POST")

	api.HandleFunc("/payments", s.listPaymentsHandler).Methods("GET")
	api.HandleFunc("/payments/bulk", s.bulkPaymentsHandler).Methods("POST")

	api.HandleFunc("/savings", s.listSavingsHandler).Methods("GET")
	api.HandleFunc("/savings", s.createSavingHandler).Methods("POST")
	api.HandleFunc("/savings/{id}", s.updateSavingHandler).Methods("PUT")

	api.HandleFunc("/withdrawals", s.listWithdrawalsHandler).Methods("GET")
	api.HandleFunc("/withdrawals", s.createWithdrawalHandler).Methods("POST")
	api.HandleFunc("/withdrawals/{id}", s.updateWithdrawalHandler).Methods("PUT")
	api.HandleFunc("/withdrawals/{id}", s.requireRole(s.deleteWithdrawalHandler)).Methods("DELETE")

	api.HandleFunc("/reports/field-collection", s.fieldCollectionHandler).Methods("GET")
	api.HandleFunc("/reports/staff-loans", s.staffLoansHandler).Methods("GET")
	api.HandleFunc("/reports/outstanding", s.outstandingHandler).Methods("GET")
	api.HandleFunc("/reports/cashbook", s.cashbookHandler).Methods("GET")
	api.HandleFunc("/reports/dashboard", s.dashboardHandler).Methods("GET")

	return r
}

// logBranchSummaries writes each branch's dashboard totals to the log; run
// nightly by cron so the owner has a daily trail without opening a report.
func (s *Server) logBranchSummaries() {
	branches, err := s.storage.ListBranches()
	if err != nil {
		s.log.Errorf("branch summary: failed to list branches: %v", err)
		return
	}
	for _, branch := range branches {
		totals, err := s.reports.Dashboard(branch)
		if err != nil {
			s.log.Errorf("branch summary for %s failed: %v", branch, err)
			continue
		}
		s.log.WithFields(logrus.Fields{
			"branch":      branch,
			"loans":       totals.LoanCount,
			"principal":   totals.TotalPrincipal.StringFixed(2),
			"repaid":      totals.TotalRepaid.StringFixed(2),
			"outstanding": totals.TotalOutstanding.StringFixed(2),
		}).Info("nightly branch summary")
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	var storage store.Storage
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		storage, err = store.NewPostgresStore(cfg.DBConn)
	default:
		storage, err = store.NewSQLiteStore(cfg.SQLitePath)
	}
	if err != nil {
		logger.Fatalf("Failed to initialize %s store: %v", cfg.StoreDriver, err)
	}
	defer storage.Close()

	tokens, err := auth.NewMaker(cfg.JWTSecret)
	if err != nil {
		logger.Fatalf("Failed to initialize token maker: %v", err)
	}

	server := NewServer(storage, tokens, logger)

	if cfg.SummarySchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.SummarySchedule, server.logBranchSummaries); err != nil {
			logger.Fatalf("Invalid summary schedule %q: %v", cfg.SummarySchedule, err)
		}
		c.Start()
		defer c.Stop()
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s (%s store)", addr, cfg.StoreDriver)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
