package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tally/internal/auth"
	"tally/internal/ledger"
	"tally/internal/services"
)

type Server struct {
	http.Server

	ledger   *services.LedgerService
	stats    *services.StatisticsService
	export   *services.ExportService
	users    ledger.UserStore
	sessions *auth.Sessions

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. Rate limiting applies to mutating methods only.
func NewServer(addr string, ledgerSvc *services.LedgerService, statsSvc *services.StatisticsService, exportSvc *services.ExportService, users ledger.UserStore, sessions *auth.Sessions, limit int, window time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      ledgerSvc,
		stats:       statsSvc,
		export:      exportSvc,
		users:       users,
		sessions:    sessions,
		rateLimiter: newRateLimiter(limit, window),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/signup", s.withMiddleware(s.handleSignup))
	mux.HandleFunc("POST /api/login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("POST /api/logout", s.withMiddleware(s.handleLogout))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.requireSession(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.requireSession(s.handleCreateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.requireSession(s.handleDeleteTransaction)))
	mux.HandleFunc("GET /api/statistics/{month}", s.withMiddleware(s.requireSession(s.handleStatistics)))
	mux.HandleFunc("GET /download/csv", s.withMiddleware(s.requireSession(s.handleDownloadCSV)))

	return s
}

// Shutdown stops the rate limiter janitor and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
