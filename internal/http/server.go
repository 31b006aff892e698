// Package http serves the dashboard JSON API on top of the snapshot loader
// and the ledger write path.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gagyebu/internal/cache"
	"gagyebu/internal/core"
	"gagyebu/internal/dataset"
	applog "gagyebu/internal/log"
)

// SnapshotLoader produces the full normalized snapshot. LoadAll never
// fails; unreachable sources come back as empty tables.
type SnapshotLoader interface {
	LoadAll(ctx context.Context) *dataset.Snapshot
}

// EntryWriter is the ledger write path.
type EntryWriter interface {
	AddExpense(ctx context.Context, e core.ExpenseEntry) error
	AddIncome(ctx context.Context, e core.IncomeEntry) error
}

type Config struct {
	// CacheTTL bounds how stale a served snapshot may be.
	CacheTTL        time.Duration
	CleanupInterval time.Duration
}

type Server struct {
	http.Server

	loader SnapshotLoader
	ledger EntryWriter

	snapCache *cache.ValueCache[*dataset.Snapshot]
	viewCache *cache.LRUCache[dashboardView]
	manager   *cache.Manager
	limiter   *rateLimiter

	shutdownOnce sync.Once
}

// NewServer wires routes and caches. The ledger may be attached later with
// SetLedger, since the write path needs the server as its invalidator.
func NewServer(addr string, loader SnapshotLoader, logger *applog.Logger, cfg Config) *Server {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		loader:    loader,
		snapCache: cache.NewValueCache[*dataset.Snapshot](cfg.CacheTTL),
		viewCache: cache.NewLRUCache[dashboardView](100, cfg.CacheTTL),
		manager:   cache.NewManager(),
		limiter:   newRateLimiter(),
	}
	s.manager.Register(s.snapCache)
	s.manager.Register(s.viewCache)
	s.manager.StartCleanup(cfg.CleanupInterval)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/dashboard", s.withHeaders(s.handleDashboard))
	mux.HandleFunc("/api/expenses", s.withHeaders(s.handleExpenses))
	mux.HandleFunc("/api/income", s.withHeaders(s.handleIncome))
	mux.HandleFunc("/api/calendar", s.withHeaders(s.handleCalendar))
	mux.HandleFunc("/api/loans", s.withHeaders(s.handleLoans))
	mux.HandleFunc("/api/fixed", s.withHeaders(s.handleFixed))
	mux.HandleFunc("/api/mission", s.withHeaders(s.handleMission))
	mux.HandleFunc("/api/refresh", s.withHeaders(s.handleRefresh))

	var handler http.Handler = mux
	if logger != nil {
		handler = applog.RequestLogger(logger)(handler)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// SetLedger attaches the write path. Must be called before ListenAndServe.
func (s *Server) SetLedger(ledger EntryWriter) {
	s.ledger = ledger
}

// Invalidate drops all cached read state. The ledger calls this after every
// successful append so the next read reloads from the sheet.
func (s *Server) Invalidate() {
	s.snapCache.Invalidate()
	s.viewCache.Clear()
}

// Shutdown stops the cache janitor and then the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.manager.Stop()
		s.limiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withHeaders sets the standard response headers and rate-limits writes.
func (s *Server) withHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if r.Method == http.MethodPost && !s.limiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.loader == nil {
		writeError(w, http.StatusServiceUnavailable, "no data source configured")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
