// Package web provides the HTTP server and handlers for the bills API:
// CSV upload, paginated browsing of persisted bills, dashboard aggregates,
// and the CSV template download.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Sustained-Sync-API/cs4850/internal/config"
	"github.com/Sustained-Sync-API/cs4850/internal/core"
	"github.com/Sustained-Sync-API/cs4850/internal/store"
	"github.com/Sustained-Sync-API/cs4850/internal/web/middleware"
)

// BillStore is the persistence surface the handlers need. Satisfied by
// *store.Store; tests substitute a fake.
type BillStore interface {
	UpsertBills(ctx context.Context, records []core.Record, fileSource string) (inserted, updated int, rowErrs []core.Issue, err error)
	ListBills(ctx context.Context) ([]core.Record, error)
	CountBills(ctx context.Context) (int64, error)
	Metrics(ctx context.Context) (*store.Metrics, error)
	MonthlyTrends(ctx context.Context) ([]store.MonthPoint, error)
}

// Server is the HTTP server for the bills API.
type Server struct {
	store  BillStore
	cfg    *config.Config
	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server with routes and middleware configured.
func NewServer(st BillStore, cfg *config.Config) *Server {
	s := &Server{
		store:  st,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate)
		s.router.Use(limiter.middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/bills", s.handleListBills)
		r.Get("/bills/count", s.handleCountBills)
		r.Post("/bills/upload", s.handleUploadBills)

		r.Get("/metrics", s.handleMetrics)
		r.Get("/trends", s.handleTrends)

		r.Get("/template", s.handleDownloadTemplate)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds response hardening headers to all routes.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
