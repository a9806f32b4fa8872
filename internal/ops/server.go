// internal/ops/server.go
//
// Operational HTTP listener for daemon mode.
//
// Context:
//   - Two endpoints only: /healthz pings the database, /metrics serves
//     the Prometheus registry.  This is the scrape and probe surface
//     for the sync daemon, not a marketplace API; nothing here reads
//     or writes vehicle data.
//   - Timeouts follow the usual hardening: abort slow-loris headers,
//     cap total response time, and close idle keep-alives.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package ops

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the ops listener.
type Server struct {
	http *http.Server
	db   *sqlx.DB
}

// New builds the listener on addr.
func New(addr string, db *sqlx.DB) *Server {
	s := &Server{db: db}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start serves until Shutdown.  A clean shutdown returns nil.
func (s *Server) Start() error {
	zap.S().Infow("ops listener online", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
