package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/pipeline"
	"github.com/couchcryptid/quake-report/internal/render"
)

// SnapshotProvider exposes the rows of the most recent poll.
type SnapshotProvider interface {
	Latest() (pipeline.Snapshot, bool)
}

// QuakeRow is a presented row with its bucket color resolved.
type QuakeRow struct {
	domain.Row
	Color string `json:"color"`
}

// Server exposes health, readiness, metrics, and the current quake list.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotProvider
	palette    render.Palette
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and /quakes routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, snapshots SnapshotProvider, palette render.Palette, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		palette:   palette,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /quakes", s.handleQuakes)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleQuakes(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshots.Latest()
	if !ok {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "feed has not been polled yet",
		})
		return
	}

	rows := lo.Map(snap.Quakes, func(q domain.PresentedQuake, _ int) QuakeRow {
		return QuakeRow{Row: q.Row, Color: s.palette.Color(q.Row.Bucket)}
	})

	w.Header().Set("X-Poll-Id", snap.PollID)
	w.Header().Set("Last-Modified", snap.FetchedAt.UTC().Format(http.TimeFormat))
	sharedobs.WriteJSON(w, http.StatusOK, rows)
}
