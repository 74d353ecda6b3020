// Package http exposes the visualization service over HTTP: the upload form
// and result page, the JSON and artifact APIs, and the health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openhelio/solar-motion/internal/domain"
	"github.com/openhelio/solar-motion/internal/pipeline"
)

// App is the application surface the server exposes. *pipeline.Runner
// satisfies it.
type App interface {
	RunFile(ctx context.Context, src io.Reader, filename string, req pipeline.Request) (*pipeline.Result, error)
	SeriesFile(ctx context.Context, src io.Reader, filename string, req pipeline.Request) (*pipeline.Result, error)
	Table() domain.CoefficientTable
	ShareLink() string
	CheckReadiness(ctx context.Context) error
}

// Server exposes the visualization endpoints plus health, readiness, and
// metrics routes.
type Server struct {
	httpServer *http.Server
	app        App
	logger     *slog.Logger
	maxUpload  int64
	qrSize     int
}

// NewServer creates the HTTP server and wires every route.
func NewServer(addr string, app App, maxUpload int64, qrSize int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		app:       app,
		logger:    logger,
		maxUpload: maxUpload,
		qrSize:    qrSize,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /visualize", s.handleVisualize)
	mux.HandleFunc("POST /view", s.handleInteractive)
	mux.HandleFunc("POST /api/animation", s.handleAnimation)
	mux.HandleFunc("POST /api/series", s.handleSeries)
	mux.HandleFunc("POST /api/report", s.handleReport)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /qr.png", s.handleQR)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.app.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
