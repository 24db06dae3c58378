// Package server exposes the export pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness probe
//	POST /v1/export    workspace JSON in, PlantUML diagrams out
//
// The export endpoint accepts the query parameters legend, sequence
// (booleans), view (repeatable key filter) and include (repeatable include
// URL). It answers with
//
//	{"request_id": "...", "diagrams": [{"key": "...", "definition": "...", "frames": [...]}], "errors": [...]}
//
// Views that fail to render are listed in errors while the other diagrams
// are still returned with status 200. Every response carries X-Request-ID,
// echoed from the request or generated.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/uniknow/c4puml/pkg/pipeline"
)

// MaxBodyBytes bounds the workspace document accepted by /v1/export.
const MaxBodyBytes = 10 << 20

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the options every export starts from, typically taken
// from c4puml.toml. Query parameters override them.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New builds a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/export", s.handleExport)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down,
// giving in-flight requests five seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
