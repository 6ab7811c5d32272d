// Package server exposes the justification pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                        liveness and build version
//	POST /v1/justify                     run the pipeline, store and return the job
//	GET  /v1/jobs                        recent jobs, newest first (?limit=N)
//	GET  /v1/jobs/{id}                   one job with its page document
//	GET  /v1/jobs/{id}/artifacts/{format} a rendered artifact as raw bytes
//
// Request bodies for POST /v1/justify are [pipeline.Options] in JSON. Fields
// the request leaves out fall back to the server's defaults, which usually
// come from the configuration file. The font is always the server's: the
// request cannot name a path.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tatweel/pkg/pipeline"
	"github.com/matzehuels/tatweel/pkg/store"
)

const (
	// DefaultMaxBodyBytes caps the size of a justify request body.
	DefaultMaxBodyBytes = 1 << 20

	// DefaultRequestTimeout bounds a single request.
	DefaultRequestTimeout = 2 * time.Minute

	defaultListLimit = 20
	maxListLimit     = 200
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
	timeout  time.Duration
	router   chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaults sets the options requests start from. Its FontPath selects
// the font every request is justified with.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts.Clone() }
}

// WithMaxBodyBytes caps request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithRequestTimeout bounds the handling time of one request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a server around runner and st.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		store:   st,
		logger:  log.New(io.Discard),
		maxBody: DefaultMaxBodyBytes,
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/justify", s.handleJustify)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs/{id}/artifacts/{format}", s.handleGetArtifact)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
