// Package server exposes localization matrices over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dbsmedya/locmatrix/internal/analytics"
	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/crawler"
	"github.com/dbsmedya/locmatrix/internal/logger"
	"github.com/dbsmedya/locmatrix/internal/metrics"
)

// ShutdownTimeout bounds how long in-flight requests may take to finish
// once the server is asked to stop.
const ShutdownTimeout = 10 * time.Second

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies of the HTTP surface.
type Server struct {
	cfg        *config.Config
	store      crawler.Store
	log        *logger.Logger
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	reporter   func() analytics.Reporter
	router     http.Handler
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRegistry exposes and records metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithReporterFactory overrides how the per-request analytics reporter is built.
func WithReporterFactory(fn func() analytics.Reporter) Option {
	return func(s *Server) {
		if fn != nil {
			s.reporter = fn
		}
	}
}

// New creates a Server reading records from store.
func New(cfg *config.Config, store crawler.Store, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = metrics.New(s.registry)
	if s.reporter == nil {
		timeout := time.Duration(cfg.Analytics.TimeoutSeconds) * time.Second
		s.reporter = func() analytics.Reporter {
			return analytics.New(cfg.Analytics.Host, timeout, s.log)
		}
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("Starting HTTP server", "addr", s.cfg.Server.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
