// Package server exposes the benchmark multiplications over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/multiply"
	"github.com/agbru/matcalc/internal/service"
)

// DefaultMaxDim bounds the operand dimensions accepted by the API.
const DefaultMaxDim = 2048

// Server is the HTTP front end of the multiplication service.
type Server struct {
	factory        *multiply.Factory
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	metrics        *Metrics
	timeouts       Timeouts
	maxDim         int
	rateLimiter    *RateLimiter
}

// NewServer creates a Server listening on cfg.Port.
//
// Parameters:
//   - factory: The strategy registry.
//   - cfg: The application configuration (port, rate limit, thresholds,
//     tolerance).
//   - opts: Functional options such as WithLogger or WithService.
//
// Returns:
//   - *Server: The initialized server. Call Start to serve.
func NewServer(factory *multiply.Factory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		factory:        factory,
		cfg:            cfg,
		logger:         logging.NewDefaultLogger(),
		shutdownSignal: make(chan os.Signal, 1),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
		maxDim:         DefaultMaxDim,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.service == nil {
		s.service = service.NewMultiplicationService(s.factory, s.cfg, s.maxDim)
	}
	if s.rateLimiter == nil && cfg.RateLimit > 0 {
		s.rateLimiter = NewRateLimiter(cfg.RateLimit, 0)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/multiply", s.wrapWithMiddleware(s.handleMultiply))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/algorithms", s.wrapWithMiddleware(s.handleAlgorithms))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler, including every middleware.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// wrapWithMiddleware applies, outermost first: security headers, logging,
// metrics and, when enabled, rate limiting.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := handler
	if s.rateLimiter != nil {
		wrapped = s.rateLimitMiddleware(wrapped)
	}
	wrapped = s.metricsMiddleware(wrapped)
	wrapped = s.loggingMiddleware(wrapped)
	return securityHeaders(wrapped)
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
//
// Returns:
//   - error: An error if the server cannot listen or fails to shut down.
func (s *Server) Start() error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	if c, ok := s.service.(interface{ Close() }); ok {
		defer c.Close()
	}
	if s.rateLimiter != nil {
		defer s.rateLimiter.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.Int("threshold", s.cfg.Threshold),
			logging.Int("parallel_threshold", s.cfg.ParallelThreshold),
			logging.Int("max_dim", s.maxDim),
			logging.Int("rate_limit", s.cfg.RateLimit),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		return apperrors.WrapError(err, "server failed to start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.WrapError(err, "failed to gracefully shut down server")
	}
	s.logger.Info("server stopped")
	return nil
}
