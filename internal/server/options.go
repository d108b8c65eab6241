package server

import (
	"time"

	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/service"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger replaces the default logger. A nil logger is ignored.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithService injects the multiplication service, typically a test double.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// WithTimeouts replaces the timeout configuration.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// WithMaxDim bounds the operand dimensions of the default service. Values
// below 1 are ignored.
func WithMaxDim(maxDim int) Option {
	return func(s *Server) {
		if maxDim >= 1 {
			s.maxDim = maxDim
		}
	}
}

// WithRateLimiter replaces the limiter built from the configuration. A nil
// limiter is ignored.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		if rl != nil {
			s.rateLimiter = rl
		}
	}
}

// Timeouts holds the server timeouts.
type Timeouts struct {
	// RequestTimeout bounds one multiplication request.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration
	// ReadTimeout bounds reading a request.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration
	// IdleTimeout bounds keep-alive idleness.
	IdleTimeout time.Duration
}

// DefaultServerTimeouts returns the production timeouts.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    3 * time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
