package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/service"
	"github.com/agbru/matcalc/pkg/models"
)

// ParseError is a request parameter error carrying its HTTP status.
type ParseError struct {
	Message    string
	StatusCode int
}

func (e ParseError) Error() string { return e.Message }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.AlgorithmsResponse{Algorithms: s.service.Algorithms()})
}

// handleMultiply runs a benchmark described by the query parameters
// rows, inner, cols, algo and seed.
func (s *Server) handleMultiply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := parseMultiplyParams(r, s.cfg.Seed)
	if err != nil {
		var parseErr ParseError
		if errors.As(err, &parseErr) {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	resp, err := s.service.Multiply(ctx, req)
	var vErr apperrors.ValidationError
	switch {
	case err == nil:
		s.writeJSONResponse(w, http.StatusOK, resp)
	case errors.As(err, &vErr), errors.Is(err, service.ErrMaxDimExceeded):
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, http.StatusGatewayTimeout, "The multiplication did not finish in time")
	default:
		s.logger.Error("multiplication failed", err, logging.String("algo", req.Algo))
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// parseMultiplyParams reads the benchmark request from the query string.
// inner and cols default to rows, algo to "all" and seed to defaultSeed.
//
// Parameters:
//   - r: The HTTP request.
//   - defaultSeed: The seed used when none is given.
//
// Returns:
//   - service.Request: The parsed request.
//   - error: A ParseError for a missing or malformed parameter.
func parseMultiplyParams(r *http.Request, defaultSeed int64) (service.Request, error) {
	q := r.URL.Query()
	rowsStr := q.Get("rows")
	if rowsStr == "" {
		return service.Request{}, ParseError{Message: "Missing 'rows' parameter", StatusCode: http.StatusBadRequest}
	}

	dims := map[string]int{}
	for _, name := range []string{"rows", "inner", "cols"} {
		raw := q.Get(name)
		if raw == "" {
			raw = rowsStr
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return service.Request{}, ParseError{
				Message:    fmt.Sprintf("Invalid '%s' parameter: must be a positive integer", name),
				StatusCode: http.StatusBadRequest,
			}
		}
		dims[name] = v
	}

	seed := defaultSeed
	if raw := q.Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return service.Request{}, ParseError{Message: "Invalid 'seed' parameter: must be an integer", StatusCode: http.StatusBadRequest}
		}
		seed = v
	}

	algo := q.Get("algo")
	if algo == "" {
		algo = "all"
	}

	return service.Request{
		Algo:  algo,
		Rows:  dims["rows"],
		Inner: dims["inner"],
		Cols:  dims["cols"],
		Seed:  seed,
	}, nil
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// loggingMiddleware logs every request at debug level.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.logger.Debug("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Duration("duration", time.Since(start)),
		)
	}
}

// securityHeaders sets conservative headers on every response.
func securityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Cache-Control", "no-store")
		next(w, r)
	}
}
