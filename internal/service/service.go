// Package service runs benchmark multiplications for the HTTP server. It
// owns operand generation and the comparison of strategy results so that
// the transport layer only parses parameters and encodes responses.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/multiply"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/pkg/matrix"
	"github.com/agbru/matcalc/pkg/models"
)

// ErrMaxDimExceeded is returned when a requested dimension is above the
// service limit.
var ErrMaxDimExceeded = errors.New("dimension exceeds the maximum allowed")

// Request describes one benchmark run.
type Request struct {
	// Algo is "all" or a registered strategy name.
	Algo string
	// Rows, Inner and Cols describe (Rows×Inner)·(Inner×Cols).
	Rows, Inner, Cols int
	// Seed drives the random operands.
	Seed int64
}

// Service is the interface used by the server.
type Service interface {
	// Multiply runs the requested strategies and summarizes their results.
	Multiply(ctx context.Context, req Request) (models.MultiplyResponse, error)
	// Algorithms lists the registered strategies.
	Algorithms() []string
}

// MultiplicationService is the default Service.
type MultiplicationService struct {
	factory *multiply.Factory
	cfg     config.AppConfig
	maxDim  int
	exec    matrix.Executor
	release func()
}

// NewMultiplicationService creates a service.
//
// Parameters:
//   - factory: The strategy registry.
//   - cfg: Supplies thresholds, executor kind, worker count and tolerance.
//   - maxDim: The largest accepted dimension.
//
// Returns:
//   - *MultiplicationService: The service. Call Close once it is no longer
//     used.
func NewMultiplicationService(factory *multiply.Factory, cfg config.AppConfig, maxDim int) *MultiplicationService {
	exec, release := multiply.NewExecutor(cfg.Executor, cfg.Workers)
	return &MultiplicationService{factory: factory, cfg: cfg, maxDim: maxDim, exec: exec, release: release}
}

// Close releases the executor's workers.
func (s *MultiplicationService) Close() {
	s.release()
}

// Algorithms returns the registered strategy names.
func (s *MultiplicationService) Algorithms() []string {
	return s.factory.List()
}

// Multiply validates req, multiplies seeded random operands with every
// selected strategy and compares the products.
//
// Parameters:
//   - ctx: Cancels the run.
//   - req: The run description.
//
// Returns:
//   - models.MultiplyResponse: The summary. Strategy failures are reported
//     in its results, not as an error.
//   - error: A ValidationError, ErrMaxDimExceeded, or the context error if
//     every strategy was interrupted.
func (s *MultiplicationService) Multiply(ctx context.Context, req Request) (models.MultiplyResponse, error) {
	if err := s.validate(req); err != nil {
		return models.MultiplyResponse{}, err
	}
	multipliers, err := s.factory.Select(req.Algo)
	if err != nil {
		return models.MultiplyResponse{}, apperrors.NewValidationError("algo", err.Error(), req.Algo)
	}

	rng := rand.New(rand.NewSource(req.Seed))
	a, err := matrix.NewRandom(req.Rows, req.Inner, rng)
	if err != nil {
		return models.MultiplyResponse{}, err
	}
	b, err := matrix.NewRandom(req.Inner, req.Cols, rng)
	if err != nil {
		return models.MultiplyResponse{}, err
	}

	opts := s.cfg.ToOperatorOptions()
	opts.Executor = s.exec
	results := orchestration.ExecuteMultiplications(ctx, multipliers, a, b, opts, io.Discard)

	resp := models.MultiplyResponse{
		Rows: req.Rows, Inner: req.Inner, Cols: req.Cols,
		Seed:      req.Seed,
		Results:   make([]models.StrategyResult, len(results)),
		Tolerance: s.cfg.Tolerance,
	}
	var firstErr error
	for i, res := range results {
		sr := models.StrategyResult{
			Algorithm:     res.Name,
			Duration:      res.Duration.String(),
			DurationNanos: res.Duration.Nanoseconds(),
		}
		if res.Err != nil {
			sr.Error = res.Err.Error()
			if firstErr == nil {
				firstErr = res.Err
			}
		} else {
			sr.GFLOPS = cli.Throughput(req.Rows, req.Inner, req.Cols, res.Duration)
		}
		resp.Results[i] = sr
	}

	best := orchestration.FindBestResult(results)
	if best == nil {
		if apperrors.IsContextError(firstErr) {
			return resp, firstErr
		}
		return resp, nil
	}
	resp.FrobeniusNorm = cli.FrobeniusNorm(best.Result)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if d := maxDifference(best.Result, res.Result); d > resp.MaxDifference {
			resp.MaxDifference = d
		}
	}
	resp.Agree = resp.MaxDifference <= s.cfg.Tolerance
	return resp, nil
}

func (s *MultiplicationService) validate(req Request) error {
	for _, d := range []struct {
		name  string
		value int
	}{{"rows", req.Rows}, {"inner", req.Inner}, {"cols", req.Cols}} {
		if d.value < 1 {
			return apperrors.NewValidationError(d.name, "must be a positive integer", d.value)
		}
		if d.value > s.maxDim {
			return fmt.Errorf("%s=%d: %w (%d)", d.name, d.value, ErrMaxDimExceeded, s.maxDim)
		}
	}
	return nil
}

// maxDifference returns max |a[i][j] - b[i][j]|. Shapes are equal.
func maxDifference(a, b *matrix.Matrix) float64 {
	diff, err := a.Sub(b)
	if err != nil {
		return math.Inf(1)
	}
	d := diff.Dense()
	if d == nil {
		return 0
	}
	return math.Max(math.Abs(mat.Max(d)), math.Abs(mat.Min(d)))
}
