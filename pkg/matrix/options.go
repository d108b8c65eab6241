package matrix

import (
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/parallel"
)

// ─────────────────────────────────────────────────────────────────────────────
// Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultThreshold is the recursion size at or below which Strassen falls
	// back to the naive kernel. Below it the extra additions and merge
	// allocations cost more than the multiplication saved.
	DefaultThreshold = 64

	// ProgressReportThreshold is the minimum progress change (0.0 to 1.0)
	// between two reports.
	ProgressReportThreshold = 0.01
)

// ProgressReporter receives the fraction (0.0 to 1.0) of Strassen base cases
// completed for the current multiplication. Calls are serialized.
type ProgressReporter func(progress float64)

// Options configures an Operator.
type Options struct {
	// Threshold is the base-case size of the Strassen recursion.
	// If <= 0, DefaultThreshold is used.
	Threshold int
	// ParallelThreshold enables parallel dispatch of the seven products of a
	// recursion step whose size is strictly greater than this value.
	// If <= 0, every step runs sequentially.
	ParallelThreshold int
	// MaxWorkers bounds the goroutines of the default parallel executor.
	// If <= 0, runtime.NumCPU() is used. Ignored when Executor is set.
	MaxWorkers int
	// Executor runs the products of a parallel step. If nil and
	// ParallelThreshold > 0, a bounded errgroup executor is used.
	Executor Executor
	// Logger receives debug events. If nil, logging is disabled.
	Logger logging.Logger
	// Progress, if set, is notified as base cases complete.
	Progress ProgressReporter
}

// normalizeOptions returns a copy of opts with defaults filled in.
//
// Parameters:
//   - opts: The options to normalize.
//
// Returns:
//   - Options: A normalized copy of opts.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.Threshold <= 0 {
		normalized.Threshold = DefaultThreshold
	}
	if normalized.ParallelThreshold < 0 {
		normalized.ParallelThreshold = 0
	}
	if normalized.Executor == nil {
		if normalized.ParallelThreshold > 0 {
			normalized.Executor = parallel.NewGroupExecutor(normalized.MaxWorkers)
		} else {
			normalized.Executor = Sequential{}
		}
	}
	if normalized.Logger == nil {
		normalized.Logger = logging.NewNopLogger()
	}
	return normalized
}
