package multiply

import (
	"context"

	"github.com/agbru/matcalc/internal/parallel"
	"github.com/agbru/matcalc/pkg/matrix"
)

// Naive multiplies with the O(n³) triple loop. It reports no intermediate
// progress and checks ctx before each output row.
type Naive struct{}

// Name returns "naive".
func (Naive) Name() string { return "naive" }

func (Naive) multiplyCore(ctx context.Context, _ matrix.ProgressReporter,
	a, b *matrix.Matrix, opts matrix.Options) (*matrix.Matrix, error) {
	return matrix.NewOperator(opts).NaiveMatmulContext(ctx, a, b)
}

// Strassen runs the Strassen recursion on the caller goroutine, whatever
// executor the options carry.
type Strassen struct{}

// Name returns "strassen".
func (Strassen) Name() string { return "strassen" }

func (Strassen) multiplyCore(ctx context.Context, reporter matrix.ProgressReporter,
	a, b *matrix.Matrix, opts matrix.Options) (*matrix.Matrix, error) {
	opts.ParallelThreshold = 0
	opts.Executor = nil
	opts.Progress = reporter
	return matrix.NewOperator(opts).MatmulContext(ctx, a, b)
}

// ParallelStrassen runs the Strassen recursion and dispatches the seven
// products of large steps to the configured executor. A zero parallel
// threshold falls back to the base-case threshold, and a missing or
// sequential executor is replaced by a GroupExecutor.
type ParallelStrassen struct{}

// Name returns "parallel".
func (ParallelStrassen) Name() string { return "parallel" }

func (ParallelStrassen) multiplyCore(ctx context.Context, reporter matrix.ProgressReporter,
	a, b *matrix.Matrix, opts matrix.Options) (*matrix.Matrix, error) {
	opts = parallelOptions(opts)
	opts.Progress = reporter
	return matrix.NewOperator(opts).MatmulContext(ctx, a, b)
}

// parallelOptions makes sure the recursion dispatches to a concurrent
// executor above some size.
func parallelOptions(opts matrix.Options) matrix.Options {
	if opts.ParallelThreshold <= 0 {
		opts.ParallelThreshold = opts.Threshold
		if opts.ParallelThreshold <= 0 {
			opts.ParallelThreshold = matrix.DefaultThreshold
		}
	}
	if _, sequential := opts.Executor.(matrix.Sequential); sequential || opts.Executor == nil {
		opts.Executor = parallel.NewGroupExecutor(opts.MaxWorkers)
	}
	return opts
}

// NewExecutor builds the executor named by kind ("group" or "pool") for the
// parallel strategy. The release function must be called once no more
// multiplications use the executor.
//
// Parameters:
//   - kind: "pool" selects a Pool; anything else selects a GroupExecutor.
//   - workers: The worker count, <= 0 for runtime.NumCPU().
//
// Returns:
//   - matrix.Executor: The executor.
//   - func(): Releases the executor's workers.
func NewExecutor(kind string, workers int) (matrix.Executor, func()) {
	if kind == "pool" {
		pool := parallel.NewPool(workers)
		return parallel.NewPoolExecutor(pool), pool.Close
	}
	return parallel.NewGroupExecutor(workers), func() {}
}
