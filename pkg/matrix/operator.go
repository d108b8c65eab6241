package matrix

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/matcalc/internal/logging"
)

// Operator is the algorithm surface of the package: elementwise operations,
// naive and Strassen multiplication, and the split/merge choreography that
// stitches sub-results back together.
//
// An Operator holds only configuration and is safe for concurrent use.
type Operator struct {
	threshold         int
	parallelThreshold int
	exec              Executor
	logger            logging.Logger
	progress          ProgressReporter
}

// NewOperator creates an Operator from the given options. Zero values select
// the defaults documented on Options.
//
// Parameters:
//   - opts: Configuration options.
//
// Returns:
//   - *Operator: A ready-to-use operator.
func NewOperator(opts Options) *Operator {
	n := normalizeOptions(opts)
	return &Operator{
		threshold:         n.Threshold,
		parallelThreshold: n.ParallelThreshold,
		exec:              n.Executor,
		logger:            n.Logger,
		progress:          n.Progress,
	}
}

// Threshold returns the configured Strassen base-case size.
func (o *Operator) Threshold() int { return o.threshold }

// Add returns m1 + m2 elementwise.
func (o *Operator) Add(m1, m2 *Matrix) (*Matrix, error) { return m1.Add(m2) }

// Subtract returns m1 - m2 elementwise.
func (o *Operator) Subtract(m1, m2 *Matrix) (*Matrix, error) { return m1.Sub(m2) }

// AddViews returns v1 + v2 as a Plain view over a new buffer.
func (o *Operator) AddViews(v1, v2 View) (View, error) { return v1.Add(v2) }

// SubtractViews returns v1 - v2 as a Plain view over a new buffer.
func (o *Operator) SubtractViews(v1, v2 View) (View, error) { return v1.Sub(v2) }

// HadamardProduct returns the scalar sum of the elementwise products,
// Σ m1[i,j]·m2[i,j]. It does not return the elementwise product matrix.
//
// Returns:
//   - float64: The accumulated sum.
//   - error: ErrDimensionMismatch unless both shapes are identical.
func (o *Operator) HadamardProduct(m1, m2 *Matrix) (float64, error) {
	if m1.rows != m2.rows || m1.cols != m2.cols {
		return 0, shapeMismatch("HadamardProduct", m1.rows, m1.cols, m2.rows, m2.cols)
	}
	var sum float64
	for i, v := range m1.data {
		sum += v * m2.data[i]
	}
	return sum, nil
}

// Matmul returns the product m1·m2 computed with Strassen's algorithm and the
// operator's threshold.
//
// Returns:
//   - *Matrix: The m1.Rows()×m2.Cols() product.
//   - error: ErrDimensionMismatch if m1.Cols() != m2.Rows().
func (o *Operator) Matmul(m1, m2 *Matrix) (*Matrix, error) {
	return o.MatmulContext(context.Background(), m1, m2)
}

// MatmulContext is Matmul with a context. The context carries the trace span
// and is checked for cancellation before each recursion step.
//
// Parameters:
//   - ctx: The context for cancellation and tracing.
//   - m1: The left operand.
//   - m2: The right operand.
//
// Returns:
//   - *Matrix: The product.
//   - error: ErrDimensionMismatch, or the context error wrapped with the
//     recursion size at which it was observed.
func (o *Operator) MatmulContext(ctx context.Context, m1, m2 *Matrix) (*Matrix, error) {
	return o.strassenTop(ctx, "Matmul", m1, m2, o.threshold)
}

// Strassen multiplies m1 by m2 with an explicit base-case threshold.
// A threshold < 1 selects the operator's configured threshold.
//
// Returns:
//   - *Matrix: The product.
//   - error: ErrDimensionMismatch if m1.Cols() != m2.Rows().
func (o *Operator) Strassen(m1, m2 *Matrix, threshold int) (*Matrix, error) {
	if threshold < 1 {
		threshold = o.threshold
	}
	return o.strassenTop(context.Background(), "Strassen", m1, m2, threshold)
}

// NaiveMatmul multiplies m1 by m2 with the O(n³) triple loop.
//
// Returns:
//   - *Matrix: The product.
//   - error: ErrDimensionMismatch if m1.Cols() != m2.Rows().
func (o *Operator) NaiveMatmul(m1, m2 *Matrix) (*Matrix, error) {
	return o.NaiveMatmulContext(context.Background(), m1, m2)
}

// NaiveMatmulContext is NaiveMatmul with a context checked before each
// output row.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - m1: The left operand.
//   - m2: The right operand.
//
// Returns:
//   - *Matrix: The product.
//   - error: ErrDimensionMismatch if m1.Cols() != m2.Rows(), or the wrapped
//     context error.
func (o *Operator) NaiveMatmulContext(ctx context.Context, m1, m2 *Matrix) (result *Matrix, err error) {
	start := time.Now()
	defer func() { recordMultiplication(AlgorithmNaive, time.Since(start).Seconds(), err) }()

	if m1.cols != m2.rows {
		return nil, shapeMismatch("NaiveMatmul", m1.rows, m1.cols, m2.rows, m2.cols)
	}
	v, err := naiveViewsContext(ctx, m1.View(), m2.View())
	if err != nil {
		return nil, fmt.Errorf("matrix: NaiveMatmul(%dx%d·%dx%d): %w", m1.rows, m1.cols, m2.rows, m2.cols, err)
	}
	return &Matrix{rows: v.rows, cols: v.cols, data: v.data}, nil
}

// NaiveMatmulViews multiplies two views with the O(n³) triple loop and
// returns a Plain view over a new buffer.
//
// Returns:
//   - View: The product.
//   - error: ErrDimensionMismatch if v1.Cols() != v2.Rows().
func (o *Operator) NaiveMatmulViews(v1, v2 View) (View, error) {
	if v1.cols != v2.rows {
		return View{}, shapeMismatch("NaiveMatmulViews", v1.rows, v1.cols, v2.rows, v2.cols)
	}
	return naiveViews(v1, v2), nil
}

// MergeTopBottom stacks v1 above v2 into a new buffer.
//
// Returns:
//   - View: A Plain (v1.Rows()+v2.Rows())×cols view.
//   - error: ErrDimensionMismatch unless both views have the same column count.
func (o *Operator) MergeTopBottom(v1, v2 View) (View, error) {
	return mergeTopBottom(v1, v2)
}

// MergeSideToSide places v2 to the right of v1 in a new buffer.
//
// Returns:
//   - View: A Plain rows×(v1.Cols()+v2.Cols()) view.
//   - error: ErrDimensionMismatch unless both views have the same row count.
func (o *Operator) MergeSideToSide(v1, v2 View) (View, error) {
	return mergeSideToSide(v1, v2)
}

// strassenTop validates, instruments and runs one top-level multiplication.
func (o *Operator) strassenTop(ctx context.Context, op string, m1, m2 *Matrix, threshold int) (result *Matrix, err error) {
	tracer := otel.Tracer("matrix")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(
		attribute.Int("matrix.m", m1.rows),
		attribute.Int("matrix.k", m1.cols),
		attribute.Int("matrix.n", m2.cols),
		attribute.Int("matrix.threshold", threshold),
	)

	start := time.Now()
	padded := 0
	defer func() {
		duration := time.Since(start)
		recordMultiplication(AlgorithmStrassen, duration.Seconds(), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		o.logger.Debug("multiplication completed",
			logging.String("algo", AlgorithmStrassen),
			logging.String("shape", shapeString(m1.rows, m1.cols, m2.cols)),
			logging.Int("padded", padded),
			logging.Int("threshold", threshold),
			logging.Float64("duration", duration.Seconds()),
		)
	}()

	if m1.cols != m2.rows {
		return nil, shapeMismatch(op, m1.rows, m1.cols, m2.rows, m2.cols)
	}
	if m1.rows == 0 || m1.cols == 0 || m2.cols == 0 {
		return newMatrix(m1.rows, m2.cols), nil
	}
	if m1.rows <= threshold {
		v := naiveViews(m1.View(), m2.View())
		return &Matrix{rows: v.rows, cols: v.cols, data: v.data}, nil
	}

	padded, _ = NextPowerOfTwo(max(m1.rows, m1.cols, m2.cols))
	tracker := newProgressTracker(o.progress, leafCount(padded, threshold))
	c, err := o.strassen(ctx, m1.paddedView(padded), m2.paddedView(padded), threshold, tracker)
	if err != nil {
		return nil, err
	}
	return c.ToMatrix(0, m1.rows, 0, m2.cols)
}
