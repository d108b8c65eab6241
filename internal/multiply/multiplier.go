// Package multiply wraps the matrix operator behind named multiplication
// strategies so that callers can run, compare and benchmark them uniformly.
package multiply

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/pkg/matrix"
)

// ProgressUpdate is a progress report sent by a running multiplier.
type ProgressUpdate struct {
	// MultiplierIndex identifies the multiplier when several run at once.
	MultiplierIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// Multiplier is the public interface of a multiplication strategy.
type Multiplier interface {
	// Multiply computes a·b, sending progress updates on progressChan.
	// The channel may be nil. Sends never block.
	Multiply(ctx context.Context, progressChan chan<- ProgressUpdate, multiplierIndex int,
		a, b *matrix.Matrix, opts matrix.Options) (*matrix.Matrix, error)

	// Name returns the registered name of the strategy.
	Name() string
}

// coreMultiplier is implemented by the concrete strategies. It is wrapped by
// multiplierWrapper, which adds progress plumbing and instrumentation.
type coreMultiplier interface {
	multiplyCore(ctx context.Context, reporter matrix.ProgressReporter,
		a, b *matrix.Matrix, opts matrix.Options) (*matrix.Matrix, error)
	Name() string
}

// multiplierWrapper decorates a coreMultiplier with observers, tracing and
// debug logging.
type multiplierWrapper struct {
	core      coreMultiplier
	observers []ProgressObserver
}

// NewMultiplier wraps a core strategy into a Multiplier.
//
// Parameters:
//   - core: The strategy to wrap. Must not be nil.
//
// Returns:
//   - Multiplier: The decorated strategy.
func NewMultiplier(core coreMultiplier) Multiplier {
	if core == nil {
		panic("multiply: NewMultiplier called with nil core")
	}
	return &multiplierWrapper{core: core}
}

// WithObservers returns a copy of m that also notifies observers on every
// run. Multipliers not created by this package are returned unchanged.
//
// Parameters:
//   - m: The multiplier to extend.
//   - observers: Additional observers, such as logging or metrics.
//
// Returns:
//   - Multiplier: The extended multiplier.
func WithObservers(m Multiplier, observers ...ProgressObserver) Multiplier {
	w, ok := m.(*multiplierWrapper)
	if !ok || len(observers) == 0 {
		return m
	}
	extended := &multiplierWrapper{core: w.core}
	extended.observers = append(append(extended.observers, w.observers...), observers...)
	return extended
}

// Name returns the name of the wrapped strategy.
func (w *multiplierWrapper) Name() string {
	return w.core.Name()
}

// Multiply runs the wrapped strategy, forwarding progress to progressChan.
//
// Parameters:
//   - ctx: Cancels the computation.
//   - progressChan: Receives progress updates. May be nil.
//   - multiplierIndex: Tag carried by every update.
//   - a, b: The operands.
//   - opts: Operator options. Options.Progress is overridden.
//
// Returns:
//   - *matrix.Matrix: The product.
//   - error: A MultiplicationError wrapping a shape or context error.
func (w *multiplierWrapper) Multiply(ctx context.Context, progressChan chan<- ProgressUpdate, multiplierIndex int,
	a, b *matrix.Matrix, opts matrix.Options) (*matrix.Matrix, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	for _, o := range w.observers {
		subject.Register(o)
	}
	return w.MultiplyWithObservers(ctx, subject, multiplierIndex, a, b, opts)
}

// MultiplyWithObservers runs the wrapped strategy and notifies every
// observer registered on subject. A nil subject disables progress.
//
// Parameters:
//   - ctx: Cancels the computation.
//   - subject: Observers to notify.
//   - multiplierIndex: Tag carried by every notification.
//   - a, b: The operands.
//   - opts: Operator options. Options.Progress is overridden.
//
// Returns:
//   - *matrix.Matrix: The product.
//   - error: A MultiplicationError wrapping a shape or context error.
func (w *multiplierWrapper) MultiplyWithObservers(ctx context.Context, subject *ProgressSubject, multiplierIndex int,
	a, b *matrix.Matrix, opts matrix.Options) (result *matrix.Matrix, err error) {
	tracer := otel.Tracer("multiply")
	ctx, span := tracer.Start(ctx, w.core.Name())
	defer span.End()
	span.SetAttributes(
		attribute.Int("multiplier.index", multiplierIndex),
		attribute.Int("matrix.rows", a.Rows()),
		attribute.Int("matrix.cols", b.Cols()),
	)

	reporter := func(float64) {}
	if subject != nil {
		reporter = subject.AsProgressReporter(multiplierIndex)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		opts.Logger.Debug("multiplier finished",
			logging.String("multiplier", w.core.Name()),
			logging.Int("index", multiplierIndex),
			logging.Duration("duration", time.Since(start)),
		)
	}()

	result, err = w.core.multiplyCore(ctx, reporter, a, b, opts)
	if err != nil {
		return nil, apperrors.NewMultiplicationError(w.core.Name(), err)
	}
	reporter(1.0)
	return result, nil
}
