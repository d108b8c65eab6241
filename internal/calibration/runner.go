package calibration

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/agbru/matcalc/internal/multiply"
	"github.com/agbru/matcalc/pkg/matrix"
)

// Calibration problem sizes.
const (
	// CalibrationSize is the operand size of a full calibration.
	CalibrationSize = 512
	// QuickCalibrationSize is the operand size of a startup calibration.
	QuickCalibrationSize = 256
	// calibrationSeed makes every trial multiply the same operands.
	calibrationSeed = 20240611
)

// noResult marks a search in which every trial failed.
const noResult = time.Duration(1<<63 - 1)

// calibrationResult is the outcome of one trial.
type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// calibrationRunner times multiplications of a fixed pair of operands.
type calibrationRunner struct {
	ctx      context.Context
	perTrial time.Duration
	a, b     *matrix.Matrix
	progress chan<- multiply.ProgressUpdate
}

// newCalibrationRunner creates a runner over two random size×size operands.
//
// Parameters:
//   - ctx: The parent context of every trial.
//   - timeout: The overall budget; each trial gets a sixth of it, at least 2s.
//   - size: The operand size.
//
// Returns:
//   - *calibrationRunner: The runner.
//   - error: If the operands cannot be allocated.
func newCalibrationRunner(ctx context.Context, timeout time.Duration, size int) (*calibrationRunner, error) {
	perTrial := max(timeout/6, 2*time.Second)
	rng := rand.New(rand.NewSource(calibrationSeed))
	a, err := matrix.NewRandom(size, size, rng)
	if err != nil {
		return nil, fmt.Errorf("calibration operands: %w", err)
	}
	b, err := matrix.NewRandom(size, size, rng)
	if err != nil {
		return nil, fmt.Errorf("calibration operands: %w", err)
	}
	return &calibrationRunner{ctx: ctx, perTrial: perTrial, a: a, b: b}, nil
}

// runTrial times one multiplication.
//
// Parameters:
//   - m: The strategy to time.
//   - opts: The options of the trial.
//
// Returns:
//   - time.Duration: The elapsed time.
//   - error: The multiplication error, including a trial timeout.
func (r *calibrationRunner) runTrial(m multiply.Multiplier, opts matrix.Options) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.perTrial)
	defer cancel()
	start := time.Now()
	_, err := m.Multiply(ctx, r.progress, 0, r.a, r.b, opts)
	return time.Since(start), err
}

// search runs one trial per candidate. trial picks the strategy and the
// options of a candidate.
//
// Returns:
//   - []calibrationResult: One entry per candidate, in order.
//   - int: The fastest candidate, or fallback if every trial failed.
//   - time.Duration: Its duration, or noResult.
func (r *calibrationRunner) search(candidates []int, fallback int,
	trial func(candidate int) (multiply.Multiplier, matrix.Options)) ([]calibrationResult, int, time.Duration) {
	results := make([]calibrationResult, 0, len(candidates))
	best, bestDur := fallback, noResult
	for _, cand := range candidates {
		if r.ctx.Err() != nil {
			break
		}
		dur, err := r.runTrial(trial(cand))
		results = append(results, calibrationResult{Threshold: cand, Duration: dur, Err: err})
		if err == nil && dur < bestDur {
			best, bestDur = cand, dur
		}
	}
	return results, best, bestDur
}

// findBestThreshold searches the Strassen base-case size with sequential
// recursion.
func (r *calibrationRunner) findBestThreshold(m multiply.Multiplier, candidates []int, fallback int) ([]calibrationResult, int, time.Duration) {
	return r.search(candidates, fallback, func(c int) (multiply.Multiplier, matrix.Options) {
		return m, matrix.Options{Threshold: c}
	})
}

// findBestParallelThreshold searches the parallel dispatch threshold at a
// fixed base-case size. Candidate 0 is the sequential baseline and runs seq;
// the other candidates run par.
func (r *calibrationRunner) findBestParallelThreshold(seq, par multiply.Multiplier, threshold int, candidates []int,
	fallback int, exec matrix.Executor) ([]calibrationResult, int, time.Duration) {
	return r.search(candidates, fallback, func(c int) (multiply.Multiplier, matrix.Options) {
		if c == 0 {
			return seq, matrix.Options{Threshold: threshold}
		}
		return par, matrix.Options{Threshold: threshold, ParallelThreshold: c, Executor: exec}
	})
}
