// Package orchestration runs several multiplication strategies on the same
// operands concurrently and checks that their products agree.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/multiply"
	"github.com/agbru/matcalc/internal/ui"
	"github.com/agbru/matcalc/pkg/matrix"
)

// MultiplicationResult is the outcome of one strategy.
type MultiplicationResult struct {
	// Name is the strategy name.
	Name string
	// Result is the product, nil if Err is set.
	Result *matrix.Matrix
	// Duration is the wall time of the multiplication.
	Duration time.Duration
	// Err is the strategy's error, if any.
	Err error
}

// ProgressBufferMultiplier sizes the progress channel per strategy, so that
// strategies rarely drop updates while the display is busy.
const ProgressBufferMultiplier = 5

// ExecuteMultiplications runs every strategy concurrently on a·b and
// renders their combined progress on out.
//
// Parameters:
//   - ctx: Cancels every strategy.
//   - multipliers: The strategies to run.
//   - a, b: The operands, shared read-only by all strategies.
//   - opts: The operator options given to every strategy.
//   - out: The writer for the progress display.
//
// Returns:
//   - []MultiplicationResult: One result per strategy, in input order.
func ExecuteMultiplications(ctx context.Context, multipliers []multiply.Multiplier, a, b *matrix.Matrix,
	opts matrix.Options, out io.Writer) []MultiplicationResult {
	results := make([]MultiplicationResult, len(multipliers))
	progressChan := make(chan multiply.ProgressUpdate, len(multipliers)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(multipliers), out)

	var g errgroup.Group
	for i, m := range multipliers {
		g.Go(func() error {
			start := time.Now()
			res, err := m.Multiply(ctx, progressChan, i, a, b, opts)
			results[i] = MultiplicationResult{
				Name:     m.Name(),
				Result:   res,
				Duration: time.Since(start),
				Err:      err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()
	return results
}

// FindBestResult returns the fastest successful result, or nil.
func FindBestResult(results []MultiplicationResult) *MultiplicationResult {
	var best *MultiplicationResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			best = &results[i]
		}
	}
	return best
}

// AnalyzeComparisonResults prints a summary table of the results, checks
// that every successful product agrees with the fastest one within
// cfg.Tolerance, and displays that product.
//
// Parameters:
//   - results: The results to analyze. They are sorted in place.
//   - cfg: The application configuration.
//   - out: The writer for the report.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch, or the exit code of the first
//     failure if no strategy succeeded.
func AnalyzeComparisonResults(results []MultiplicationResult, cfg config.AppConfig, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sStrategy%s\t%sDuration%s\t%sGFLOP/s%s\t%sStatus%s\n",
		cli.ColorBold(), cli.ColorReset(), cli.ColorBold(), cli.ColorReset(),
		cli.ColorBold(), cli.ColorReset(), cli.ColorBold(), cli.ColorReset())

	for _, res := range results {
		var status, rate string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", cli.ColorRed(), res.Err, cli.ColorReset())
			rate = "-"
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", cli.ColorGreen(), cli.ColorReset())
			rate = fmt.Sprintf("%.3f", cli.Throughput(cfg.Rows, cfg.Inner, cfg.Cols, res.Duration))
			successCount++
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\n",
			cli.ColorBlue(), res.Name, cli.ColorReset(),
			cli.ColorYellow(), duration, cli.ColorReset(),
			rate, status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the multiplication.\n")
		return apperrors.HandleMultiplicationError(firstError, 0, out, ui.Colors{})
	}

	reference := results[0]
	for _, res := range results[1:] {
		if res.Err == nil && !res.Result.ApproxEqual(reference.Result, cfg.Tolerance) {
			fmt.Fprintf(out, "\n%sGlobal Status: CRITICAL ERROR! %s and %s disagree beyond a tolerance of %g.%s\n",
				cli.ColorRed(), reference.Name, res.Name, cfg.Tolerance, cli.ColorReset())
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid products agree within %g.\n", cfg.Tolerance)
	cli.DisplayResult(reference.Result, cfg.Inner, reference.Duration, cfg.Verbose, cfg.Details, out)
	return apperrors.ExitSuccess
}
