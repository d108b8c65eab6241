package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/multiply"
	"github.com/agbru/matcalc/internal/ui"
)

// CalibrationOptions configures a full calibration.
type CalibrationOptions struct {
	// ProfilePath is the profile location. Empty selects the default path.
	ProfilePath string
	// SaveProfile writes the results to ProfilePath.
	SaveProfile bool
	// LoadProfile reuses a valid existing profile instead of benchmarking.
	LoadProfile bool
	// Size is the operand size. If <= 0, CalibrationSize is used.
	Size int
	// Timeout is the time budget used to derive per-trial timeouts.
	Timeout time.Duration
}

// RunCalibration benchmarks every candidate threshold on this machine,
// prints a summary, and saves the winning pair to the default profile.
//
// Parameters:
//   - ctx: Cancels the calibration.
//   - out: Receives progress and results.
//   - factory: Must provide the "strassen" and "parallel" strategies.
//
// Returns:
//   - int: The exit code.
func RunCalibration(ctx context.Context, out io.Writer, factory *multiply.Factory) int {
	return RunCalibrationWithOptions(ctx, out, factory, CalibrationOptions{SaveProfile: true})
}

// RunCalibrationWithOptions runs a full calibration with the given options.
//
// Parameters:
//   - ctx: Cancels the calibration.
//   - out: Receives progress and results.
//   - factory: Must provide the "strassen" and "parallel" strategies.
//   - opts: Calibration options.
//
// Returns:
//   - int: The exit code.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, factory *multiply.Factory, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Strassen Thresholds ---\n")

	if opts.LoadProfile {
		if profile, loaded := LoadOrCreateProfile(opts.ProfilePath); loaded {
			fmt.Fprintf(out, "%sLoaded existing calibration profile from %s%s\n",
				cli.ColorGreen(), resolvePath(opts.ProfilePath), cli.ColorReset())
			fmt.Fprintf(out, "Profile: %s\n", profile)
			printRecommendation(out, profile.OptimalThreshold, profile.OptimalParallelThreshold)
			return apperrors.ExitSuccess
		}
	}

	strassen, errS := factory.Get("strassen")
	par, errP := factory.Get("parallel")
	if errS != nil || errP != nil {
		fmt.Fprintf(out, "%sCritical error: the 'strassen' and 'parallel' strategies are required for calibration.%s\n",
			cli.ColorRed(), cli.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	size := opts.Size
	if size <= 0 {
		size = CalibrationSize
	}
	runner, err := newCalibrationRunner(ctx, opts.Timeout, size)
	if err != nil {
		fmt.Fprintf(out, "%sCalibration failed: %v%s\n", cli.ColorRed(), err, cli.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	set := GenerateFullThresholdSet()
	fmt.Fprintf(out, "%sUsing adaptive thresholds for %d CPU cores, %dx%d operands%s\n",
		cli.ColorCyan(), runtime.NumCPU(), size, size, cli.ColorReset())

	var wg sync.WaitGroup
	progressChan := make(chan multiply.ProgressUpdate, 16)
	runner.progress = progressChan
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, out)

	start := time.Now()
	baseResults, bestThreshold, baseDur := runner.findBestThreshold(strassen, set.Base, EstimateOptimalThreshold())
	parResults, bestParallel, _ := runner.findBestParallelThreshold(strassen, par, bestThreshold, set.Parallel,
		EstimateOptimalParallelThreshold(), nil)
	close(progressChan)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", cli.ColorYellow(), cli.ColorReset())
		return apperrors.HandleMultiplicationError(err, time.Since(start), out, ui.Colors{})
	}
	if baseDur == noResult {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", cli.ColorRed(), cli.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	printCalibrationResults(out, "Strassen base case", baseResults, bestThreshold)
	printCalibrationResults(out, "Parallel dispatch", parResults, bestParallel)
	printRecommendation(out, bestThreshold, bestParallel)

	if opts.SaveProfile {
		profile := NewProfile()
		profile.OptimalThreshold, profile.OptimalParallelThreshold = ValidateThresholds(bestThreshold, bestParallel)
		profile.CalibrationSize = size
		profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n", cli.ColorYellow(), err, cli.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n",
				cli.ColorGreen(), resolvePath(opts.ProfilePath), cli.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}

// AutoCalibrate tunes cfg's thresholds before a run. It reuses a valid
// cached profile if there is one, and otherwise runs a quick calibration on
// QuickCalibrationSize operands and caches the result.
//
// Parameters:
//   - ctx: Cancels the calibration.
//   - cfg: The configuration to tune.
//   - out: Receives a one-line summary.
//   - factory: Must provide the "strassen" and "parallel" strategies.
//
// Returns:
//   - config.AppConfig: The tuned configuration, or cfg unchanged.
//   - bool: True if thresholds were applied.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, factory *multiply.Factory) (config.AppConfig, bool) {
	return AutoCalibrateWithProfile(ctx, cfg, out, factory, cfg.CalibrationProfile)
}

// AutoCalibrateWithProfile is AutoCalibrate with an explicit profile path.
func AutoCalibrateWithProfile(ctx context.Context, cfg config.AppConfig, out io.Writer, factory *multiply.Factory,
	profilePath string) (config.AppConfig, bool) {
	if updated, ok := LoadCachedCalibration(cfg, profilePath); ok {
		fmt.Fprintf(out, "%sUsing cached calibration%s: threshold=%s%d%s, parallel=%s%d%s\n",
			cli.ColorGreen(), cli.ColorReset(),
			cli.ColorYellow(), updated.Threshold, cli.ColorReset(),
			cli.ColorYellow(), updated.ParallelThreshold, cli.ColorReset())
		return updated, true
	}

	strassen, errS := factory.Get("strassen")
	par, errP := factory.Get("parallel")
	if errS != nil || errP != nil {
		return cfg, false
	}
	runner, err := newCalibrationRunner(ctx, cfg.Timeout, QuickCalibrationSize)
	if err != nil {
		return cfg, false
	}

	set := GenerateQuickThresholdSet()
	_, bestThreshold, baseDur := runner.findBestThreshold(strassen, set.Base, cfg.Threshold)
	_, bestParallel, parDur := runner.findBestParallelThreshold(strassen, par, bestThreshold, set.Parallel, cfg.ParallelThreshold, nil)

	updated, ok := applyCalibrationResults(cfg, bestThreshold, baseDur, bestParallel, parDur)
	if !ok {
		return cfg, false
	}
	saveCalibrationProfile(updated, profilePath, out)
	printCalibrationOutput(updated, out)
	return updated, true
}

// LoadCachedCalibration applies a valid cached profile to cfg.
//
// Returns:
//   - config.AppConfig: The updated configuration, or cfg unchanged.
//   - bool: True if a valid profile was found.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (config.AppConfig, bool) {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded {
		return cfg, false
	}
	updated := cfg
	updated.Threshold = profile.OptimalThreshold
	updated.ParallelThreshold = profile.OptimalParallelThreshold
	return updated, true
}

// applyCalibrationResults copies the thresholds whose search succeeded into
// cfg.
//
// Returns:
//   - config.AppConfig: The updated configuration.
//   - bool: False if the base-case search produced no result.
func applyCalibrationResults(cfg config.AppConfig, bestThreshold int, baseDur time.Duration,
	bestParallel int, parDur time.Duration) (config.AppConfig, bool) {
	if baseDur == noResult {
		return cfg, false
	}
	updated := cfg
	updated.Threshold = bestThreshold
	if parDur != noResult {
		updated.ParallelThreshold = bestParallel
	}
	updated.Threshold, updated.ParallelThreshold = ValidateThresholds(updated.Threshold, updated.ParallelThreshold)
	return updated, true
}

// saveCalibrationProfile stores cfg's thresholds as a new profile. Failures
// are reported on out and otherwise ignored.
func saveCalibrationProfile(cfg config.AppConfig, profilePath string, out io.Writer) {
	profile := NewProfile()
	profile.OptimalThreshold = cfg.Threshold
	profile.OptimalParallelThreshold = cfg.ParallelThreshold
	profile.CalibrationSize = QuickCalibrationSize
	if err := profile.SaveProfile(profilePath); err != nil {
		fmt.Fprintf(out, "%sWarning: could not save calibration profile: %v%s\n",
			cli.ColorYellow(), err, cli.ColorReset())
	}
}
