package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/agbru/matcalc/internal/calibration"
	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/multiply"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/server"
	"github.com/agbru/matcalc/internal/ui"
	"github.com/agbru/matcalc/pkg/matrix"
)

// Application represents one matcalc run. It holds the configuration and
// dispatches to the server, calibration or multiplication modes.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides the multiplication strategies.
	Factory *multiply.Factory
	// ErrWriter receives diagnostics, logs and metric dumps.
	ErrWriter io.Writer
	// Gatherer is the registry dumped by -metrics.
	Gatherer prometheus.Gatherer
}

// New creates an Application by parsing command-line arguments.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := multiply.NewDefaultFactory()

	programName := "matcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else {
		cfg = applyAdaptiveThresholds(cfg)
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
		Gatherer:  prometheus.DefaultGatherer,
	}, nil
}

// applyAdaptiveThresholds replaces thresholds still at their static defaults
// with estimates for this machine. Values set on the command line are kept.
func applyAdaptiveThresholds(cfg config.AppConfig) config.AppConfig {
	if cfg.Threshold == matrix.DefaultThreshold {
		cfg.Threshold = calibration.EstimateOptimalThreshold()
	}
	if cfg.ParallelThreshold == config.DefaultParallelThreshold {
		cfg.ParallelThreshold = calibration.EstimateOptimalParallelThreshold()
	}
	return cfg
}

// Run executes the configured mode.
//
// Parameters:
//   - ctx: The parent context.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer(out)
	}

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	code := a.runMultiply(ctx, out)
	if a.Config.Metrics {
		a.dumpMetrics()
	}
	return code
}

// runServer serves the benchmark API until interrupted.
func (a *Application) runServer(out io.Writer) int {
	srv := server.NewServer(a.Factory, a.Config, server.WithLogger(a.newLogger()))
	fmt.Fprintf(out, "Serving the matcalc API on :%s (GET /multiply, /algorithms, /health, /metrics)\n", a.Config.Port)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()
	return calibration.RunCalibrationWithOptions(ctx, out, a.Factory, calibration.CalibrationOptions{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: true,
		Timeout:     a.Config.Timeout,
	})
}

// runAutoCalibrationIfEnabled returns the configuration tuned by a saved
// profile or a quick calibration, or the current one if disabled or failed.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if !a.Config.AutoCalibrate {
		return a.Config
	}
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
	}
	if updated, ok := calibration.AutoCalibrate(ctx, a.Config, progressOut, a.Factory); ok {
		return updated
	}
	return a.Config
}

// runMultiply builds the operands, runs the selected strategies and reports
// the outcome.
func (a *Application) runMultiply(ctx context.Context, out io.Writer) int {
	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	multipliers, err := a.Factory.Select(a.Config.Algo)
	if err != nil {
		return apperrors.HandleMultiplicationError(apperrors.WrapError(err, "selecting algorithms"), 0, a.ErrWriter, ui.Colors{})
	}

	rng := rand.New(rand.NewSource(a.Config.Seed))
	left, err := matrix.NewRandom(a.Config.Rows, a.Config.Inner, rng)
	if err != nil {
		return apperrors.HandleMultiplicationError(err, 0, a.ErrWriter, ui.Colors{})
	}
	right, err := matrix.NewRandom(a.Config.Inner, a.Config.Cols, rng)
	if err != nil {
		return apperrors.HandleMultiplicationError(err, 0, a.ErrWriter, ui.Colors{})
	}

	logger := a.newLogger()
	multipliers = a.attachObservers(multipliers, logger)

	opts := a.Config.ToOperatorOptions()
	opts.Logger = logger
	exec, release := multiply.NewExecutor(a.Config.Executor, a.Config.Workers)
	defer release()
	opts.Executor = exec

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(multipliers, out)
	}

	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
	}
	results := orchestration.ExecuteMultiplications(ctx, multipliers, left, right, opts, progressOut)

	if a.Config.Quiet {
		return a.printQuiet(results, out)
	}
	return orchestration.AnalyzeComparisonResults(results, a.Config, out)
}

// printQuiet prints the fastest product alone, or a status line on stderr
// when every strategy failed.
func (a *Application) printQuiet(results []orchestration.MultiplicationResult, out io.Writer) int {
	best := orchestration.FindBestResult(results)
	if best == nil {
		var firstErr error
		for _, res := range results {
			if res.Err != nil {
				firstErr = res.Err
				break
			}
		}
		return apperrors.HandleMultiplicationError(firstErr, 0, a.ErrWriter, ui.Colors{})
	}
	if err := cli.DisplayQuietResult(out, best.Result); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// newLogger creates the structured logger for library events. The level
// has already been validated by config.Validate.
func (a *Application) newLogger() *logging.ZerologAdapter {
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	return logging.NewLevelLogger(a.ErrWriter, level)
}

// attachObservers adds the logging observer when debug events are enabled
// and the metrics observer when -metrics is set.
func (a *Application) attachObservers(multipliers []multiply.Multiplier, logger *logging.ZerologAdapter) []multiply.Multiplier {
	var observers []multiply.ProgressObserver
	if zl := logger.Zerolog(); zl.GetLevel() <= zerolog.DebugLevel {
		observers = append(observers, multiply.NewLoggingObserver(zl, 0.25))
	}
	if a.Config.Metrics {
		observers = append(observers, multiply.NewMetricsObserver())
	}
	if len(observers) == 0 {
		return multipliers
	}
	extended := make([]multiply.Multiplier, len(multipliers))
	for i, m := range multipliers {
		extended[i] = multiply.WithObservers(m, observers...)
	}
	return extended
}

func (a *Application) dumpMetrics() {
	gatherer := a.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	fmt.Fprintf(a.ErrWriter, "\n--- Metrics ---\n")
	if err := cli.WriteMetrics(a.ErrWriter, gatherer); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
	}
}

// IsHelpError reports whether err comes from -h or --help.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
