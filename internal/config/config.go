// Package config parses and validates the matcalc command line. Every flag
// can also be supplied through a MATCALC_ environment variable; explicit
// flags take precedence over the environment, which takes precedence over
// the defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/pkg/matrix"
)

// EnvPrefix is the prefix of every environment variable read by matcalc.
const EnvPrefix = "MATCALC_"

// Default configuration values.
const (
	// DefaultDim is the default size of each operand dimension.
	DefaultDim = 512
	// DefaultAlgo runs every algorithm and compares the products.
	DefaultAlgo = "all"
	// DefaultParallelThreshold is the smallest recursion size whose seven
	// products are dispatched concurrently.
	DefaultParallelThreshold = 128
	// DefaultExecutor selects the errgroup-based executor.
	DefaultExecutor = "group"
	// DefaultSeed seeds the random operands.
	DefaultSeed int64 = 1
	// DefaultTimeout bounds the whole run.
	DefaultTimeout = 5 * time.Minute
	// DefaultTolerance is the largest elementwise difference accepted when
	// comparing products of different algorithms.
	DefaultTolerance = 1e-6
	// DefaultLogLevel keeps the library's debug events quiet.
	DefaultLogLevel = "warn"
	// DefaultPort is the listening port of the server mode.
	DefaultPort = "8080"
	// DefaultRateLimit is the number of requests per minute accepted from
	// one client in server mode.
	DefaultRateLimit = 60
	// MaxDim caps each operand dimension.
	MaxDim = 1 << 14
)

// Executors lists the accepted -executor values.
var Executors = []string{"group", "pool"}

// AppConfig holds the parsed configuration of one matcalc run.
type AppConfig struct {
	// Rows, Inner and Cols describe the product (Rows×Inner)·(Inner×Cols).
	Rows, Inner, Cols int
	// Algo is "all" or one of the registered algorithm names.
	Algo string
	// Threshold is the Strassen base-case size.
	Threshold int
	// ParallelThreshold enables concurrent products above this size; 0
	// disables concurrency.
	ParallelThreshold int
	// Workers bounds the executor goroutines; 0 selects the CPU count.
	Workers int
	// Executor is "group" or "pool".
	Executor string
	// Seed drives the random operands.
	Seed int64
	// Tolerance is the accepted elementwise difference between algorithms.
	Tolerance float64
	// Timeout bounds the run.
	Timeout time.Duration
	// Verbose prints the product.
	Verbose bool
	// Details prints throughput and shape details.
	Details bool
	// Quiet prints only the product.
	Quiet bool
	// NoColor disables ANSI colors.
	NoColor bool
	// Calibrate runs the threshold calibration and exits.
	Calibrate bool
	// AutoCalibrate loads a saved profile or runs a quick calibration first.
	AutoCalibrate bool
	// CalibrationProfile is the profile path; empty selects the default.
	CalibrationProfile string
	// Metrics dumps the Prometheus registry to stderr at exit.
	Metrics bool
	// LogLevel is the minimum zerolog level.
	LogLevel string
	// ServerMode serves the benchmark API over HTTP instead of running once.
	ServerMode bool
	// Port is the listening port of the server mode.
	Port string
	// RateLimit is the number of requests per minute accepted from one
	// client in server mode, 0 to disable limiting.
	RateLimit int
}

// ToOperatorOptions converts the tuning parameters to matrix.Options. The
// executor is wired by the caller, which owns its lifecycle.
func (c AppConfig) ToOperatorOptions() matrix.Options {
	return matrix.Options{
		Threshold:         c.Threshold,
		ParallelThreshold: c.ParallelThreshold,
		MaxWorkers:        c.Workers,
	}
}

// Validate checks ranges and names.
//
// Parameters:
//   - availableAlgos: The registered algorithm names.
//
// Returns:
//   - error: A ConfigError describing the first invalid value, or nil.
func (c AppConfig) Validate(availableAlgos []string) error {
	for _, d := range []struct {
		name  string
		value int
	}{{"rows", c.Rows}, {"inner", c.Inner}, {"cols", c.Cols}} {
		if d.value < 1 || d.value > MaxDim {
			return apperrors.NewConfigError("-%s must be in [1, %d]: %d", d.name, MaxDim, d.value)
		}
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Threshold < 1 {
		return apperrors.NewConfigError("Strassen threshold must be at least 1: %d", c.Threshold)
	}
	if c.ParallelThreshold < 0 {
		return apperrors.NewConfigError("parallel threshold cannot be negative: %d", c.ParallelThreshold)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("worker count cannot be negative: %d", c.Workers)
	}
	if c.Tolerance < 0 {
		return apperrors.NewConfigError("tolerance cannot be negative: %g", c.Tolerance)
	}
	if !slices.Contains(Executors, c.Executor) {
		return apperrors.NewConfigError("unrecognized executor: '%s'. Valid executors are: [%s]", c.Executor, strings.Join(Executors, ", "))
	}
	if c.Algo != "all" && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.RateLimit < 0 {
		return apperrors.NewConfigError("rate limit cannot be negative: %d", c.RateLimit)
	}
	if c.ServerMode {
		if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
			return apperrors.NewConfigError("invalid port: '%s'", c.Port)
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applies environment overrides
// and validates the result.
//
// Parameters:
//   - programName: The name shown in the usage text.
//   - args: The arguments, typically os.Args[1:].
//   - errorWriter: Where parse errors and usage are printed.
//   - availableAlgos: The registered algorithm names.
//
// Returns:
//   - AppConfig: The configuration.
//   - error: flag.ErrHelp for -h, or an error if parsing or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.IntVar(&config.Rows, "rows", DefaultDim, "Rows of the left operand.")
	fs.IntVar(&config.Inner, "inner", DefaultDim, "Columns of the left operand and rows of the right operand.")
	fs.IntVar(&config.Cols, "cols", DefaultDim, "Columns of the right operand.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.IntVar(&config.Threshold, "threshold", matrix.DefaultThreshold, "Strassen base-case size; smaller blocks use the naive kernel.")
	fs.IntVar(&config.ParallelThreshold, "parallel-threshold", DefaultParallelThreshold, "Run the seven sub-products concurrently above this size (0 to disable).")
	fs.IntVar(&config.Workers, "workers", 0, "Maximum concurrent workers (0 for the CPU count).")
	fs.StringVar(&config.Executor, "executor", DefaultExecutor, "Parallel executor: 'group' (errgroup) or 'pool' (worker pool).")
	fs.Int64Var(&config.Seed, "seed", DefaultSeed, "Seed of the random operands.")
	fs.Float64Var(&config.Tolerance, "tolerance", DefaultTolerance, "Maximum elementwise difference accepted between algorithms.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.Verbose, "v", false, "Print the product matrix.")
	fs.BoolVar(&config.Details, "d", false, "Display performance details.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure candidate thresholds, save the profile and exit.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Use the saved profile or run a quick calibration before multiplying.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to the calibration profile (default: ~/.matcalc_calibration.json).")
	fs.BoolVar(&config.Metrics, "metrics", false, "Dump Prometheus metrics to stderr at exit.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error or disabled.")
	fs.BoolVar(&config.ServerMode, "server", false, "Serve the benchmark API over HTTP.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Listening port of the server mode.")
	fs.IntVar(&config.RateLimit, "rate-limit", DefaultRateLimit, "Requests per minute accepted from one client in server mode (0 to disable).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	config.Executor = strings.ToLower(config.Executor)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.Join(errors.New("invalid configuration"), err)
	}
	return config, nil
}
