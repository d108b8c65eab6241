package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/multiply"
)

// PrintExecutionConfig displays the operand shapes, the timeout, the
// environment and the tuning thresholds.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	writeOut(out, "Multiplying %s%dx%d%s by %s%dx%d%s (seed %d) with a timeout of %s%s%s.\n",
		ColorBlue(), cfg.Rows, cfg.Inner, ColorReset(),
		ColorBlue(), cfg.Inner, cfg.Cols, ColorReset(),
		cfg.Seed, ColorYellow(), cfg.Timeout, ColorReset())
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
	writeOut(out, "Thresholds: Strassen base=%s%d%s, parallel=%s%d%s (%s executor).\n",
		ColorCyan(), cfg.Threshold, ColorReset(),
		ColorCyan(), cfg.ParallelThreshold, ColorReset(), cfg.Executor)
}

// PrintExecutionMode displays whether one strategy runs or several are
// compared.
//
// Parameters:
//   - multipliers: The strategies about to run. Must not be empty.
//   - out: The writer for standard output.
func PrintExecutionMode(multipliers []multiply.Multiplier, out io.Writer) {
	var modeDesc string
	if len(multipliers) > 1 {
		modeDesc = "Parallel comparison of all strategies"
	} else {
		modeDesc = fmt.Sprintf("Single multiplication with the %s%s%s strategy",
			ColorGreen(), multipliers[0].Name(), ColorReset())
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
