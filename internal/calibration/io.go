package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
)

// printCalibrationResults prints one candidate table, marking the winner.
func printCalibrationResults(out io.Writer, title string, results []calibrationResult, best int) {
	fmt.Fprintf(out, "\n--- %s ---\n", title)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sThreshold%s    │ %sExecution Time%s\n", cli.ColorBold(), cli.ColorReset(), cli.ColorBold(), cli.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		label := fmt.Sprintf("%d", res.Threshold)
		if res.Threshold == 0 {
			label = "Sequential"
		}
		durationStr := fmt.Sprintf("%sN/A%s", cli.ColorRed(), cli.ColorReset())
		if res.Err == nil {
			durationStr = cli.FormatExecutionDuration(res.Duration)
		}
		highlight := ""
		if res.Threshold == best && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", cli.ColorGreen(), cli.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12s%s │ %s%s%s%s\n", cli.ColorCyan(), label, cli.ColorReset(),
			cli.ColorYellow(), durationStr, cli.ColorReset(), highlight)
	}
	tw.Flush()
}

// printRecommendation prints the flags that reproduce a calibration.
func printRecommendation(out io.Writer, threshold, parallel int) {
	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s-threshold %d -parallel-threshold %d%s\n",
		cli.ColorGreen(), cli.ColorYellow(), threshold, parallel, cli.ColorReset())
}

// printCalibrationOutput prints the thresholds chosen by auto-calibration.
func printCalibrationOutput(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%sAuto-calibration%s: threshold=%s%d%s, parallel=%s%d%s\n",
		cli.ColorGreen(), cli.ColorReset(),
		cli.ColorYellow(), cfg.Threshold, cli.ColorReset(),
		cli.ColorYellow(), cfg.ParallelThreshold, cli.ColorReset())
}
