package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/agbru/matcalc/pkg/matrix"
)

// Throughput returns the rate of a rows×inner by inner×cols multiplication,
// counted as 2·rows·inner·cols floating-point operations, in GFLOP/s.
// It returns 0 for a zero duration.
func Throughput(rows, inner, cols int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	flops := 2 * float64(rows) * float64(inner) * float64(cols)
	return flops / d.Seconds() / 1e9
}

// FrobeniusNorm returns the Frobenius norm of m, or 0 for an empty matrix.
func FrobeniusNorm(m *matrix.Matrix) float64 {
	d := m.Dense()
	if d == nil {
		return 0
	}
	return mat.Norm(d, 2)
}

// maxAbs returns the largest absolute element of m.
func maxAbs(m *matrix.Matrix) float64 {
	d := m.Dense()
	if d == nil {
		return 0
	}
	return math.Max(math.Abs(mat.Max(d)), math.Abs(mat.Min(d)))
}

// DisplayResult prints a product and, optionally, its analysis.
//
// Parameters:
//   - result: The product.
//   - inner: The shared dimension of the operands.
//   - duration: The time taken by the multiplication.
//   - verbose: If true, prints the product whatever its size.
//   - details: If true, prints throughput and norms.
//   - out: The output writer.
func DisplayResult(result *matrix.Matrix, inner int, duration time.Duration, verbose, details bool, out io.Writer) {
	rows, cols := result.Dims()
	fmt.Fprintf(out, "Result shape: %s%dx%d%s (%s elements).\n",
		ColorCyan(), rows, cols, ColorReset(), formatNumberString(strconv.Itoa(rows*cols)))

	if details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", ColorBold(), ColorReset())
		durationStr := FormatExecutionDuration(duration)
		if duration == 0 {
			durationStr = "< 1µs"
		}
		fmt.Fprintf(out, "Multiplication time : %s%s%s\n", ColorGreen(), durationStr, ColorReset())
		fmt.Fprintf(out, "Throughput          : %s%.3f GFLOP/s%s\n", ColorCyan(), Throughput(rows, inner, cols, duration), ColorReset())
		fmt.Fprintf(out, "Frobenius norm      : %s%.6e%s\n", ColorCyan(), FrobeniusNorm(result), ColorReset())
		fmt.Fprintf(out, "Max |element|       : %s%.6e%s\n", ColorCyan(), maxAbs(result), ColorReset())
	}

	if !verbose && rows*cols > PreviewLimit {
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to print the full product)\n", ColorYellow(), ColorReset())
		return
	}
	fmt.Fprintf(out, "\n%s--- Product ---%s\n", ColorBold(), ColorReset())
	if err := result.Display(out); err != nil {
		fmt.Fprintf(out, "%sfailed to print product: %v%s\n", ColorRed(), err, ColorReset())
	}
}

// DisplayQuietResult prints only the product, one row per line, for
// scripting.
//
// Parameters:
//   - out: The output writer.
//   - result: The product.
//
// Returns:
//   - error: The write error, if any.
func DisplayQuietResult(out io.Writer, result *matrix.Matrix) error {
	return result.Display(out)
}
