package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/matcalc/pkg/matrix"
)

// ColorProvider supplies terminal color codes. It keeps this package free of
// a dependency on the ui package.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider provides no color codes.
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Red() string    { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// HandleMultiplicationError prints a status line for err and returns the
// matching exit code.
//
// Parameters:
//   - err: The error that occurred, may be nil.
//   - duration: How long the run lasted before failing.
//   - out: The destination of the status line.
//   - colors: Color codes, nil for none.
//
// Returns:
//   - int: The exit code.
func HandleMultiplicationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	var cfgErr ConfigError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", suffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	case errors.As(err, &cfgErr),
		errors.Is(err, matrix.ErrDimensionMismatch),
		errors.Is(err, matrix.ErrInvalidShape):
		fmt.Fprintf(out, "%sStatus: Invalid operands:%s %v\n", colors.Red(), colors.Reset(), err)
		return ExitErrorConfig
	}
	fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	return ExitErrorGeneric
}
