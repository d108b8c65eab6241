package matrix

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the package. Callers match them with errors.Is;
// the returned errors carry the failing operation and the offending shapes.
var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible
	// (elementwise ops, Hadamard product, multiplication, merges, bulk load).
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrIndexOutOfRange is returned by element access and slicing outside
	// the logical bounds of a matrix or view.
	ErrIndexOutOfRange = errors.New("matrix: index out of range")

	// ErrInvalidShape is returned when a shape is unusable for the requested
	// operation, e.g. splitting a non-square view or a negative dimension.
	ErrInvalidShape = errors.New("matrix: invalid shape")
)

// opErrorf wraps a sentinel with the operation that produced it.
func opErrorf(op string, err error, format string, args ...any) error {
	return fmt.Errorf("matrix: %s: %s: %w", op, fmt.Sprintf(format, args...), err)
}

// shapeMismatch builds the common ErrDimensionMismatch for two shapes.
func shapeMismatch(op string, r1, c1, r2, c2 int) error {
	return opErrorf(op, ErrDimensionMismatch, "%dx%d vs %dx%d", r1, c1, r2, c2)
}

// indexError builds the common ErrIndexOutOfRange for a (row, col) access.
func indexError(op string, row, col, rows, cols int) error {
	return opErrorf(op, ErrIndexOutOfRange, "(%d,%d) outside %dx%d", row, col, rows, cols)
}
