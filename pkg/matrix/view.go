package matrix

import "fmt"

// Kind selects how a View maps a logical (row, col) onto its buffer.
type Kind uint8

const (
	// Plain addresses (row+rowOffset)*stride + col+colOffset.
	Plain Kind = iota
	// Transposed swaps the roles of row and column against the original
	// layout: (col+colOffset)*stride + row+rowOffset.
	Transposed
	// Padded addresses like Plain inside the parent extent and reads 0.0
	// outside of it.
	Padded
)

// String returns the name of the addressing kind.
func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Transposed:
		return "transposed"
	case Padded:
		return "padded"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// View is a read-only window into a shared float64 buffer.
//
// A View is a small value type: copying it never copies the buffer. The
// stride is the row length of the buffer layout the view addresses and is
// independent from the view's logical column count. For Padded views,
// parentRows×parentCols is the extent of real data; coordinates beyond it
// read as zero.
type View struct {
	data []float64
	kind Kind

	rows, cols           int
	rowOffset, colOffset int
	stride               int

	parentRows, parentCols int
}

// NewView returns a Plain rows×cols view over data, laid out row-major with
// a stride of cols. The buffer is shared, not copied.
//
// Returns:
//   - View: The view.
//   - error: ErrInvalidShape if a dimension is negative or data holds fewer
//     than rows*cols values.
func NewView(data []float64, rows, cols int) (View, error) {
	if rows < 0 || cols < 0 || len(data) < rows*cols {
		return View{}, opErrorf("NewView", ErrInvalidShape, "%dx%d over %d values", rows, cols, len(data))
	}
	return View{data: data, kind: Plain, rows: rows, cols: cols, stride: cols}, nil
}

// plainView wraps a freshly materialized buffer.
func plainView(data []float64, rows, cols int) View {
	return View{data: data, kind: Plain, rows: rows, cols: cols, stride: cols}
}

// Rows returns the logical number of rows.
func (v View) Rows() int { return v.rows }

// Cols returns the logical number of columns.
func (v View) Cols() int { return v.cols }

// Dims returns the logical number of rows and columns.
func (v View) Dims() (rows, cols int) { return v.rows, v.cols }

// Kind returns the addressing kind of the view.
func (v View) Kind() Kind { return v.kind }

// Stride returns the row length of the buffer layout the view addresses.
func (v View) Stride() int { return v.stride }

// Offsets returns the row and column offsets of the view.
func (v View) Offsets() (row, col int) { return v.rowOffset, v.colOffset }

// At returns the element at (row, col).
//
// Returns:
//   - float64: The value, 0.0 for the padding area of a Padded view.
//   - error: ErrIndexOutOfRange if (row, col) is outside the view.
func (v View) At(row, col int) (float64, error) {
	if row < 0 || row >= v.rows || col < 0 || col >= v.cols {
		return 0, indexError("View.At", row, col, v.rows, v.cols)
	}
	return v.at(row, col), nil
}

// at reads (row, col) without the logical bounds check. Kernels call it after
// validating shapes once.
func (v View) at(row, col int) float64 {
	r, c := row+v.rowOffset, col+v.colOffset
	switch v.kind {
	case Transposed:
		return v.data[c*v.stride+r]
	case Padded:
		if r >= v.parentRows || c >= v.parentCols {
			return 0
		}
		return v.data[r*v.stride+c]
	default:
		return v.data[r*v.stride+c]
	}
}

// contiguous reports whether the view is a Plain view whose rows are packed
// back to back, which lets kernels walk the buffer directly.
func (v View) contiguous() bool {
	return v.kind == Plain && v.rowOffset == 0 && v.colOffset == 0 && v.stride == v.cols
}

// Split divides a square view into four quadrants, returned in the order
// upper-left, upper-right, lower-left, lower-right. The quadrants share the
// buffer and keep the addressing kind; no data is copied.
//
// Returns:
//   - [4]View: The quadrants, each (rows/2)×(cols/2).
//   - error: ErrInvalidShape unless the view is square with an even size.
func (v View) Split() ([4]View, error) {
	if v.rows != v.cols {
		return [4]View{}, opErrorf("Split", ErrInvalidShape, "view is %dx%d, not square", v.rows, v.cols)
	}
	if v.rows%2 != 0 {
		return [4]View{}, opErrorf("Split", ErrInvalidShape, "odd size %d", v.rows)
	}
	h := v.rows / 2
	return [4]View{
		v.sub(0, 0, h, h),
		v.sub(0, h, h, h),
		v.sub(h, 0, h, h),
		v.sub(h, h, h, h),
	}, nil
}

// sub returns a rows×cols window starting at logical (row, col).
func (v View) sub(row, col, rows, cols int) View {
	q := v
	q.rows, q.cols = rows, cols
	q.rowOffset += row
	q.colOffset += col
	return q
}

// Add returns the elementwise sum as a Plain view over a new buffer.
//
// Returns:
//   - View: The sum.
//   - error: ErrDimensionMismatch unless both views have the same shape.
func (v View) Add(other View) (View, error) {
	if v.rows != other.rows || v.cols != other.cols {
		return View{}, shapeMismatch("View.Add", v.rows, v.cols, other.rows, other.cols)
	}
	return combine(v, other, 1), nil
}

// Sub returns the elementwise difference as a Plain view over a new buffer.
//
// Returns:
//   - View: The difference.
//   - error: ErrDimensionMismatch unless both views have the same shape.
func (v View) Sub(other View) (View, error) {
	if v.rows != other.rows || v.cols != other.cols {
		return View{}, shapeMismatch("View.Sub", v.rows, v.cols, other.rows, other.cols)
	}
	return combine(v, other, -1), nil
}

// combine materializes a + sign*b for two views of the same shape.
func combine(a, b View, sign float64) View {
	out := make([]float64, a.rows*a.cols)
	if a.contiguous() && b.contiguous() {
		for i := range out {
			out[i] = a.data[i] + sign*b.data[i]
		}
	} else {
		for i := 0; i < a.rows; i++ {
			base := i * a.cols
			for j := 0; j < a.cols; j++ {
				out[base+j] = a.at(i, j) + sign*b.at(i, j)
			}
		}
	}
	recordAllocation(allocElementwise)
	return plainView(out, a.rows, a.cols)
}

// ToMatrix materializes the rectangle [rowStart, rowEnd) × [colStart, colEnd)
// into a new owning Matrix.
//
// Returns:
//   - *Matrix: The materialized sub-rectangle.
//   - error: ErrIndexOutOfRange if the range is empty, inverted, or reaches
//     outside the view.
func (v View) ToMatrix(rowStart, rowEnd, colStart, colEnd int) (*Matrix, error) {
	if rowStart < 0 || colStart < 0 || rowEnd > v.rows || colEnd > v.cols ||
		rowStart >= rowEnd || colStart >= colEnd {
		return nil, opErrorf("View.ToMatrix", ErrIndexOutOfRange,
			"rows [%d,%d) cols [%d,%d) of %dx%d", rowStart, rowEnd, colStart, colEnd, v.rows, v.cols)
	}
	out := newMatrix(rowEnd-rowStart, colEnd-colStart)
	for i := rowStart; i < rowEnd; i++ {
		base := (i - rowStart) * out.cols
		for j := colStart; j < colEnd; j++ {
			out.data[base+j-colStart] = v.at(i, j)
		}
	}
	recordAllocation(allocMaterialize)
	return out, nil
}

// Materialize copies the whole view into a new owning Matrix. Unlike ToMatrix
// it accepts empty views.
func (v View) Materialize() *Matrix {
	out := newMatrix(v.rows, v.cols)
	for i := 0; i < v.rows; i++ {
		base := i * v.cols
		for j := 0; j < v.cols; j++ {
			out.data[base+j] = v.at(i, j)
		}
	}
	recordAllocation(allocMaterialize)
	return out
}
