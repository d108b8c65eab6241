package matrix

// Matrix is an owning, row-major matrix of float64 values.
//
// The backing buffer always holds exactly rows*cols values. Views created from
// a Matrix share this buffer without copying; the buffer is reclaimed once the
// Matrix and every View derived from it are unreachable. A Matrix is mutated
// only through Set and SetData; callers that mutate a matrix while views over
// it are being read must provide their own synchronization.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New allocates a zero-filled rows×cols matrix.
//
// Parameters:
//   - rows: The number of rows (>= 0).
//   - cols: The number of columns (>= 0).
//
// Returns:
//   - *Matrix: The new matrix.
//   - error: ErrInvalidShape if a dimension is negative.
func New(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, opErrorf("New", ErrInvalidShape, "%dx%d", rows, cols)
	}
	return newMatrix(rows, cols), nil
}

// newMatrix allocates without validation; callers guarantee rows, cols >= 0.
func newMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewFromRows builds a matrix from a rectangular grid of rows.
// The grid is copied. A nil or empty grid yields a 0×0 matrix.
//
// Returns:
//   - *Matrix: The new matrix.
//   - error: ErrDimensionMismatch if the rows have different lengths.
func NewFromRows(grid [][]float64) (*Matrix, error) {
	if len(grid) == 0 {
		return newMatrix(0, 0), nil
	}
	m := newMatrix(len(grid), len(grid[0]))
	if err := m.SetData(grid); err != nil {
		return nil, err
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (rows, cols int) { return m.rows, m.cols }

func (m *Matrix) inBounds(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

// At returns the element at (row, col).
//
// Returns:
//   - float64: The stored value.
//   - error: ErrIndexOutOfRange if (row, col) is outside the matrix.
func (m *Matrix) At(row, col int) (float64, error) {
	if !m.inBounds(row, col) {
		return 0, indexError("At", row, col, m.rows, m.cols)
	}
	return m.data[row*m.cols+col], nil
}

// Set stores v at (row, col).
//
// Returns:
//   - error: ErrIndexOutOfRange if (row, col) is outside the matrix.
func (m *Matrix) Set(row, col int, v float64) error {
	if !m.inBounds(row, col) {
		return indexError("Set", row, col, m.rows, m.cols)
	}
	m.data[row*m.cols+col] = v
	return nil
}

// SetData bulk-loads the matrix from a grid of exactly Rows() rows of Cols()
// values each. Validation happens before any element is written, so a failed
// load leaves the matrix untouched.
//
// Returns:
//   - error: ErrDimensionMismatch if the grid shape differs from the matrix.
func (m *Matrix) SetData(grid [][]float64) error {
	if len(grid) != m.rows {
		return opErrorf("SetData", ErrDimensionMismatch, "got %d rows, want %d", len(grid), m.rows)
	}
	for i, row := range grid {
		if len(row) != m.cols {
			return opErrorf("SetData", ErrDimensionMismatch, "row %d has %d values, want %d", i, len(row), m.cols)
		}
	}
	for i, row := range grid {
		copy(m.data[i*m.cols:(i+1)*m.cols], row)
	}
	return nil
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	out := newMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Transpose returns a new matrix with rows and columns swapped.
// It runs in O(rows*cols) and does not modify the receiver.
func (m *Matrix) Transpose() *Matrix {
	out := newMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		base := i * m.cols
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.data[base+j]
		}
	}
	return out
}

// View returns a Plain view over the whole matrix. O(1), shares the buffer.
func (m *Matrix) View() View {
	return View{
		data:   m.data,
		kind:   Plain,
		rows:   m.rows,
		cols:   m.cols,
		stride: m.cols,
	}
}

// TransposeView returns a Transposed view of the matrix in O(1).
// The view is Cols()×Rows() and shares the buffer: its stride is the
// original column count, i.e. the transposed view's own row count.
func (m *Matrix) TransposeView() View {
	return View{
		data:   m.data,
		kind:   Transposed,
		rows:   m.cols,
		cols:   m.rows,
		stride: m.cols,
	}
}

// SquareView returns a Padded view of the matrix sized to the smallest power
// of two that covers its larger dimension. Reads beyond the real data return
// 0.0; no padding is allocated.
//
// A 0×0 matrix has no power-of-two cover and yields an empty Padded view.
func (m *Matrix) SquareView() View {
	n := m.rows
	if m.rows < m.cols {
		n = m.cols
	}
	if n < 1 {
		return m.paddedView(0)
	}
	target, _ := NextPowerOfTwo(n)
	return m.paddedView(target)
}

// paddedView returns an n×n Padded view over the matrix. n must be at least
// max(rows, cols).
func (m *Matrix) paddedView(n int) View {
	return View{
		data:       m.data,
		kind:       Padded,
		rows:       n,
		cols:       n,
		stride:     m.cols,
		parentRows: m.rows,
		parentCols: m.cols,
	}
}

// Add returns the elementwise sum m + other as a new matrix.
//
// Returns:
//   - *Matrix: The sum.
//   - error: ErrDimensionMismatch unless both shapes are identical.
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	if m.rows != other.rows || m.cols != other.cols {
		return nil, shapeMismatch("Add", m.rows, m.cols, other.rows, other.cols)
	}
	out := newMatrix(m.rows, m.cols)
	for i := range out.data {
		out.data[i] = m.data[i] + other.data[i]
	}
	recordAllocation(allocElementwise)
	return out, nil
}

// Sub returns the elementwise difference m - other as a new matrix.
//
// Returns:
//   - *Matrix: The difference.
//   - error: ErrDimensionMismatch unless both shapes are identical.
func (m *Matrix) Sub(other *Matrix) (*Matrix, error) {
	if m.rows != other.rows || m.cols != other.cols {
		return nil, shapeMismatch("Sub", m.rows, m.cols, other.rows, other.cols)
	}
	out := newMatrix(m.rows, m.cols)
	for i := range out.data {
		out.data[i] = m.data[i] - other.data[i]
	}
	recordAllocation(allocElementwise)
	return out, nil
}

// Scale returns s*m as a new matrix.
func (m *Matrix) Scale(s float64) *Matrix {
	out := newMatrix(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = v * s
	}
	return out
}

// Equal reports whether both matrices have the same shape and identical
// elements.
func (m *Matrix) Equal(other *Matrix) bool {
	return m.ApproxEqual(other, 0)
}

// ApproxEqual reports whether both matrices have the same shape and every
// pair of elements differs by at most tol.
func (m *Matrix) ApproxEqual(other *Matrix, tol float64) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		d := v - other.data[i]
		if d < -tol || d > tol {
			return false
		}
	}
	return true
}

// NextPowerOfTwo returns the smallest power of two >= n using bit doubling.
//
// Returns:
//   - int: The power of two.
//   - error: ErrInvalidShape if n < 1.
func NextPowerOfTwo(n int) (int, error) {
	if n < 1 {
		return 0, opErrorf("NextPowerOfTwo", ErrInvalidShape, "n=%d", n)
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n, nil
}
