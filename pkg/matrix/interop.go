package matrix

import "gonum.org/v1/gonum/mat"

// Dense copies the matrix into a gonum dense matrix. A matrix with a zero
// dimension has no gonum equivalent and yields nil.
func (m *Matrix) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return nil
	}
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return mat.NewDense(m.rows, m.cols, data)
}

// FromDense copies any gonum matrix into a new owning Matrix.
//
// Parameters:
//   - a: The source matrix.
//
// Returns:
//   - *Matrix: The copy.
func FromDense(a mat.Matrix) *Matrix {
	r, c := a.Dims()
	out := newMatrix(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = a.At(i, j)
		}
	}
	return out
}
