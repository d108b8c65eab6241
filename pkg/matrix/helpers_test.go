package matrix

import (
	"math/rand"
	"testing"
)

// mustFromRows builds a matrix from a literal grid or fails the test.
func mustFromRows(t testing.TB, grid [][]float64) *Matrix {
	t.Helper()
	m, err := NewFromRows(grid)
	if err != nil {
		t.Fatalf("NewFromRows: %v", err)
	}
	return m
}

// randomMatrix fills a rows×cols matrix from rng. Integer matrices hold
// values in [-5, 5] so that every Strassen intermediate stays exact.
func randomMatrix(rng *rand.Rand, rows, cols int, integer bool) *Matrix {
	m := newMatrix(rows, cols)
	for i := range m.data {
		if integer {
			m.data[i] = float64(rng.Intn(11) - 5)
		} else {
			m.data[i] = rng.Float64()*2 - 1
		}
	}
	return m
}

// gridOf reads every element of a view into a grid.
func gridOf(v View) [][]float64 {
	out := make([][]float64, v.Rows())
	for i := range out {
		out[i] = make([]float64, v.Cols())
		for j := range out[i] {
			out[i][j], _ = v.At(i, j)
		}
	}
	return out
}
