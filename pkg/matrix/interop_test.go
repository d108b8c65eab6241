package matrix

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDenseRoundTrip(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	d := m.Dense()
	require.NotNil(t, d)
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 6.0, d.At(1, 2))

	d.Set(0, 0, 99)
	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v, "Dense must copy the buffer")

	back := FromDense(d.T())
	assert.True(t, back.Equal(mustFromRows(t, [][]float64{{99, 4}, {2, 5}, {3, 6}})))

	empty, _ := New(0, 3)
	assert.Nil(t, empty.Dense())
}

// gonum's BLAS-backed product is an independent oracle for Strassen.
func TestStrassenAgainstGonum(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(77))
	op := NewOperator(Options{Threshold: 8})
	shapes := []struct{ m, k, n int }{
		{17, 31, 13},
		{64, 64, 64},
		{70, 9, 65},
	}
	for _, s := range shapes {
		a := randomMatrix(rng, s.m, s.k, false)
		b := randomMatrix(rng, s.k, s.n, false)

		var want mat.Dense
		want.Mul(a.Dense(), b.Dense())

		got, err := op.Matmul(a, b)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(got.Dense(), &want, 1e-9), "%dx%d*%dx%d", s.m, s.k, s.k, s.n)
	}
}
