package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewView(t *testing.T) {
	t.Parallel()
	data := []float64{1, 2, 3, 4, 5, 6}

	v, err := NewView(data, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Plain, v.Kind())
	assert.Equal(t, 3, v.Stride())
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, gridOf(v))

	_, err = NewView(data, 3, 3)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = NewView(data, -1, 3)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestViewAtBounds(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	for _, v := range []View{m.View(), m.TransposeView(), m.SquareView()} {
		r, c := v.Dims()
		_, err := v.At(r, 0)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "%s row overflow", v.Kind())
		_, err = v.At(0, c)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "%s col overflow", v.Kind())
		_, err = v.At(-1, 0)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "%s negative row", v.Kind())
	}
}

func TestSplitPlain(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	})
	q, err := m.View().Split()
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{1, 2}, {5, 6}}, gridOf(q[0]))
	assert.Equal(t, [][]float64{{3, 4}, {7, 8}}, gridOf(q[1]))
	assert.Equal(t, [][]float64{{9, 10}, {13, 14}}, gridOf(q[2]))
	assert.Equal(t, [][]float64{{11, 12}, {15, 16}}, gridOf(q[3]))

	for _, quad := range q {
		assert.Equal(t, 4, quad.Stride(), "quadrants keep the parent stride")
	}
	row, col := q[3].Offsets()
	assert.Equal(t, 2, row)
	assert.Equal(t, 2, col)

	// Second-level split composes offsets.
	qq, err := q[3].Split()
	require.NoError(t, err)
	v, err := qq[2].At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 15.0, v)
}

func TestSplitTransposed(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	})
	q, err := m.TransposeView().Split()
	require.NoError(t, err)
	for _, quad := range q {
		assert.Equal(t, Transposed, quad.Kind())
	}
	assert.Equal(t, [][]float64{{9, 13}, {10, 14}}, gridOf(q[1]))
	assert.Equal(t, [][]float64{{3, 7}, {4, 8}}, gridOf(q[2]))
}

func TestSplitPaddedStaysPadded(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	q, err := m.SquareView().Split()
	require.NoError(t, err)
	for _, quad := range q {
		assert.Equal(t, Padded, quad.Kind())
	}
	assert.Equal(t, [][]float64{{1, 2}, {4, 5}}, gridOf(q[0]))
	assert.Equal(t, [][]float64{{3, 0}, {6, 0}}, gridOf(q[1]))
	assert.Equal(t, [][]float64{{7, 8}, {0, 0}}, gridOf(q[2]))
	assert.Equal(t, [][]float64{{9, 0}, {0, 0}}, gridOf(q[3]))
}

func TestSplitErrors(t *testing.T) {
	t.Parallel()
	rect := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	_, err := rect.View().Split()
	assert.ErrorIs(t, err, ErrInvalidShape)

	odd := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	_, err = odd.View().Split()
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestSplitMergeIdentity(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	})
	op := NewOperator(Options{})
	for _, v := range []View{m.View(), m.TransposeView()} {
		q, err := v.Split()
		require.NoError(t, err)
		top, err := op.MergeSideToSide(q[0], q[1])
		require.NoError(t, err)
		bottom, err := op.MergeSideToSide(q[2], q[3])
		require.NoError(t, err)
		merged, err := op.MergeTopBottom(top, bottom)
		require.NoError(t, err)
		assert.Equal(t, gridOf(v), gridOf(merged), "%s view", v.Kind())
	}
}

func TestViewAddSub(t *testing.T) {
	t.Parallel()
	a := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustFromRows(t, [][]float64{{10, 20}, {30, 40}})

	sum, err := a.View().Add(b.TransposeView())
	require.NoError(t, err)
	assert.Equal(t, Plain, sum.Kind())
	assert.Equal(t, [][]float64{{11, 32}, {23, 44}}, gridOf(sum))

	diff, err := b.View().Sub(a.View())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{9, 18}, {27, 36}}, gridOf(diff))

	c := mustFromRows(t, [][]float64{{1, 2, 3}})
	_, err = a.View().Add(c.View())
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = a.View().Sub(c.View())
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestToMatrix(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	v := m.SquareView()

	sub, err := v.ToMatrix(0, 2, 1, 3)
	require.NoError(t, err)
	assert.True(t, sub.Equal(mustFromRows(t, [][]float64{{2, 3}, {5, 6}})))

	withPad, err := v.ToMatrix(1, 4, 2, 4)
	require.NoError(t, err)
	assert.True(t, withPad.Equal(mustFromRows(t, [][]float64{{6, 0}, {0, 0}, {0, 0}})))

	bad := [][4]int{
		{0, 5, 0, 1},  // past the end
		{-1, 1, 0, 1}, // negative start
		{1, 1, 0, 1},  // empty
		{2, 1, 0, 1},  // inverted
		{0, 1, 3, 2},  // inverted cols
	}
	for _, r := range bad {
		_, err := v.ToMatrix(r[0], r[1], r[2], r[3])
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "range %v", r)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "transposed", Transposed.String())
	assert.Equal(t, "padded", Padded.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
