package matrix

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		rows, cols int
		wantErr    error
	}{
		{"square", 3, 3, nil},
		{"rectangular", 2, 5, nil},
		{"empty", 0, 0, nil},
		{"zero rows", 0, 4, nil},
		{"negative rows", -1, 2, ErrInvalidShape},
		{"negative cols", 2, -3, ErrInvalidShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := New(tt.rows, tt.cols)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New(%d, %d) error = %v, want %v", tt.rows, tt.cols, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if r, c := m.Dims(); r != tt.rows || c != tt.cols {
				t.Errorf("Dims() = %dx%d, want %dx%d", r, c, tt.rows, tt.cols)
			}
			for i := 0; i < tt.rows; i++ {
				for j := 0; j < tt.cols; j++ {
					if v, _ := m.At(i, j); v != 0 {
						t.Fatalf("At(%d,%d) = %v, want zero fill", i, j, v)
					}
				}
			}
		})
	}
}

func TestAtSetBounds(t *testing.T) {
	t.Parallel()
	m, _ := New(2, 3)
	if err := m.Set(1, 2, 7.5); err != nil {
		t.Fatalf("Set in bounds failed: %v", err)
	}
	if v, err := m.At(1, 2); err != nil || v != 7.5 {
		t.Errorf("At(1,2) = %v, %v; want 7.5", v, err)
	}

	for _, idx := range [][2]int{{2, 0}, {0, 3}, {-1, 0}, {0, -1}} {
		if _, err := m.At(idx[0], idx[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("At(%d,%d) error = %v, want ErrIndexOutOfRange", idx[0], idx[1], err)
		}
		if err := m.Set(idx[0], idx[1], 1); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Set(%d,%d) error = %v, want ErrIndexOutOfRange", idx[0], idx[1], err)
		}
	}
}

func TestSetDataValidatesBeforeWriting(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})

	if err := m.SetData([][]float64{{9, 9}, {9}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("ragged grid error = %v, want ErrDimensionMismatch", err)
	}
	if err := m.SetData([][]float64{{9, 9}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("short grid error = %v, want ErrDimensionMismatch", err)
	}
	if !m.Equal(mustFromRows(t, [][]float64{{1, 2}, {3, 4}})) {
		t.Errorf("failed SetData modified the matrix: %v", m)
	}

	if err := m.SetData([][]float64{{5, 6}, {7, 8}}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	if v, _ := m.At(1, 0); v != 7 {
		t.Errorf("At(1,0) = %v, want 7", v)
	}
}

func TestNewFromRowsRagged(t *testing.T) {
	t.Parallel()
	if _, err := NewFromRows([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	m, err := NewFromRows(nil)
	if err != nil || m.Rows() != 0 || m.Cols() != 0 {
		t.Errorf("NewFromRows(nil) = %v, %v; want empty matrix", m, err)
	}
}

func TestTranspose(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	want := mustFromRows(t, [][]float64{{1, 4}, {2, 5}, {3, 6}})

	tr := m.Transpose()
	if !tr.Equal(want) {
		t.Errorf("Transpose() =\n%vwant\n%v", tr, want)
	}
	if !tr.Transpose().Equal(m) {
		t.Error("Transpose is not an involution")
	}

	tv := m.TransposeView()
	if tv.Kind() != Transposed || tv.Rows() != 3 || tv.Cols() != 2 || tv.Stride() != 3 {
		t.Fatalf("TransposeView() = %v", tv)
	}
	if !tv.Materialize().Equal(want) {
		t.Errorf("TransposeView materialized to\n%v", tv.Materialize())
	}
}

func TestTransposeViewSharesBuffer(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	tv := m.TransposeView()
	_ = m.Set(0, 1, 42)
	if v, _ := tv.At(1, 0); v != 42 {
		t.Errorf("view did not observe write to shared buffer: got %v", v)
	}
}

func TestSquareView(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rows, cols, want int
	}{
		{15, 23, 32},
		{42, 42, 64},
		{8, 8, 8},
		{23, 15, 32},
		{1, 1, 1},
		{1, 3, 4},
	}
	rng := rand.New(rand.NewSource(7))
	for _, tt := range tests {
		m := randomMatrix(rng, tt.rows, tt.cols, true)
		v := m.SquareView()
		if v.Kind() != Padded || v.Rows() != tt.want || v.Cols() != tt.want {
			t.Errorf("SquareView of %dx%d = %v, want %dx%d padded", tt.rows, tt.cols, v, tt.want, tt.want)
			continue
		}
		for i := 0; i < tt.want; i++ {
			for j := 0; j < tt.want; j++ {
				got, err := v.At(i, j)
				if err != nil {
					t.Fatalf("At(%d,%d): %v", i, j, err)
				}
				want := 0.0
				if i < tt.rows && j < tt.cols {
					want, _ = m.At(i, j)
				}
				if got != want {
					t.Fatalf("%dx%d padded At(%d,%d) = %v, want %v", tt.rows, tt.cols, i, j, got, want)
				}
			}
		}
	}
}

func TestSquareViewEmpty(t *testing.T) {
	t.Parallel()
	m, _ := New(0, 0)
	v := m.SquareView()
	if v.Rows() != 0 || v.Cols() != 0 {
		t.Errorf("SquareView of empty matrix = %v", v)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 4}, {5, 8}, {15, 16}, {16, 16}, {17, 32}, {1000, 1024}, {1 << 20, 1 << 20},
	}
	for _, tt := range tests {
		got, err := NextPowerOfTwo(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []int{0, -4} {
		if _, err := NextPowerOfTwo(bad); !errors.Is(err, ErrInvalidShape) {
			t.Errorf("NextPowerOfTwo(%d) error = %v, want ErrInvalidShape", bad, err)
		}
	}
}

func TestAddSub(t *testing.T) {
	t.Parallel()
	a := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustFromRows(t, [][]float64{{10, 20}, {30, 40}})

	sum, err := a.Add(b)
	if err != nil || !sum.Equal(mustFromRows(t, [][]float64{{11, 22}, {33, 44}})) {
		t.Errorf("Add = %v, %v", sum, err)
	}
	diff, err := b.Sub(a)
	if err != nil || !diff.Equal(mustFromRows(t, [][]float64{{9, 18}, {27, 36}})) {
		t.Errorf("Sub = %v, %v", diff, err)
	}

	c, _ := New(2, 3)
	if _, err := a.Add(c); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Add mismatch error = %v", err)
	}
	if _, err := a.Sub(c); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Sub mismatch error = %v", err)
	}
}

func TestCloneScaleEqual(t *testing.T) {
	t.Parallel()
	a := mustFromRows(t, [][]float64{{1, -2}, {0.5, 4}})
	c := a.Clone()
	_ = c.Set(0, 0, 100)
	if v, _ := a.At(0, 0); v != 1 {
		t.Error("Clone shares the buffer")
	}

	s := a.Scale(2)
	if !s.Equal(mustFromRows(t, [][]float64{{2, -4}, {1, 8}})) {
		t.Errorf("Scale(2) = %v", s)
	}

	near := mustFromRows(t, [][]float64{{1 + 1e-12, -2}, {0.5, 4}})
	if a.Equal(near) {
		t.Error("Equal should be exact")
	}
	if !a.ApproxEqual(near, 1e-9) {
		t.Error("ApproxEqual should accept a 1e-12 difference")
	}
	other, _ := New(2, 1)
	if a.ApproxEqual(other, 1) {
		t.Error("ApproxEqual must reject different shapes")
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1, 2.5}, {-3, 0}})
	var sb strings.Builder
	if err := m.Display(&sb); err != nil {
		t.Fatal(err)
	}
	if got, want := sb.String(), "1 2.5\n-3 0\n"; got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
	if m.String() != sb.String() {
		t.Error("String() and Display() disagree")
	}
}

func TestNewRandom(t *testing.T) {
	t.Parallel()
	a, err := NewRandom(5, 7, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	b, _ := NewRandom(5, 7, rand.New(rand.NewSource(42)))
	if !a.Equal(b) {
		t.Error("same seed produced different matrices")
	}
	for _, v := range a.data {
		if v < -1 || v >= 1 {
			t.Errorf("value %v outside [-1, 1)", v)
		}
	}
	if _, err := NewRandom(-1, 2, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("NewRandom(-1, 2) error = %v, want ErrInvalidShape", err)
	}
}
