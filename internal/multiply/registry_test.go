package multiply

import (
	"context"
	"testing"

	"github.com/agbru/matcalc/pkg/matrix"
)

func TestFactory_List(t *testing.T) {
	t.Parallel()
	got := NewDefaultFactory().List()
	want := []string{"naive", "parallel", "strassen"}
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFactory_Get(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()

	first, err := f.Get("strassen")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, _ := f.Get("strassen")
	if first != second {
		t.Error("Get returned a new instance for a cached name")
	}
	if first.Name() != "strassen" {
		t.Errorf("Name = %q, want strassen", first.Name())
	}
	if _, err := f.Get("winograd"); err == nil {
		t.Error("Get(unknown) returned no error")
	}
}

type constantCore struct{ value float64 }

func (constantCore) Name() string { return "constant" }

func (c constantCore) multiplyCore(_ context.Context, _ matrix.ProgressReporter,
	a, b *matrix.Matrix, _ matrix.Options) (*matrix.Matrix, error) {
	m, err := matrix.New(a.Rows(), b.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < b.Cols(); j++ {
			_ = m.Set(i, j, c.value)
		}
	}
	return m, nil
}

func TestFactory_RegisterReplacesCachedInstance(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	f.Register("constant", func() coreMultiplier { return constantCore{value: 1} })
	before, _ := f.Get("constant")

	f.Register("constant", func() coreMultiplier { return constantCore{value: 2} })
	after, _ := f.Get("constant")
	if before == after {
		t.Fatal("re-registering did not drop the cached instance")
	}

	a, _ := matrix.New(1, 1)
	got, err := after.Multiply(context.Background(), nil, 0, a, a, matrix.Options{})
	if err != nil {
		t.Fatalf("Multiply: %v", err)
	}
	if v, _ := got.At(0, 0); v != 2 {
		t.Errorf("At(0,0) = %v, want 2", v)
	}
}

func TestFactory_Select(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()

	all, err := f.Select("all")
	if err != nil {
		t.Fatalf("Select(all): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Select(all) returned %d multipliers, want 3", len(all))
	}

	one, err := f.Select("naive")
	if err != nil || len(one) != 1 || one[0].Name() != "naive" {
		t.Errorf("Select(naive) = %v, %v", one, err)
	}

	if _, err := f.Select("fft"); err == nil {
		t.Error("Select(fft) returned no error")
	}
}
