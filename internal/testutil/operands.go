package testutil

import (
	"math/rand"
	"testing"

	"github.com/agbru/matcalc/pkg/matrix"
)

// RandomOperands returns a rows×inner and an inner×cols matrix filled
// deterministically from seed.
//
// Parameters:
//   - t: The test, failed on construction errors.
//   - rows, inner, cols: The operand shapes.
//   - seed: The random source seed.
//
// Returns:
//   - *matrix.Matrix: The left operand.
//   - *matrix.Matrix: The right operand.
func RandomOperands(t testing.TB, rows, inner, cols int, seed int64) (*matrix.Matrix, *matrix.Matrix) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	a, err := matrix.NewRandom(rows, inner, rng)
	if err != nil {
		t.Fatalf("left operand: %v", err)
	}
	b, err := matrix.NewRandom(inner, cols, rng)
	if err != nil {
		t.Fatalf("right operand: %v", err)
	}
	return a, b
}
