package matrix

import "math/rand"

// NewRandom returns a rows×cols matrix of values drawn uniformly from
// [-1, 1) using rng. The same seed always yields the same matrix.
//
// Parameters:
//   - rows, cols: The shape. Both must be non-negative.
//   - rng: The source of randomness.
//
// Returns:
//   - *Matrix: The random matrix.
//   - error: ErrInvalidShape if a dimension is negative.
func NewRandom(rows, cols int, rng *rand.Rand) (*Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = rng.Float64()*2 - 1
	}
	return m, nil
}
