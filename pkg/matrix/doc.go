// Package matrix provides dense float64 matrices and zero-copy views over
// their storage, together with an Operator that multiplies matrices of any
// shape using Strassen's divide-and-conquer algorithm.
//
// Storage model:
// A Matrix owns a row-major buffer of rows*cols values. Views never own
// storage: they describe a window into a buffer through a shape, a pair of
// offsets, an explicit stride and an addressing Kind:
//
//   - Plain:      (row, col) -> (row+rowOffset)*stride + col+colOffset
//   - Transposed: (row, col) -> (col+colOffset)*stride + row+rowOffset
//   - Padded:     like Plain inside the parent extent, 0.0 outside of it
//
// Views have no write path, so any number of them may alias the same buffer
// and be read from concurrently. A buffer stays alive as long as any Matrix
// or View refers to it.
//
// Multiplication:
// Operator.Matmul pads both operands to a common power-of-two square through
// Padded views (no copy), splits them into quadrant views (no copy), recurses
// on the seven Strassen products and stitches the quadrants back together.
// Each merge allocates exactly one buffer; the final result is sliced back to
// the caller's shape. Below Options.Threshold the naive O(n³) kernel is used.
// The seven products of a step are independent and may be dispatched to an
// Executor when the step is larger than Options.ParallelThreshold.
package matrix
