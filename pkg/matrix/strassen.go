package matrix

import (
	"context"
	"fmt"
)

// strassen multiplies two n×n views, n a power of two, and returns the n×n
// product as a Plain view.
//
// The recursion:
//
//	P1 = (A11 + A22)(B11 + B22)
//	P2 = (A21 + A22)B11
//	P3 = A11(B12 - B22)
//	P4 = A22(B21 - B11)
//	P5 = (A11 + A12)B22
//	P6 = (A21 - A11)(B11 + B12)
//	P7 = (A12 - A22)(B21 + B22)
//
//	C11 = P1 + P4 - P5 + P7
//	C12 = P3 + P5
//	C21 = P2 + P4
//	C22 = P1 - P2 + P3 + P6
//
// Quadrants of A and B are zero-copy views; only the operand sums, the
// products and the merged result own new buffers.
//
// Parameters:
//   - ctx: Checked for cancellation before each step.
//   - a, b: The square operands.
//   - threshold: The base-case size.
//   - tracker: Progress accounting, may be nil.
//
// Returns:
//   - View: The product.
//   - error: A wrapped context error if the context is done.
func (o *Operator) strassen(ctx context.Context, a, b View, threshold int, tracker *progressTracker) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, fmt.Errorf("strassen canceled at size %d: %w", a.rows, err)
	}
	if a.rows <= threshold {
		c := naiveViews(a, b)
		strassenLeaves.Inc()
		tracker.leafDone()
		return c, nil
	}

	qa, err := a.Split()
	if err != nil {
		return View{}, err
	}
	qb, err := b.Split()
	if err != nil {
		return View{}, err
	}
	a11, a12, a21, a22 := qa[0], qa[1], qa[2], qa[3]
	b11, b12, b21, b22 := qb[0], qb[1], qb[2], qb[3]

	var p [7]View
	product := func(dst *View, left, right func() View) func() error {
		return func() error {
			c, err := o.strassen(ctx, left(), right(), threshold, tracker)
			if err != nil {
				return err
			}
			*dst = c
			return nil
		}
	}
	sum := func(x, y View) func() View { return func() View { return combine(x, y, 1) } }
	diff := func(x, y View) func() View { return func() View { return combine(x, y, -1) } }
	same := func(x View) func() View { return func() View { return x } }

	tasks := []func() error{
		product(&p[0], sum(a11, a22), sum(b11, b22)),
		product(&p[1], sum(a21, a22), same(b11)),
		product(&p[2], same(a11), diff(b12, b22)),
		product(&p[3], same(a22), diff(b21, b11)),
		product(&p[4], sum(a11, a12), same(b22)),
		product(&p[5], diff(a21, a11), sum(b11, b12)),
		product(&p[6], diff(a12, a22), sum(b21, b22)),
	}
	if err := o.executorFor(a.rows).Run(tasks); err != nil {
		return View{}, err
	}

	c11 := combine(combine(combine(p[0], p[3], 1), p[4], -1), p[6], 1)
	c12 := combine(p[2], p[4], 1)
	c21 := combine(p[1], p[3], 1)
	c22 := combine(combine(combine(p[0], p[1], -1), p[2], 1), p[5], 1)

	top, err := mergeSideToSide(c11, c12)
	if err != nil {
		return View{}, err
	}
	bottom, err := mergeSideToSide(c21, c22)
	if err != nil {
		return View{}, err
	}
	return mergeTopBottom(top, bottom)
}

// executorFor picks the executor for a recursion step of the given size.
func (o *Operator) executorFor(size int) Executor {
	if o.parallelThreshold > 0 && size > o.parallelThreshold {
		return o.exec
	}
	return Sequential{}
}

// naiveViews computes a·b with the triple loop. Shapes must already agree.
// Both paths accumulate each dot product in k order, so they produce
// bit-identical results.
func naiveViews(a, b View) View {
	v, _ := naiveViewsContext(context.Background(), a, b)
	return v
}

// naiveViewsContext is naiveViews with a cancellation check before each
// output row.
func naiveViewsContext(ctx context.Context, a, b View) (View, error) {
	m, k, n := a.rows, a.cols, b.cols
	out := make([]float64, m*n)
	contiguous := a.contiguous() && b.contiguous()
	for i := 0; i < m; i++ {
		if err := ctx.Err(); err != nil {
			return View{}, err
		}
		row := out[i*n : (i+1)*n]
		if contiguous {
			for p := 0; p < k; p++ {
				aik := a.data[i*k+p]
				if aik == 0 {
					continue
				}
				bp := b.data[p*n : (p+1)*n]
				for j, bv := range bp {
					row[j] += aik * bv
				}
			}
			continue
		}
		for j := 0; j < n; j++ {
			var sum float64
			for p := 0; p < k; p++ {
				sum += a.at(i, p) * b.at(p, j)
			}
			row[j] = sum
		}
	}
	recordAllocation(allocNaive)
	return plainView(out, m, n), nil
}

// mergeSideToSide concatenates v1 and v2 horizontally into one new buffer.
func mergeSideToSide(v1, v2 View) (View, error) {
	if v1.rows != v2.rows {
		return View{}, shapeMismatch("MergeSideToSide", v1.rows, v1.cols, v2.rows, v2.cols)
	}
	rows, width := v1.rows, v1.cols+v2.cols
	out := make([]float64, rows*width)
	for i := 0; i < rows; i++ {
		base := i * width
		for j := 0; j < v1.cols; j++ {
			out[base+j] = v1.at(i, j)
		}
		base += v1.cols
		for j := 0; j < v2.cols; j++ {
			out[base+j] = v2.at(i, j)
		}
	}
	recordAllocation(allocMerge)
	return plainView(out, rows, width), nil
}

// mergeTopBottom concatenates v1 and v2 vertically into one new buffer.
func mergeTopBottom(v1, v2 View) (View, error) {
	if v1.cols != v2.cols {
		return View{}, shapeMismatch("MergeTopBottom", v1.rows, v1.cols, v2.rows, v2.cols)
	}
	cols, height := v1.cols, v1.rows+v2.rows
	out := make([]float64, height*cols)
	for i := 0; i < v1.rows; i++ {
		base := i * cols
		for j := 0; j < cols; j++ {
			out[base+j] = v1.at(i, j)
		}
	}
	for i := 0; i < v2.rows; i++ {
		base := (v1.rows + i) * cols
		for j := 0; j < cols; j++ {
			out[base+j] = v2.at(i, j)
		}
	}
	recordAllocation(allocMerge)
	return plainView(out, height, cols), nil
}
