package matrix_test

import (
	"fmt"

	"github.com/agbru/matcalc/pkg/matrix"
)

func ExampleOperator_Matmul() {
	a, _ := matrix.NewFromRows([][]float64{{1, 2}, {3, 4}})
	b, _ := matrix.NewFromRows([][]float64{{5, 6}, {7, 8}})

	op := matrix.NewOperator(matrix.Options{Threshold: 1})
	c, err := op.Matmul(a, b)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(c)
	// Output:
	// 19 22
	// 43 50
}

func ExampleMatrix_SquareView() {
	m, _ := matrix.New(15, 23)
	v := m.SquareView()
	fmt.Println(v.Kind(), v.Rows(), v.Cols())
	// Output: padded 32 32
}

func ExampleView_Split() {
	m, _ := matrix.NewFromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	q, _ := m.SquareView().Split()
	ur, _ := q[1].ToMatrix(0, 2, 0, 2)
	fmt.Print(ur)
	// Output:
	// 3 0
	// 6 0
}
