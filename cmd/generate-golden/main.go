// Command generate-golden writes exact matrix products used by the
// pkg/matrix golden tests.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// GoldenCase is one product in the golden file. The operands are not
// stored: they are rebuilt from GoldenLeft and GoldenRight.
type GoldenCase struct {
	Rows    int       `json:"rows"`
	Inner   int       `json:"inner"`
	Cols    int       `json:"cols"`
	Product [][]int64 `json:"product"`
}

// Shapes cover odd sizes, exact powers of two and sizes just above them,
// so that every padding path of the Strassen recursion is exercised.
var shapes = [][3]int{
	{1, 1, 1},
	{2, 2, 2},
	{3, 5, 2},
	{7, 7, 7},
	{8, 8, 8},
	{9, 4, 3},
	{13, 9, 17},
	{16, 16, 16},
	{33, 20, 31},
}

func main() {
	outputDir := flag.String("out", "pkg/matrix/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "product_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	data := make([]GoldenCase, 0, len(shapes))
	for _, s := range shapes {
		data = append(data, GoldenCase{
			Rows:    s[0],
			Inner:   s[1],
			Cols:    s[2],
			Product: product(s[0], s[1], s[2]),
		})
		fmt.Printf("Generated %dx%d · %dx%d\n", s[0], s[1], s[1], s[2])
	}

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// GoldenLeft is the (i, j) entry of every left operand.
func GoldenLeft(i, j int) int64 { return int64((i*7+j*3)%11 - 5) }

// GoldenRight is the (i, j) entry of every right operand.
func GoldenRight(i, j int) int64 { return int64((i*5+j*2)%13 - 6) }

// product is the integer oracle: a plain triple loop, exact for these sizes.
func product(rows, inner, cols int) [][]int64 {
	out := make([][]int64, rows)
	for i := range out {
		out[i] = make([]int64, cols)
		for j := 0; j < cols; j++ {
			var sum int64
			for k := 0; k < inner; k++ {
				sum += GoldenLeft(i, k) * GoldenRight(k, j)
			}
			out[i][j] = sum
		}
	}
	return out
}
