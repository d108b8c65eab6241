package matrix

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// shapeString renders the shape of the product m×k · k×n.
func shapeString(m, k, n int) string {
	return fmt.Sprintf("%dx%d*%dx%d", m, k, k, n)
}

// String renders the matrix one row per line with space-separated values.
func (m *Matrix) String() string {
	var sb strings.Builder
	_ = m.Display(&sb)
	return sb.String()
}

// Display writes the matrix to w, one row per line. Values use the shortest
// representation that round-trips.
//
// Parameters:
//   - w: The destination writer.
//
// Returns:
//   - error: The first write error.
func (m *Matrix) Display(w io.Writer) error {
	buf := make([]byte, 0, 32)
	for i := 0; i < m.rows; i++ {
		buf = buf[:0]
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, m.data[i*m.cols+j], 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// String describes the view without reading its elements.
func (v View) String() string {
	return fmt.Sprintf("View{%s %dx%d off=(%d,%d) stride=%d}",
		v.kind, v.rows, v.cols, v.rowOffset, v.colOffset, v.stride)
}
