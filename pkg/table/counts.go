package table

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ToCount inverts the log2(x+1) transform and rounds to the nearest integer,
// half to even. Negative results from rounding noise are clipped to zero.
func ToCount(v float64) float64 {
	c := math.RoundToEven(math.Exp2(v) - 1)
	if c <= 0 || math.IsNaN(c) {
		return 0
	}
	return c
}

// FromCount applies log2(x+1).
func FromCount(c float64) float64 {
	return math.Log2(c + 1)
}

// Counts converts the table to a genes × samples count matrix. It returns nil
// for a table with no rows or no samples, which gonum cannot represent.
func (t *Table) Counts() *mat.Dense {
	if len(t.ids) == 0 || len(t.samples) == 0 {
		return nil
	}

	data := make([]float64, 0, len(t.ids)*len(t.samples))
	for _, row := range t.values {
		for _, v := range row {
			data = append(data, ToCount(v))
		}
	}
	return mat.NewDense(len(t.ids), len(t.samples), data)
}

// FromCounts builds a log-space table shaped like t from a genes × samples
// count matrix.
func (t *Table) FromCounts(m mat.Matrix) (*Table, error) {
	r, c := m.Dims()
	if r != len(t.ids) || c != len(t.samples) {
		return nil, errShape(r, c, len(t.ids), len(t.samples))
	}

	out := t.Clone()
	for i := range out.values {
		for j := range out.values[i] {
			out.values[i][j] = FromCount(m.At(i, j))
		}
	}
	return out, nil
}

func errShape(r, c, wantR, wantC int) error {
	return fmt.Errorf("count matrix is %dx%d, expected %dx%d", r, c, wantR, wantC)
}
