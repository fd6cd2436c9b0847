// Package table implements the expression table: rows keyed by a gene
// identifier column, with one numeric value per sample column.
package table

import (
	"fmt"
	"math"
	"sort"

	"github.com/yumyai/generanker/pkg/errs"
)

// Table is a row-major expression table. The identifier column is kept apart
// from the sample columns and is always reported first by Columns.
type Table struct {
	idColumn string
	samples  []string
	ids      []string
	values   [][]float64
	index    map[string]int
}

// New makes an empty table with the given identifier and sample columns.
func New(idColumn string, samples []string) (*Table, error) {
	if idColumn == "" {
		return nil, errs.Configf("identifier column name is empty")
	}

	seen := make(map[string]struct{}, len(samples))
	for _, s := range samples {
		if s == "" {
			return nil, errs.Configf("empty sample column name")
		}
		if s == idColumn {
			return nil, errs.Configf("sample column %q duplicates the identifier column", s)
		}
		if _, dup := seen[s]; dup {
			return nil, errs.Configf("duplicated column %q", s)
		}
		seen[s] = struct{}{}
	}

	return &Table{
		idColumn: idColumn,
		samples:  append([]string(nil), samples...),
		index:    make(map[string]int),
	}, nil
}

// AddRow appends a row. Identifiers must be unique within the table.
func (t *Table) AddRow(id string, values []float64) error {
	if len(values) != len(t.samples) {
		return fmt.Errorf("row %q has %d values, expected %d", id, len(values), len(t.samples))
	}
	if _, dup := t.index[id]; dup {
		return errs.Configf("duplicated identifier %q in column %q", id, t.idColumn)
	}

	t.index[id] = len(t.ids)
	t.ids = append(t.ids, id)
	t.values = append(t.values, append([]float64(nil), values...))
	return nil
}

// IDColumn returns the name of the identifier column.
func (t *Table) IDColumn() string { return t.idColumn }

// Samples returns the sample column names in order.
func (t *Table) Samples() []string { return append([]string(nil), t.samples...) }

// Columns returns the identifier column followed by the sample columns.
func (t *Table) Columns() []string {
	return append([]string{t.idColumn}, t.samples...)
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.ids) }

// Width is the number of sample columns.
func (t *Table) Width() int { return len(t.samples) }

// ID returns the identifier of row i.
func (t *Table) ID(i int) string { return t.ids[i] }

// IDs returns all identifiers in row order.
func (t *Table) IDs() []string { return append([]string(nil), t.ids...) }

// Row returns a copy of the values of row i.
func (t *Table) Row(i int) []float64 { return append([]float64(nil), t.values[i]...) }

// Lookup returns the row index of id.
func (t *Table) Lookup(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		idColumn: t.idColumn,
		samples:  append([]string(nil), t.samples...),
		ids:      append([]string(nil), t.ids...),
		values:   make([][]float64, len(t.values)),
		index:    make(map[string]int, len(t.index)),
	}
	for i, row := range t.values {
		out.values[i] = append([]float64(nil), row...)
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}

// SortByID returns a copy with rows ordered by identifier, ascending.
func (t *Table) SortByID() *Table {
	order := make([]int, len(t.ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.ids[order[a]] < t.ids[order[b]]
	})
	return t.reorder(order)
}

// Filter returns a copy holding only the rows for which keep is true.
func (t *Table) Filter(keep func(id string, row []float64) bool) *Table {
	order := make([]int, 0, len(t.ids))
	for i, id := range t.ids {
		if keep(id, t.values[i]) {
			order = append(order, i)
		}
	}
	return t.reorder(order)
}

func (t *Table) reorder(order []int) *Table {
	out := &Table{
		idColumn: t.idColumn,
		samples:  append([]string(nil), t.samples...),
		ids:      make([]string, len(order)),
		values:   make([][]float64, len(order)),
		index:    make(map[string]int, len(order)),
	}
	for dst, src := range order {
		out.ids[dst] = t.ids[src]
		out.values[dst] = append([]float64(nil), t.values[src]...)
		out.index[t.ids[src]] = dst
	}
	return out
}

// Select projects the table onto the given sample columns, in that order.
// The identifier column is always kept.
func (t *Table) Select(samples []string) (*Table, error) {
	pos := make(map[string]int, len(t.samples))
	for i, s := range t.samples {
		pos[s] = i
	}

	cols := make([]int, len(samples))
	for i, s := range samples {
		p, ok := pos[s]
		if !ok {
			return nil, errs.Configf("column %q not in table", s)
		}
		cols[i] = p
	}

	out, err := New(t.idColumn, samples)
	if err != nil {
		return nil, err
	}
	for r, id := range t.ids {
		row := make([]float64, len(cols))
		for i, c := range cols {
			row[i] = t.values[r][c]
		}
		out.ids = append(out.ids, id)
		out.values = append(out.values, row)
		out.index[id] = r
	}
	return out, nil
}

// Map returns a copy with f applied to every value.
func (t *Table) Map(f func(float64) float64) *Table {
	out := t.Clone()
	for _, row := range out.values {
		for j, v := range row {
			row[j] = f(v)
		}
	}
	return out
}

// Equal reports whether both tables have the same columns, the same row order
// and the same values. NaN compares equal to NaN.
func (t *Table) Equal(o *Table) bool {
	if t.idColumn != o.idColumn || len(t.samples) != len(o.samples) || len(t.ids) != len(o.ids) {
		return false
	}
	for i := range t.samples {
		if t.samples[i] != o.samples[i] {
			return false
		}
	}
	for i := range t.ids {
		if t.ids[i] != o.ids[i] {
			return false
		}
		for j, v := range t.values[i] {
			w := o.values[i][j]
			if v != w && !(math.IsNaN(v) && math.IsNaN(w)) {
				return false
			}
		}
	}
	return true
}

// SameColumns reports whether both tables hold the same set of columns,
// regardless of order.
func SameColumns(a, b *Table) bool {
	return containsAll(a.Columns(), b.Columns()) && containsAll(b.Columns(), a.Columns())
}

func containsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, c := range have {
		set[c] = struct{}{}
	}
	for _, c := range want {
		if _, ok := set[c]; !ok {
			return false
		}
	}
	return true
}
