package table

import (
	"github.com/yumyai/generanker/pkg/errs"
)

// InnerJoin joins left and right on their shared identifier column. Only
// identifiers present in both survive; the result is sorted by identifier and
// holds the left sample columns followed by the right ones.
func InnerJoin(left, right *Table) (*Table, error) {
	if left.idColumn != right.idColumn {
		return nil, errs.Configf("cannot join on %q and %q", left.idColumn, right.idColumn)
	}

	samples := make([]string, 0, len(left.samples)+len(right.samples))
	samples = append(samples, left.samples...)
	samples = append(samples, right.samples...)

	out, err := New(left.idColumn, samples)
	if err != nil {
		return nil, err
	}

	sorted := left.SortByID()
	for i, id := range sorted.ids {
		j, ok := right.Lookup(id)
		if !ok {
			continue
		}
		row := make([]float64, 0, len(samples))
		row = append(row, sorted.values[i]...)
		row = append(row, right.values[j]...)
		if err := out.AddRow(id, row); err != nil {
			return nil, err
		}
	}

	return out, nil
}
