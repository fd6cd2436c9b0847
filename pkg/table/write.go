package table

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes the table with the identifier column first.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}

	rec := make([]string, len(t.samples)+1)
	for i, id := range t.ids {
		rec[0] = id
		for j, v := range t.values[i] {
			rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
