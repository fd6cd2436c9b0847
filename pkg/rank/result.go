// Package rank implements the gene ranking methods and the registry that
// names them.
package rank

import (
	"encoding/csv"
	"io"
	"strconv"
)

// RankingColumn is the name of the score column in every result.
const RankingColumn = "ranking"

// Score is the ranking value of one gene.
type Score struct {
	ID    string
	Value float64
}

// Result holds one score per gene in merged (identifier-ascending) order.
type Result struct {
	IDColumn string
	Scores   []Score
}

// Values returns the scores without identifiers.
func (r *Result) Values() []float64 {
	out := make([]float64, len(r.Scores))
	for i, s := range r.Scores {
		out[i] = s.Value
	}
	return out
}

// WriteCSV writes the two-column result table.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{r.IDColumn, RankingColumn}); err != nil {
		return err
	}
	for _, s := range r.Scores {
		if err := cw.Write([]string{s.ID, strconv.FormatFloat(s.Value, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
