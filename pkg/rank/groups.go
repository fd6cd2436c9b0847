package rank

import (
	"github.com/yumyai/generanker/pkg/dataset"
	"github.com/yumyai/generanker/pkg/errs"
	"github.com/yumyai/generanker/pkg/table"
)

// aligned syncs d and returns its case and control views, which then hold the
// same genes in the same order. Either side being empty is an error.
func aligned(d *dataset.Dual) (*table.Table, *table.Table, error) {
	if err := d.Sync(); err != nil {
		return nil, nil, err
	}

	caseTable, err := d.Case()
	if err != nil {
		return nil, nil, err
	}
	controlTable, err := d.Control()
	if err != nil {
		return nil, nil, err
	}

	if caseTable.Len() == 0 || caseTable.Width() == 0 {
		return nil, nil, errs.Emptyf("case matrix is empty")
	}
	if controlTable.Len() == 0 || controlTable.Width() == 0 {
		return nil, nil, errs.Emptyf("control matrix is empty")
	}
	return caseTable, controlTable, nil
}

// perGene scores every aligned row pair with score.
func perGene(d *dataset.Dual, score func(caseRow, controlRow []float64) float64) (*Result, error) {
	caseTable, controlTable, err := aligned(d)
	if err != nil {
		return nil, err
	}

	res := &Result{IDColumn: d.On(), Scores: make([]Score, caseTable.Len())}
	for i := range res.Scores {
		res.Scores[i] = Score{
			ID:    caseTable.ID(i),
			Value: score(caseTable.Row(i), controlTable.Row(i)),
		}
	}
	return res, nil
}
