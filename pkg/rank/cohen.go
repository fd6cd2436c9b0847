package rank

import (
	"context"

	"github.com/yumyai/generanker/pkg/dataset"
	"github.com/yumyai/generanker/pkg/external"
	"github.com/yumyai/generanker/pkg/table"
)

// CohenEstimator computes Cohen's d per gene for aligned case and control tables.
// *external.FastCohen implements it.
type CohenEstimator interface {
	CohenD(ctx context.Context, caseTable, controlTable *table.Table) ([]external.Estimate, error)
}

// CohenD returns a method that delegates the effect size to est.
func CohenD(est CohenEstimator) Func {
	return func(ctx context.Context, d *dataset.Dual, _ Args) (*Result, error) {
		caseTable, controlTable, err := aligned(d)
		if err != nil {
			return nil, err
		}

		estimates, err := est.CohenD(ctx, caseTable, controlTable)
		if err != nil {
			return nil, err
		}
		return fromEstimates(d.On(), estimates), nil
	}
}

func fromEstimates(idColumn string, estimates []external.Estimate) *Result {
	res := &Result{IDColumn: idColumn, Scores: make([]Score, len(estimates))}
	for i, e := range estimates {
		res.Scores[i] = Score{ID: e.ID, Value: e.Value}
	}
	return res
}
