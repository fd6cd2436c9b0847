package rank

import (
	"context"

	"github.com/yumyai/generanker/pkg/dataset"
	"github.com/yumyai/generanker/pkg/external"
	"github.com/yumyai/generanker/pkg/table"
)

// ShrinkageEstimator fits a differential expression model to a genes ×
// samples count table and returns one shrunk log fold change per gene.
// *external.DESeq2 implements it.
type ShrinkageEstimator interface {
	ShrunkLFC(ctx context.Context, counts *table.Table, caseSamples, controlSamples []string) ([]external.Estimate, error)
}

// Shrinkage returns a method that ranks genes by est's shrunk effect size.
// The merged table is converted back to integer counts first.
func Shrinkage(est ShrinkageEstimator) Func {
	return func(ctx context.Context, d *dataset.Dual, _ Args) (*Result, error) {
		if _, _, err := aligned(d); err != nil {
			return nil, err
		}
		merged, err := d.Merged()
		if err != nil {
			return nil, err
		}

		estimates, err := est.ShrunkLFC(ctx, merged.Map(table.ToCount), d.CaseSamples(), d.ControlSamples())
		if err != nil {
			return nil, err
		}
		return fromEstimates(d.On(), estimates), nil
	}
}
