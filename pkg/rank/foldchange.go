package rank

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/yumyai/generanker/pkg/dataset"
)

// FoldChange scores each gene with mean(case) − mean(control). Values are
// expected to be in log space already.
func FoldChange(_ context.Context, d *dataset.Dual, _ Args) (*Result, error) {
	return perGene(d, func(caseRow, controlRow []float64) float64 {
		return stat.Mean(caseRow, nil) - stat.Mean(controlRow, nil)
	})
}
