package rank

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/yumyai/generanker/pkg/dataset"
	"github.com/yumyai/generanker/pkg/table"
)

// Normalizer scales a samples × genes count matrix, keeping its shape.
// sizefactor.MedianOfRatios implements it.
type Normalizer interface {
	Normalize(counts *mat.Dense) (*mat.Dense, error)
}

// Normalize converts t from log2(x+1) space to counts, normalizes them with
// n and converts back. Row and column order are kept.
func Normalize(t *table.Table, n Normalizer) (*table.Table, error) {
	counts := t.Counts()
	if counts == nil {
		return t.Clone(), nil
	}

	bySample := mat.DenseCopyOf(counts.T())
	normalized, err := n.Normalize(bySample)
	if err != nil {
		return nil, fmt.Errorf("normalization failed: %w", err)
	}

	r, c := normalized.Dims()
	if wr, wc := bySample.Dims(); r != wr || c != wc {
		return nil, fmt.Errorf("normalization changed the matrix shape from %dx%d to %dx%d", wr, wc, r, c)
	}
	return t.FromCounts(normalized.T())
}

// Normalized runs the wrapped method on a normalized merged table.
func Normalized(n Normalizer) Middleware {
	return func(next Func) Func {
		return func(ctx context.Context, d *dataset.Dual, args Args) (*Result, error) {
			if err := d.Sync(); err != nil {
				return nil, err
			}
			merged, err := d.Merged()
			if err != nil {
				return nil, err
			}

			normalized, err := Normalize(merged, n)
			if err != nil {
				return nil, err
			}
			if err := d.SetMerged(normalized); err != nil {
				return nil, err
			}
			return next(ctx, d, args)
		}
	}
}
