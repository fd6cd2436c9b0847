package rank

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/yumyai/generanker/pkg/dataset"
)

// DefaultEpsilon replaces a zero signal-to-noise denominator.
const DefaultEpsilon = 1e-5

// SignalToNoise scores each gene with
//
//	(mean(case) − mean(control)) / (sd(case) + sd(control))
//
// using sample standard deviations. A group with a single sample has sd 0.
// When both deviations are zero the denominator is the "epsilon" option.
func SignalToNoise(_ context.Context, d *dataset.Dual, args Args) (*Result, error) {
	epsilon := DefaultEpsilon
	if _, ok := args["epsilon"]; ok {
		v, err := args.Float("epsilon")
		if err != nil {
			return nil, err
		}
		epsilon = v
	}

	return perGene(d, func(caseRow, controlRow []float64) float64 {
		caseMean, caseSD := meanSD(caseRow)
		controlMean, controlSD := meanSD(controlRow)

		noise := caseSD + controlSD
		if noise == 0 {
			noise = epsilon
		}
		return (caseMean - controlMean) / noise
	})
}

func meanSD(x []float64) (mean, sd float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}
