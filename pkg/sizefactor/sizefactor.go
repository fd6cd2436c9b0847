// Package sizefactor scales count matrices by per-sample size factors
// estimated with the median-of-ratios method.
package sizefactor

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MedianOfRatios normalizes a samples × genes count matrix.
type MedianOfRatios struct{}

// Normalize divides every row of counts by its sample's size factor.
// The result has the same shape and row order as counts.
func (MedianOfRatios) Normalize(counts *mat.Dense) (*mat.Dense, error) {
	factors, err := SizeFactors(counts)
	if err != nil {
		return nil, err
	}

	r, c := counts.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, _ int, v float64) float64 {
		return v / factors[i]
	}, counts)
	return out, nil
}

// SizeFactors returns one factor per row of a samples × genes matrix. Genes
// with a zero count in any sample do not contribute. When no gene is usable
// every factor is 1.
func SizeFactors(counts mat.Matrix) ([]float64, error) {
	r, c := counts.Dims()

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := counts.At(i, j)
			if v < 0 || math.IsNaN(v) {
				return nil, fmt.Errorf("count at sample %d, gene %d is %v; counts must be non-negative", i, j, v)
			}
		}
	}

	logGeoMeans := make([]float64, 0, c)
	usable := make([]int, 0, c)
	logs := make([]float64, r)
	for j := 0; j < c; j++ {
		ok := true
		for i := 0; i < r; i++ {
			v := counts.At(i, j)
			if v == 0 {
				ok = false
				break
			}
			logs[i] = math.Log(v)
		}
		if !ok {
			continue
		}
		usable = append(usable, j)
		logGeoMeans = append(logGeoMeans, stat.Mean(logs, nil))
	}

	factors := make([]float64, r)
	if len(usable) == 0 {
		for i := range factors {
			factors[i] = 1
		}
		return factors, nil
	}

	ratios := make(stats.Float64Data, len(usable))
	for i := 0; i < r; i++ {
		for k, j := range usable {
			ratios[k] = math.Log(counts.At(i, j)) - logGeoMeans[k]
		}
		median, err := stats.Median(ratios)
		if err != nil {
			return nil, err
		}
		factors[i] = math.Exp(median)
	}
	return factors, nil
}
