package rank

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/yumyai/generanker/pkg/dataset"
)

const (
	OneSided = "one-sided"
	TwoSided = "two-sided"
)

// BWS scores each gene with the Baumgartner-Weiss-Schindler statistic of
// case against control. The "alternative" option picks the one-sided
// (default) or two-sided form.
func BWS(_ context.Context, d *dataset.Dual, args Args) (*Result, error) {
	alternative := OneSided
	if _, ok := args["alternative"]; ok {
		v, err := args.OneOf("alternative", OneSided, TwoSided)
		if err != nil {
			return nil, err
		}
		alternative = v
	}

	return perGene(d, func(caseRow, controlRow []float64) float64 {
		return bwsStatistic(caseRow, controlRow, alternative == TwoSided)
	})
}

// bwsStatistic computes B for samples x and y. Ranks come from the pooled
// samples, with tied values all given the highest rank of their group.
func bwsStatistic(x, y []float64, twoSided bool) float64 {
	n, m := float64(len(x)), float64(len(y))

	ranks := maxRanks(append(append([]float64(nil), x...), y...))
	ri := ranks[:len(x)]
	hj := ranks[len(x):]
	sort.Float64s(ri)
	sort.Float64s(hj)

	square := func(v float64) float64 {
		if twoSided {
			return v * v
		}
		return v * math.Abs(v)
	}

	var bx float64
	for k, r := range ri {
		i := float64(k + 1)
		num := square(r - (m+n)/n*i)
		den := i / (n + 1) * (1 - i/(n+1)) * m * (m + n) / n
		bx += num / den
	}
	bx /= n

	var by float64
	for k, h := range hj {
		j := float64(k + 1)
		num := square(h - (m+n)/m*j)
		den := j / (m + 1) * (1 - j/(m+1)) * n * (m + n) / m
		by += num / den
	}
	by /= m

	if twoSided {
		return (bx + by) / 2
	}
	return (bx - by) / 2
}

// maxRanks returns 1-based ranks of v in place of its values. Equal values
// share the largest rank their group spans.
func maxRanks(v []float64) []float64 {
	sorted := append([]float64(nil), v...)
	inds := make([]int, len(v))
	floats.Argsort(sorted, inds)

	ranks := make([]float64, len(v))
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end] == sorted[start] {
			end++
		}
		for k := start; k < end; k++ {
			ranks[inds[k]] = float64(end)
		}
		start = end
	}
	return ranks
}
