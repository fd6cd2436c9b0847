package rank

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/yumyai/generanker/pkg/table"
)

// Filter drops genes before ranking. Zero values disable each criterion.
type Filter struct {
	// MinMean keeps genes whose mean over all samples is strictly above it.
	MinMean float64
	// OnlyIn keeps only the listed genes.
	OnlyIn []string
}

// Active reports whether the filter removes anything at all.
func (f Filter) Active() bool {
	return f.MinMean != 0 || len(f.OnlyIn) > 0
}

// Apply returns the rows of t that pass every criterion, in their original order.
func (f Filter) Apply(t *table.Table) *table.Table {
	var only map[string]bool
	if len(f.OnlyIn) > 0 {
		only = make(map[string]bool, len(f.OnlyIn))
		for _, id := range f.OnlyIn {
			only[id] = true
		}
	}

	return t.Filter(func(id string, row []float64) bool {
		if f.MinMean != 0 && !(stat.Mean(row, nil) > f.MinMean) {
			return false
		}
		if only != nil && !only[id] {
			return false
		}
		return true
	})
}

// ReadGeneList reads one identifier per line. Blank lines and lines starting
// with # are skipped.
func ReadGeneList(r io.Reader) ([]string, error) {
	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gene list: %w", err)
	}
	return ids, nil
}
