package external

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/yumyai/generanker/pkg/errs"
	"github.com/yumyai/generanker/pkg/table"
)

const fastCohenHint = "Missing the fast-cohen executable. See https://github.com/mrhedmad/fast-cohen/ to download."

// FastCohen computes Cohen's d with the fast-cohen executable:
//
//	fast-cohen CASE.csv CONTROL.csv RESULT.csv
type FastCohen struct {
	Executable string // defaults to "fast-cohen"
	TempDir    string // parent of the scratch directory, defaults to os.TempDir
	Logger     *zap.Logger
}

type cohenRecord struct {
	ID     string `csv:"row_names"`
	CohenD string `csv:"cohen_d"`
}

// CohenD returns one effect size per gene of caseTable, in its row order.
// Both tables must already hold the same genes.
func (f *FastCohen) CohenD(ctx context.Context, caseTable, controlTable *table.Table) ([]Estimate, error) {
	executable := f.Executable
	if executable == "" {
		executable = "fast-cohen"
	}
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	path, err := resolve(executable, fastCohenHint)
	if err != nil {
		return nil, err
	}

	dir, cleanup, err := scratchDir(f.TempDir, "fast-cohen")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	casePath := filepath.Join(dir, "case.csv")
	controlPath := filepath.Join(dir, "control.csv")
	resultPath := filepath.Join(dir, "result.csv")

	if err := writeTable(casePath, caseTable); err != nil {
		return nil, fmt.Errorf("failed to write case table: %w", err)
	}
	if err := writeTable(controlPath, controlTable); err != nil {
		return nil, fmt.Errorf("failed to write control table: %w", err)
	}

	if err := run(ctx, logger, "fast-cohen", path, casePath, controlPath, resultPath); err != nil {
		return nil, err
	}

	estimates, err := readCohen(resultPath)
	if err != nil {
		return nil, &errs.CollaboratorError{Name: "fast-cohen", ExitCode: -1, Err: err}
	}
	return order("fast-cohen", caseTable.IDs(), estimates)
}

func readCohen(path string) ([]Estimate, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no result file: %w", err)
	}

	records := []*cohenRecord{}
	if err := gocsv.UnmarshalBytes(content, &records); err != nil {
		return nil, fmt.Errorf("malformed result: %w", err)
	}

	estimates := make([]Estimate, 0, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("malformed result: row %d has no row_names", i+2)
		}
		v, err := parseValue(r.CohenD)
		if err != nil {
			return nil, fmt.Errorf("malformed result: row %d: cohen_d %q", i+2, r.CohenD)
		}
		estimates = append(estimates, Estimate{ID: r.ID, Value: v})
	}
	return estimates, nil
}
