package external

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/yumyai/generanker/pkg/errs"
	"github.com/yumyai/generanker/pkg/table"
)

//go:embed deseq2_shrink.R
var deseqScript []byte

// DESeq2 fits a DESeq2 model through Rscript and returns apeglm-shrunk
// log2 fold changes of case against control.
type DESeq2 struct {
	Rscript string // defaults to "Rscript"
	TempDir string
	Logger  *zap.Logger
}

type coldataRecord struct {
	Sample string `csv:"sample"`
	Status string `csv:"status"`
}

type lfcRecord struct {
	ID  string `csv:"row_names"`
	LFC string `csv:"log2FoldChange"`
}

// ShrunkLFC runs the model on counts (genes × samples, non-negative integers).
// caseSamples and controlSamples label every sample column of counts.
func (d *DESeq2) ShrunkLFC(ctx context.Context, counts *table.Table, caseSamples, controlSamples []string) ([]Estimate, error) {
	executable := d.Rscript
	if executable == "" {
		executable = "Rscript"
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(caseSamples)+len(controlSamples) != counts.Width() {
		return nil, errs.Configf("%d labelled samples for a %d-sample count table",
			len(caseSamples)+len(controlSamples), counts.Width())
	}

	path, err := resolve(executable, "Missing the Rscript executable. Install R with the DESeq2 and apeglm packages.")
	if err != nil {
		return nil, err
	}

	dir, cleanup, err := scratchDir(d.TempDir, "deseq2")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	scriptPath := filepath.Join(dir, "deseq2_shrink.R")
	countsPath := filepath.Join(dir, "counts.csv")
	coldataPath := filepath.Join(dir, "coldata.csv")
	resultPath := filepath.Join(dir, "result.csv")

	if err := os.WriteFile(scriptPath, deseqScript, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write DESeq2 script: %w", err)
	}
	if err := writeTable(countsPath, counts); err != nil {
		return nil, fmt.Errorf("failed to write counts: %w", err)
	}
	if err := writeColdata(coldataPath, caseSamples, controlSamples); err != nil {
		return nil, fmt.Errorf("failed to write sample labels: %w", err)
	}

	if err := run(ctx, logger, "DESeq2", path, scriptPath, countsPath, coldataPath, resultPath); err != nil {
		return nil, err
	}

	estimates, err := readLFC(resultPath)
	if err != nil {
		return nil, &errs.CollaboratorError{Name: "DESeq2", ExitCode: -1, Err: err}
	}
	return order("DESeq2", counts.IDs(), estimates)
}

func writeColdata(path string, caseSamples, controlSamples []string) error {
	records := make([]*coldataRecord, 0, len(caseSamples)+len(controlSamples))
	for _, s := range caseSamples {
		records = append(records, &coldataRecord{Sample: s, Status: "case"})
	}
	for _, s := range controlSamples {
		records = append(records, &coldataRecord{Sample: s, Status: "control"})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readLFC(path string) ([]Estimate, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no result file: %w", err)
	}

	records := []*lfcRecord{}
	if err := gocsv.UnmarshalBytes(content, &records); err != nil {
		return nil, fmt.Errorf("malformed result: %w", err)
	}

	estimates := make([]Estimate, 0, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("malformed result: row %d has no row_names", i+2)
		}
		v, err := parseValue(r.LFC)
		if err != nil {
			return nil, fmt.Errorf("malformed result: row %d: log2FoldChange %q", i+2, r.LFC)
		}
		estimates = append(estimates, Estimate{ID: r.ID, Value: v})
	}
	return estimates, nil
}
