// Package ranker runs one ranking from input files to output: it loads the
// case and control tables, filters them, builds the dual dataset, runs the
// selected method and writes the result.
package ranker

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/generanker/pkg/dataset"
	"github.com/yumyai/generanker/pkg/rank"
	"github.com/yumyai/generanker/pkg/table"
)

// Options describe a single run.
type Options struct {
	CasePath    string
	ControlPath string
	Method      string
	IDColumn    string
	Args        rank.Args
	Filter      rank.Filter
	// OutputPath is the result file; empty or "-" means Stdout.
	OutputPath string
	// SlowMethod triggers a warning when the method runs longer. Zero disables it.
	SlowMethod time.Duration
}

type Ranker struct {
	Registry *rank.Registry
	Logger   *zap.Logger
	Stdout   io.Writer
}

func New(registry *rank.Registry, logger *zap.Logger) *Ranker {
	return &Ranker{Registry: registry, Logger: logger, Stdout: os.Stdout}
}

// Run executes opts and returns the result that was written.
func (r *Ranker) Run(ctx context.Context, opts Options) (*rank.Result, error) {
	// Unknown methods fail before any file is touched.
	desc, err := r.Registry.Lookup(opts.Method)
	if err != nil {
		return nil, err
	}

	logger := r.Logger.With(zap.String("run_id", uuid.New().String()))
	logger.Info("Starting ranking",
		zap.String("method", desc.Key()),
		zap.String("case", opts.CasePath),
		zap.String("control", opts.ControlPath),
	)

	caseTable, err := r.load(ctx, logger, "case", opts.CasePath, opts)
	if err != nil {
		return nil, err
	}
	controlTable, err := r.load(ctx, logger, "control", opts.ControlPath, opts)
	if err != nil {
		return nil, err
	}

	d, err := dataset.New(caseTable, controlTable, opts.IDColumn)
	if err != nil {
		return nil, err
	}

	run := rank.Chain(desc.Run, rank.Logging(logger, desc.Key(), opts.SlowMethod))
	res, err := run(ctx, d, opts.Args)
	if err != nil {
		return nil, err
	}

	if err := writeResult(res, opts.OutputPath, r.Stdout); err != nil {
		return nil, err
	}
	logger.Info("Wrote ranking",
		zap.Int("genes", len(res.Scores)),
		zap.String("output", outputName(opts.OutputPath)),
	)
	return res, nil
}

func (r *Ranker) load(ctx context.Context, logger *zap.Logger, side, path string, opts Options) (*table.Table, error) {
	t, err := Load(ctx, path, opts.IDColumn)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded matrix",
		zap.String("side", side),
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns())),
	)

	if opts.Filter.Active() {
		before := t.Len()
		t = opts.Filter.Apply(t)
		logger.Info("Filtered matrix",
			zap.String("side", side),
			zap.Int("kept", t.Len()),
			zap.Int("dropped", before-t.Len()),
		)
	}
	return t, nil
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}
