// Package external runs the out-of-process collaborators used by some ranking
// methods: the fast-cohen executable and DESeq2 through Rscript.
package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/generanker/pkg/errs"
	"github.com/yumyai/generanker/pkg/table"
)

// stderrLimit bounds how much collaborator stderr ends up in an error.
const stderrLimit = 4096

// Estimate is one per-gene value produced by a collaborator.
type Estimate struct {
	ID    string
	Value float64
}

// resolve finds executable on PATH, or checks it directly when it is a path.
func resolve(executable, hint string) (string, error) {
	path, err := exec.LookPath(executable)
	if err != nil {
		msg := fmt.Sprintf("cannot find %q", executable)
		if hint != "" {
			msg = hint
		}
		return "", fmt.Errorf("%w: %s", errs.ErrMissingDependency, msg)
	}
	return path, nil
}

// scratchDir creates a uuid-named directory under base. The returned cleanup
// removes it and everything inside.
func scratchDir(base, prefix string) (string, func(), error) {
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, prefix+"-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// run executes a collaborator and turns any failure into a CollaboratorError.
func run(ctx context.Context, logger *zap.Logger, name, path string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr

	logger.Debug("Running collaborator",
		zap.String("name", name),
		zap.String("executable", path),
		zap.Strings("args", args),
	)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err == nil {
		logger.Debug("Collaborator finished", zap.String("name", name), zap.Duration("duration", duration))
		return nil
	}

	cerr := &errs.CollaboratorError{Name: name, ExitCode: -1, Stderr: tail(stderr.String(), stderrLimit)}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cerr.ExitCode = exitErr.ExitCode()
	} else {
		cerr.Err = err
	}
	if ctx.Err() != nil {
		cerr.Err = ctx.Err()
	}

	logger.Error("Collaborator failed",
		zap.String("name", name),
		zap.Int("exit_code", cerr.ExitCode),
		zap.Duration("duration", duration),
		zap.String("stderr", cerr.Stderr),
	)
	return cerr
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// writeTable writes t as CSV with the identifier column first.
func writeTable(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseValue reads a collaborator number. R writes missing values as NA.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "NA" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// order arranges estimates to follow ids. A missing, duplicated or unknown id
// means the collaborator output does not describe the input.
func order(name string, ids []string, estimates []Estimate) ([]Estimate, error) {
	byID := make(map[string]float64, len(estimates))
	for _, e := range estimates {
		if _, dup := byID[e.ID]; dup {
			return nil, &errs.CollaboratorError{Name: name, ExitCode: -1, Err: fmt.Errorf("gene %q reported twice", e.ID)}
		}
		byID[e.ID] = e.Value
	}

	out := make([]Estimate, len(ids))
	for i, id := range ids {
		v, ok := byID[id]
		if !ok {
			return nil, &errs.CollaboratorError{Name: name, ExitCode: -1, Err: fmt.Errorf("no result for gene %q", id)}
		}
		out[i] = Estimate{ID: id, Value: v}
	}

	if len(byID) != len(ids) {
		known := make(map[string]bool, len(ids))
		for _, id := range ids {
			known[id] = true
		}
		for _, e := range estimates {
			if !known[e.ID] {
				return nil, &errs.CollaboratorError{Name: name, ExitCode: -1, Err: fmt.Errorf("unexpected gene %q", e.ID)}
			}
		}
	}
	return out, nil
}
