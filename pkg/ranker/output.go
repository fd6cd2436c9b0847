package ranker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yumyai/generanker/internal/util"
	"github.com/yumyai/generanker/pkg/rank"
)

// writeResult writes res to path, or to stdout when path is empty or "-".
// A file is written to a temporary name first and renamed into place, so a
// failed run never leaves a partial file behind.
func writeResult(res *rank.Result, path string, stdout io.Writer) (err error) {
	if path == "" || path == "-" {
		return res.WriteCSV(stdout)
	}

	path = util.ExpandHome(path)
	dir := filepath.Dir(path)
	if !util.DirExists(dir) {
		return fmt.Errorf("output directory %s does not exist", dir)
	}

	tmp, err := os.CreateTemp(dir, ".gene-ranker-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = res.WriteCSV(tmp); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
