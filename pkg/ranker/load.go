package ranker

import (
	"context"

	"github.com/yumyai/generanker/internal/util"
	"github.com/yumyai/generanker/pkg/db"
	"github.com/yumyai/generanker/pkg/table"
)

// Load reads an expression table from a delimited file, a workbook or a
// "file.db#table" SQLite source.
func Load(ctx context.Context, source, idColumn string) (*table.Table, error) {
	source = util.ExpandHome(source)
	if _, _, ok := db.ParseSource(source); ok {
		return db.Load(ctx, source, idColumn)
	}
	return table.ReadFile(source, idColumn)
}
