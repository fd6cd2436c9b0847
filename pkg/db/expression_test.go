package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/generanker/pkg/errs"
)

func createDB(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expression.db")

	conn, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer conn.Close()

	for _, s := range stmts {
		_, err := conn.Exec(s)
		require.NoError(t, err, s)
	}
	return path
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		source, path, table string
		ok                  bool
	}{
		{"data/expr.db#case", "data/expr.db", "case", true},
		{"expr.sqlite3", "expr.sqlite3", "", true},
		{"expr.SQLITE#t", "expr.SQLITE", "t", true},
		{"expr.csv", "expr.csv", "", false},
		{"expr.csv#x", "expr.csv#x", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			path, name, ok := ParseSource(tt.source)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.table, name)
		})
	}
}

func TestReadTable(t *testing.T) {
	path := createDB(t,
		`CREATE TABLE "case" (sample_1 REAL, gene_id TEXT, sample_2 REAL)`,
		`INSERT INTO "case" VALUES (2.5, 'gene_1', 1.0), (0.1, 'gene_2', 0)`,
		`CREATE TABLE other (gene_id TEXT, s REAL)`,
	)

	e, err := Open(path)
	require.NoError(t, err)
	defer e.Close()

	ctx := context.Background()
	names, err := e.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"case", "other"}, names)

	tb, err := e.ReadTable(ctx, "case", "gene_id")
	require.NoError(t, err)
	assert.Equal(t, []string{"gene_id", "sample_1", "sample_2"}, tb.Columns())
	assert.Equal(t, []string{"gene_1", "gene_2"}, tb.IDs())
	assert.Equal(t, []float64{0.1, 0}, tb.Row(1))

	_, err = e.ReadTable(ctx, "missing", "gene_id")
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = e.ReadTable(ctx, "", "gene_id")
	assert.ErrorIs(t, err, errs.ErrConfiguration, "two tables need an explicit name")

	_, err = e.ReadTable(ctx, "other", "ensembl_id")
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestLoadSingleTable(t *testing.T) {
	path := createDB(t,
		`CREATE TABLE expr (gene_id TEXT, s1 REAL)`,
		`INSERT INTO expr VALUES ('g1', 1.5)`,
	)

	tb, err := Load(context.Background(), path, "gene_id")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, tb.Row(0))
}

func TestReadTableRejectsNull(t *testing.T) {
	path := createDB(t,
		`CREATE TABLE expr (gene_id TEXT, s1 REAL)`,
		`INSERT INTO expr VALUES ('g1', NULL)`,
	)

	_, err := Load(context.Background(), path+"#expr", "gene_id")
	assert.ErrorContains(t, err, "missing value")
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.db")

	_, err := Open(path)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
