package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/yumyai/generanker/internal/util"
	"github.com/yumyai/generanker/pkg/errs"
	"github.com/yumyai/generanker/pkg/table"
)

var sqliteExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// ExpressionDB is a SQLite file holding one expression table per SQL table.
type ExpressionDB struct {
	path string
	sql  *sql.DB
}

// ParseSource splits "path.db#table" into its parts. ok is false when source
// does not name a SQLite file.
func ParseSource(source string) (path, tableName string, ok bool) {
	path = source
	if i := strings.LastIndex(source, "#"); i >= 0 {
		path, tableName = source[:i], source[i+1:]
	}
	if !sqliteExtensions[strings.ToLower(filepath.Ext(path))] {
		return source, "", false
	}
	return path, tableName, true
}

// Open connects to an existing SQLite file. It never creates one.
func Open(path string) (*ExpressionDB, error) {
	if !util.FileExists(path) {
		return nil, fmt.Errorf("database %s does not exist", path)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	return &ExpressionDB{path: path, sql: conn}, nil
}

func (e *ExpressionDB) Close() error {
	return e.sql.Close()
}

// Tables lists the user tables in name order.
func (e *ExpressionDB) Tables(ctx context.Context) ([]string, error) {
	rows, err := e.sql.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadTable loads the SQL table name as an expression table keyed by idColumn.
// An empty name selects the only table in the file.
func (e *ExpressionDB) ReadTable(ctx context.Context, name, idColumn string) (*table.Table, error) {
	names, err := e.Tables(ctx)
	if err != nil {
		return nil, err
	}

	if name == "" {
		if len(names) != 1 {
			return nil, errs.Configf("%s holds %d tables, name one with %s#TABLE", e.path, len(names), e.path)
		}
		name = names[0]
	} else if !contains(names, name) {
		return nil, errs.Configf("table %q not found in %s", name, e.path)
	}

	rows, err := e.sql.QueryContext(ctx, "SELECT * FROM "+quoteIdent(name))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	idPos := -1
	var samples []string
	for i, c := range columns {
		if c == idColumn {
			idPos = i
			continue
		}
		samples = append(samples, c)
	}
	if idPos < 0 {
		return nil, errs.Configf("identifier column %q not found in table %q", idColumn, name)
	}

	t, err := table.New(idColumn, samples)
	if err != nil {
		return nil, err
	}

	var id sql.NullString
	cells := make([]sql.NullFloat64, len(samples))
	dest := make([]any, len(columns))
	for i, j := 0, 0; i < len(columns); i++ {
		if i == idPos {
			dest[i] = &id
			continue
		}
		dest[i] = &cells[j]
		j++
	}

	for line := 1; rows.Next(); line++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("table %q row %d: %w", name, line, err)
		}
		if !id.Valid {
			return nil, fmt.Errorf("table %q row %d: missing identifier", name, line)
		}

		values := make([]float64, len(cells))
		for j, c := range cells {
			if !c.Valid {
				return nil, fmt.Errorf("table %q row %d, column %q: missing value", name, line, samples[j])
			}
			values[j] = c.Float64
		}
		if err := t.AddRow(id.String, values); err != nil {
			return nil, err
		}
	}

	return t, rows.Err()
}

// Load opens a "path.db#table" source, reads it and closes the file.
func Load(ctx context.Context, source, idColumn string) (*table.Table, error) {
	path, name, ok := ParseSource(source)
	if !ok {
		return nil, errs.Configf("%s is not a SQLite source", source)
	}

	e, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	return e.ReadTable(ctx, name, idColumn)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
