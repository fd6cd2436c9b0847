package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yumyai/generanker/pkg/errs"
)

// readXLSX reads the first worksheet of a workbook. The first row is the header.
func readXLSX(path, idColumn string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.Configf("%s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}

	// GetRows drops trailing empty cells; pad so every row matches the header.
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			for len(row) < width {
				row = append(row, "")
			}
			rows[i] = row
		}
	}

	t, err := fromRecords(rows, idColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
