package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"

	"github.com/yumyai/generanker/pkg/errs"
)

// ReadFile loads an expression table from a delimited text file (optionally
// compressed) or an .xlsx workbook. idColumn names the identifier column.
func ReadFile(path, idColumn string) (*Table, error) {
	ext := baseExtension(path)
	if ext == ".xlsx" {
		return readXLSX(path, idColumn)
	}

	rc, err := openMaybeCompressed(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, pfx.Err(err))
	}

	var delim rune
	switch ext {
	case ".csv":
		delim = ','
	case ".tsv", ".tab":
		delim = '\t'
	default:
		delim = DetermineDelimiter(bytes.NewReader(content))
	}

	t, err := Read(bytes.NewReader(content), idColumn, delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && delimiters[0] != "" {
		return rune(delimiters[0][0])
	}

	return ','
}

// Read parses delimited text with a header row.
func Read(r io.Reader, idColumn string, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	return fromRecords(records, idColumn)
}

// fromRecords builds a table from a header row followed by data rows.
func fromRecords(records [][]string, idColumn string) (*Table, error) {
	if len(records) == 0 {
		return nil, errs.Configf("no header row")
	}

	header := records[0]
	idPos := -1
	samples := make([]string, 0, len(header))
	samplePos := make([]int, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == idColumn {
			if idPos >= 0 {
				return nil, errs.Configf("column %q appears twice", idColumn)
			}
			idPos = i
			continue
		}
		samples = append(samples, name)
		samplePos = append(samplePos, i)
	}
	if idPos < 0 {
		return nil, errs.Configf("identifier column %q not found", idColumn)
	}

	t, err := New(idColumn, samples)
	if err != nil {
		return nil, err
	}

	for line, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", line+2, len(rec), len(header))
		}

		values := make([]float64, len(samplePos))
		for j, p := range samplePos {
			v, err := parseValue(rec[p])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", line+2, samples[j], err)
			}
			values[j] = v
		}
		if err := t.AddRow(strings.TrimSpace(rec[idPos]), values); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("missing value: %q", s)
	}
	return v, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
