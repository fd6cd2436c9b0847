package table

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yumyai/generanker/pkg/errs"
)

const caseCSV = `gene_id,sample_1,sample_2,sample_3
gene_1,2.5,1.0,1.2
gene_2,0.1,0,3.2
gene_3,6.0,3.2,5.01
`

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestReadFileCSV(t *testing.T) {
	path := writeFile(t, "case.csv", []byte(caseCSV))

	tb, err := ReadFile(path, "gene_id")
	require.NoError(t, err)

	assert.Equal(t, []string{"gene_id", "sample_1", "sample_2", "sample_3"}, tb.Columns())
	assert.Equal(t, []string{"gene_1", "gene_2", "gene_3"}, tb.IDs())
	assert.Equal(t, []float64{0.1, 0, 3.2}, tb.Row(1))
}

func TestReadFileTSVWithIDInTheMiddle(t *testing.T) {
	content := "s1\tid\ts2\n1\tg1\t2\n3\tg2\t4\n"
	path := writeFile(t, "data.tsv", []byte(content))

	tb, err := ReadFile(path, "id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "s1", "s2"}, tb.Columns())
	assert.Equal(t, []float64{3, 4}, tb.Row(1))
}

func TestReadFileGzipDetectsDelimiter(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(strings.ReplaceAll(caseCSV, ",", "\t")))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := writeFile(t, "case.txt.gz", buf.Bytes())

	tb, err := ReadFile(path, "gene_id")
	require.NoError(t, err)
	assert.Equal(t, 3, tb.Len())
	assert.Equal(t, 3, tb.Width())
	assert.Equal(t, []float64{6.0, 3.2, 5.01}, tb.Row(2))
}

func TestReadFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"gene_id", "sample_4", "sample_5"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"gene_1", 6.5, 4.0}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"gene_2", 1.6, 0.1}))

	path := filepath.Join(t.TempDir(), "control.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tb, err := ReadFile(path, "gene_id")
	require.NoError(t, err)
	assert.Equal(t, []string{"gene_id", "sample_4", "sample_5"}, tb.Columns())
	assert.Equal(t, []float64{1.6, 0.1}, tb.Row(1))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		idColumn string
		isConfig bool
	}{
		{"missing id column", caseCSV, "ensembl_id", true},
		{"duplicated id", "gene_id,s1\ng1,1\ng1,2\n", "gene_id", true},
		{"duplicated column", "gene_id,s1,s1\ng1,1,2\n", "gene_id", true},
		{"not a number", "gene_id,s1\ng1,abc\n", "gene_id", false},
		{"nan", "gene_id,s1\ng1,NaN\n", "gene_id", false},
		{"empty cell", "gene_id,s1,s2\ng1,,2\n", "gene_id", false},
		{"short row", "gene_id,s1,s2\ng1,1\n", "gene_id", false},
		{"no header", "", "gene_id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.content), tt.idColumn, ',')
			require.Error(t, err)
			if tt.isConfig {
				assert.ErrorIs(t, err, errs.ErrConfiguration)
			}
		})
	}
}

func TestReadSkipsBlankLinesAndComments(t *testing.T) {
	content := "gene_id,s1\n# a comment\ng1,1\n\ng2,2\n"

	tb, err := Read(strings.NewReader(content), "gene_id", ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, tb.IDs())
}

func TestBaseExtension(t *testing.T) {
	assert.Equal(t, ".tsv", baseExtension("/x/expr.TSV.gz"))
	assert.Equal(t, ".csv", baseExtension("expr.csv"))
	assert.Equal(t, ".txt", baseExtension("expr.txt.bz2"))
}

func TestDetectCompression(t *testing.T) {
	c, err := DetectCompression(bytes.NewReader([]byte{0x1f, 0x8b, 0x08, 0, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, CompressionGzip, c)

	c, err = DetectCompression(bytes.NewReader([]byte("id")))
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = DetectCompression(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)
}

func TestWriteCSV(t *testing.T) {
	tb, err := Read(strings.NewReader(caseCSV), "gene_id", ',')
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tb.WriteCSV(&buf))
	want := "gene_id,sample_1,sample_2,sample_3\n" +
		"gene_1,2.5,1,1.2\n" +
		"gene_2,0.1,0,3.2\n" +
		"gene_3,6,3.2,5.01\n"
	assert.Equal(t, want, buf.String())
}
