package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()

	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestParse_Workbook(t *testing.T) {
	t.Parallel()

	reader := workbookBytes(t, [][]any{
		{"Month", "Revenue"},
		{"Jan", 100},
		{"Feb", 250.5},
	})

	result, err := NewParser(100).Parse("report.xlsx", reader)
	require.NoError(t, err)
	require.Equal(t, []string{"Month", "Revenue"}, result.Columns)
	require.Len(t, result.Rows, 2)
	require.Equal(t, "Jan", result.Rows[0]["Month"])
	require.Equal(t, float64(100), result.Rows[0]["Revenue"])
	require.Equal(t, "Feb", result.Rows[1]["Month"])
	require.Equal(t, 250.5, result.Rows[1]["Revenue"])
}

func TestParse_CSV(t *testing.T) {
	t.Parallel()

	csv := "city,population\nRiga,600000\nTartu,95000\n"

	result, err := NewParser(100).Parse("cities.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, []string{"city", "population"}, result.Columns)
	require.Len(t, result.Rows, 2)
	require.Equal(t, "Riga", result.Rows[0]["city"])
	require.Equal(t, float64(600000), result.Rows[0]["population"])
}

func TestParse_PreservesRowOrder(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("n\n")
	for i := 0; i < 50; i++ {
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteString("\n")
	}

	result, err := NewParser(100).Parse("ordered.csv", strings.NewReader(sb.String()))
	require.NoError(t, err)
	for i, row := range result.Rows {
		require.Equal(t, strings.Repeat("x", i+1), row["n"], "row %d out of order", i)
	}
}

func TestParse_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := NewParser(100).Parse("report.pdf", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_HeaderOnly(t *testing.T) {
	t.Parallel()

	_, err := NewParser(100).Parse("empty.csv", strings.NewReader("a,b\n"))
	require.ErrorIs(t, err, ErrEmptyWorkbook)
}

func TestParse_RowLimit(t *testing.T) {
	t.Parallel()

	csv := "a\n1\n2\n3\n"
	_, err := NewParser(2).Parse("big.csv", strings.NewReader(csv))
	require.ErrorIs(t, err, ErrTooManyRows)
}

func TestParse_BlankHeaderAndRaggedRows(t *testing.T) {
	t.Parallel()

	csv := "name,,score\nA,x\nB,y,9,extra\n"

	result, err := NewParser(100).Parse("ragged.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, []string{"name", "column_2", "score"}, result.Columns)
	require.Nil(t, result.Rows[0]["score"])
	require.Equal(t, float64(9), result.Rows[1]["score"])
}
