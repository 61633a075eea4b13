package spreadsheet

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/sheet-analytics/internal/domain"
)

// Parsing failure modes, surfaced to callers as validation errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx, .xls or .csv")
	ErrEmptyWorkbook     = errors.New("workbook contains no data rows")
	ErrTooManyRows       = errors.New("workbook exceeds the row limit")
)

// Result is an ordered sequence of row records plus the header row.
type Result struct {
	Columns []string
	Rows    []domain.Row
}

// Parser turns an uploaded spreadsheet into row records. The first row is the
// header; each subsequent row becomes a map keyed by header cell, preserving
// file order.
type Parser struct {
	maxRows int
}

// NewParser bounds parsing at maxRows data rows.
func NewParser(maxRows int) *Parser {
	if maxRows <= 0 {
		maxRows = 10000
	}
	return &Parser{maxRows: maxRows}
}

// Parse dispatches on the file extension.
func (p *Parser) Parse(fileName string, r io.Reader) (*Result, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xls":
		return p.parseWorkbook(r)
	case ".csv":
		return p.parseCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func (p *Parser) parseWorkbook(r io.Reader) (*Result, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrUnsupportedFormat
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return p.assemble(rows)
}

func (p *Parser) parseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return p.assemble(rows)
}

func (p *Parser) assemble(raw [][]string) (*Result, error) {
	if len(raw) < 2 {
		return nil, ErrEmptyWorkbook
	}
	if len(raw)-1 > p.maxRows {
		return nil, ErrTooManyRows
	}

	columns := make([]string, 0, len(raw[0]))
	for i, cell := range raw[0] {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		columns = append(columns, name)
	}

	records := make([]domain.Row, 0, len(raw)-1)
	for _, line := range raw[1:] {
		if isBlank(line) {
			continue
		}
		row := make(domain.Row, len(columns))
		for i, col := range columns {
			if i < len(line) {
				row[col] = coerce(line[i])
			} else {
				row[col] = nil
			}
		}
		records = append(records, row)
	}

	if len(records) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return &Result{Columns: columns, Rows: records}, nil
}

// coerce keeps numeric cells numeric so chart axes behave.
func coerce(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return trimmed
}

func isBlank(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
