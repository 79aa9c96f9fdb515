package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	ColumnName  = "name"
	ColumnEmail = "email"
	ColumnVar1  = "var1"
	ColumnVar2  = "var2"
	ColumnVar3  = "var3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported import file format")
	ErrMissingHeader     = errors.New("import file has no header row")
	ErrMissingColumn     = errors.New("import file is missing a required column")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data line of an import file, keyed by the header mapping.
type Row struct {
	Line  int
	Name  string
	Email string
	Var1  string
	Var2  string
	Var3  string
}

// Parse reads CSV or XLSX rows, chosen by the file name's extension.
func Parse(fileName string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

func ParseCSV(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return mapRecords(records)
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeader
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return mapRecords(records)
}

func mapRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	index := map[string]int{}
	for i, h := range records[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	for _, required := range []string{ColumnName, ColumnEmail} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for n, record := range records[1:] {
		rows = append(rows, Row{
			Line:  n + 2,
			Name:  field(record, ColumnName),
			Email: field(record, ColumnEmail),
			Var1:  field(record, ColumnVar1),
			Var2:  field(record, ColumnVar2),
			Var3:  field(record, ColumnVar3),
		})
	}
	return rows, nil
}

// Validate keeps rows that carry both a name and an email.
func Validate(rows []Row) (valid []Row, skipped int) {
	valid = make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Name == "" || row.Email == "" {
			skipped++
			continue
		}
		valid = append(valid, row)
	}
	return valid, skipped
}

// SampleCSV is the downloadable example file.
func SampleCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll([][]string{
		{ColumnName, ColumnEmail},
		{"Ana Souza", "ana@example.com"},
		{"Bruno Lima", "bruno@example.com"},
	})
	return buf.Bytes()
}
