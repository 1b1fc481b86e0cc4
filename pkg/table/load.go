package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/benchviz/pkg/errors"
)

const utf8BOM = "\ufeff"

// Load reads a table from path, choosing the reader by extension.
//
// Spreadsheets accept an optional "#Sheet" suffix naming the sheet to read;
// without it the first sheet is used. Any other extension is read as CSV.
// A missing file yields an error with code [errors.ErrCodeFileNotFound].
func Load(path string) (*Table, error) {
	file, sheet := SplitPath(path)

	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "table not found: %s", file)
		}
		return nil, fmt.Errorf("stat %s: %w", file, err)
	}

	switch {
	case isSpreadsheet(file):
		return LoadXLSX(file, sheet)
	case strings.EqualFold(filepath.Ext(file), ".tsv"):
		return loadDelimited(file, '\t')
	default:
		return loadDelimited(file, ',')
	}
}

// SplitPath separates a spreadsheet path from its "#Sheet" suffix. Paths
// without a suffix, and non-spreadsheet paths, are returned unchanged with
// an empty sheet.
func SplitPath(path string) (file, sheet string) {
	if i := strings.LastIndex(path, "#"); i > 0 && isSpreadsheet(path[:i]) {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func isSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func loadDelimited(path string, comma rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f, comma)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSV decodes delimited text from r. The first record is the header.
// Records may be shorter than the header but not longer.
func ReadCSV(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidTable, "table is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read header")
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read records")
	}
	return New(header, records)
}

// LoadXLSX reads one sheet of a workbook. An empty sheet name selects the
// first sheet. Trailing empty cells trimmed by the workbook reader are padded
// back as missing values.
func LoadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "open workbook %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidTable, "workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read sheet %q of %s", sheet, path)
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "sheet %q of %s is empty", sheet, path)
	}

	header := rows[0]
	records := rows[1:]
	// Drop trailing blank rows the sheet reader keeps for formatted cells.
	for len(records) > 0 && blank(records[len(records)-1]) {
		records = records[:len(records)-1]
	}
	for i, rec := range records {
		if len(rec) > len(header) {
			records[i] = rec[:len(header)]
		}
	}
	return New(header, records)
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
