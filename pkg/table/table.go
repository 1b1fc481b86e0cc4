package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/benchviz/pkg/errors"
)

// Kind is the dominant inferred type of a column.
type Kind int

const (
	// Unparsed marks a column without any present cell.
	Unparsed Kind = iota
	// Numeric marks a column whose present cells all parse as numbers.
	Numeric
	// Text marks a column with at least one non-numeric present cell.
	Text
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	default:
		return "unparsed"
	}
}

// naTokens are the cell spellings treated as missing values.
var naTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"-nan": true,
	"null": true,
	"NULL": true,
	"None": true,
	"<NA>": true,
	"#N/A": true,
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(raw string) bool {
	return naTokens[strings.TrimSpace(raw)]
}

// Column is a single named column of a [Table].
type Column struct {
	Name string
	Kind Kind

	raw     []string
	missing []bool
	nums    []float64
	present int
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.raw) }

// Present returns the number of non-missing cells.
func (c *Column) Present() int { return c.present }

// Raw returns the raw text of cell i.
func (c *Column) Raw(i int) string { return c.raw[i] }

// Missing reports whether cell i is missing.
func (c *Column) Missing(i int) bool { return c.missing[i] }

// Float returns cell i as a number, or NaN when missing or not numeric.
func (c *Column) Float(i int) float64 { return c.nums[i] }

// Floats returns a copy of the column coerced to numbers (NaN where missing
// or unparseable).
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.nums))
	copy(out, c.nums)
	return out
}

// Strings returns a copy of the raw cells with missing cells as "".
func (c *Column) Strings() []string {
	out := make([]string, len(c.raw))
	for i, s := range c.raw {
		if !c.missing[i] {
			out[i] = s
		}
	}
	return out
}

// Max returns the largest finite numeric value and whether one exists.
func (c *Column) Max() (float64, bool) {
	best, ok := math.Inf(-1), false
	for _, v := range c.nums {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > best {
			best = v
		}
		ok = true
	}
	return best, ok
}

func newColumn(name string, cells []string) *Column {
	c := &Column{
		Name:    name,
		raw:     cells,
		missing: make([]bool, len(cells)),
		nums:    make([]float64, len(cells)),
	}
	numeric := true
	for i, cell := range cells {
		if IsMissing(cell) {
			c.missing[i] = true
			c.nums[i] = math.NaN()
			continue
		}
		c.present++
		v, err := parseNumber(cell)
		if err != nil {
			numeric = false
			c.nums[i] = math.NaN()
			continue
		}
		c.nums[i] = v
	}
	switch {
	case c.present == 0:
		c.Kind = Unparsed
	case numeric:
		c.Kind = Numeric
	default:
		c.Kind = Text
	}
	return c
}

// parseNumber parses a cell as a float, tolerating surrounding spaces.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Table is an immutable, column-oriented result table.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table from a header and data records.
//
// Duplicate header names are made unique by appending ".1", ".2", ... to the
// later occurrences. Short records are padded with missing cells; records
// longer than the header are rejected.
func New(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "table has no header")
	}
	names := uniqueNames(header)
	cells := make([][]string, len(names))
	for j := range cells {
		cells[j] = make([]string, len(records))
	}
	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, errors.New(errors.ErrCodeInvalidTable,
				"row %d has %d fields, header has %d", i+1, len(rec), len(names))
		}
		for j, v := range rec {
			cells[j][i] = v
		}
	}

	t := &Table{
		columns: make([]*Column, len(names)),
		index:   make(map[string]int, len(names)),
		rows:    len(records),
	}
	for j, name := range names {
		t.columns[j] = newColumn(name, cells[j])
		t.index[name] = j
	}
	return t, nil
}

func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		for used[name] {
			next[h]++
			name = fmt.Sprintf("%s.%d", h, next[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Floats returns the named column coerced to numbers, or nil if absent.
func (t *Table) Floats(name string) []float64 {
	c, ok := t.Column(name)
	if !ok {
		return nil
	}
	return c.Floats()
}

// Strings returns the named column's raw cells, or nil if absent.
func (t *Table) Strings(name string) []string {
	c, ok := t.Column(name)
	if !ok {
		return nil
	}
	return c.Strings()
}
