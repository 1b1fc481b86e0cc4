package table

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/benchviz/pkg/errors"
)

func TestUniqueNames(t *testing.T) {
	tests := []struct {
		header []string
		want   []string
	}{
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{[]string{"a", "a.1", "a"}, []string{"a", "a.1", "a.2"}},
	}
	for _, tt := range tests {
		if got := uniqueNames(tt.header); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("uniqueNames(%v) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestColumnKinds(t *testing.T) {
	tab, err := New(
		[]string{"num", "text", "empty", "mixed"},
		[][]string{
			{"1", "a", "", "1"},
			{"2.5", "b", "NA", "x"},
			{"NaN", "", "null"},
		},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name    string
		kind    Kind
		present int
	}{
		{"num", Numeric, 2},
		{"text", Text, 2},
		{"empty", Unparsed, 0},
		{"mixed", Text, 2},
	}
	for _, tt := range tests {
		c, ok := tab.Column(tt.name)
		if !ok {
			t.Fatalf("column %q missing", tt.name)
		}
		if c.Kind != tt.kind {
			t.Errorf("%s: kind = %v, want %v", tt.name, c.Kind, tt.kind)
		}
		if c.Present() != tt.present {
			t.Errorf("%s: present = %d, want %d", tt.name, c.Present(), tt.present)
		}
	}

	// Short third row is padded with a missing cell.
	mixed, _ := tab.Column("mixed")
	if !mixed.Missing(2) {
		t.Error("padded cell should be missing")
	}
}

func TestFloatsAndStrings(t *testing.T) {
	tab, err := New([]string{"v"}, [][]string{{"3"}, {"oops"}, {"N/A"}, {" 4 "}})
	if err != nil {
		t.Fatal(err)
	}

	got := tab.Floats("v")
	if got[0] != 3 || got[3] != 4 {
		t.Errorf("Floats = %v", got)
	}
	if !math.IsNaN(got[1]) || !math.IsNaN(got[2]) {
		t.Errorf("unparseable and missing cells should be NaN, got %v", got)
	}

	// Returned slices are copies.
	got[0] = 99
	if tab.Floats("v")[0] != 3 {
		t.Error("Floats should return a copy")
	}

	strs := tab.Strings("v")
	if strs[2] != "" || strs[1] != "oops" {
		t.Errorf("Strings = %q", strs)
	}

	if tab.Floats("absent") != nil || tab.Strings("absent") != nil {
		t.Error("absent column should return nil")
	}
}

func TestColumnMax(t *testing.T) {
	tab, _ := New([]string{"v", "e"}, [][]string{{"1", ""}, {"1.7e9", ""}, {"x", ""}})
	c, _ := tab.Column("v")
	if m, ok := c.Max(); !ok || m != 1.7e9 {
		t.Errorf("Max = %v, %v", m, ok)
	}
	e, _ := tab.Column("e")
	if _, ok := e.Max(); ok {
		t.Error("empty column should report no max")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, errors.ErrCodeInvalidTable) {
		t.Errorf("empty header: got %v", err)
	}
	if _, err := New([]string{"a"}, [][]string{{"1", "2"}}); !errors.Is(err, errors.ErrCodeInvalidTable) {
		t.Errorf("long row: got %v", err)
	}
}

func TestReadCSV(t *testing.T) {
	in := "\ufefftimestamp,latency_ms,task_type\n1,10.5,read\n2,,write\n3,12,read\n"
	tab, err := ReadCSV(strings.NewReader(in), ',')
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tab.Len() != 3 {
		t.Errorf("Len = %d, want 3", tab.Len())
	}
	want := []string{"timestamp", "latency_ms", "task_type"}
	if got := tab.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns = %v, want %v", got, want)
	}
	if !tab.Has("timestamp") {
		t.Error("BOM should be stripped from the first header")
	}

	if _, err := ReadCSV(strings.NewReader(""), ','); !errors.Is(err, errors.ErrCodeInvalidTable) {
		t.Errorf("empty input: got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "results.csv")
	if err := os.WriteFile(csvPath, []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tsvPath := filepath.Join(dir, "results.tsv")
	if err := os.WriteFile(tsvPath, []byte("a\tb\n1\t2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{csvPath, tsvPath} {
		tab, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", path, err)
		}
		if got := tab.Columns(); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("Load(%s) columns = %v", path, got)
		}
	}

	_, err := Load(filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	f := excelize.NewFile()
	f.SetSheetRow("Sheet1", "A1", &[]any{"x", "y"})
	f.SetSheetRow("Sheet1", "A2", &[]any{1, 2})
	f.NewSheet("Extra")
	f.SetSheetRow("Extra", "A1", &[]any{"only"})
	f.SetSheetRow("Extra", "A2", &[]any{"v"})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	tab, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tab.Len() != 1 || !tab.Has("y") {
		t.Errorf("first sheet: rows=%d columns=%v", tab.Len(), tab.Columns())
	}
	if c, _ := tab.Column("y"); c.Kind != Numeric {
		t.Errorf("y kind = %v, want numeric", c.Kind)
	}

	extra, err := Load(path + "#Extra")
	if err != nil {
		t.Fatalf("Load sheet: %v", err)
	}
	if !reflect.DeepEqual(extra.Columns(), []string{"only"}) {
		t.Errorf("Extra columns = %v", extra.Columns())
	}

	if _, err := Load(path + "#Nope"); !errors.Is(err, errors.ErrCodeInvalidTable) {
		t.Errorf("unknown sheet: got %v", err)
	}
}
