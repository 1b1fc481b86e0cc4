package chartspec

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/table"
)

func TestDecodeDefaults(t *testing.T) {
	spec, err := Decode([]byte(`{"type":"histogram","x":"latency_ms"}`), DocJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if spec.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", spec.Format, DefaultFormat)
	}
	if !reflect.DeepEqual(spec.Options, DefaultOptions()) {
		t.Errorf("Options = %+v, want defaults", spec.Options)
	}
	if err := spec.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecodeOptions(t *testing.T) {
	doc := `{
		"type": "time_series",
		"x": "ts", "y": "latency_ms", "groupby": "task_type",
		"format": "SVG",
		"opts": {
			"style": "darkgrid",
			"dpi": "100",
			"width_px": 800,
			"x_time_format": "UNIX_MS",
			"x_label_angle": 45,
			"max_points": 500,
			"sampling": "random",
			"random_state": 18446744073709551615,
			"legend": "false",
			"hist_common_norm": true,
			"colour": "red",
			"title_size": 12
		}
	}`
	spec, err := Decode([]byte(doc), DocJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	o := spec.Options
	if o.Style != "darkgrid" || o.DPI != 100 || o.WidthPx != 800 || o.HeightPx != DefaultHeightPx {
		t.Errorf("sizing options = %+v", o)
	}
	if o.XTimeFormat != "unix_ms" || o.XLabelAngle != 45 {
		t.Errorf("time options = %q %v", o.XTimeFormat, o.XLabelAngle)
	}
	if o.MaxPoints != 500 || o.Sampling != SamplingRandom {
		t.Errorf("sampling options = %d %q", o.MaxPoints, o.Sampling)
	}
	if o.RandomState == nil || *o.RandomState != 18446744073709551615 {
		t.Errorf("RandomState = %v", o.RandomState)
	}
	if o.Legend == nil || *o.Legend {
		t.Errorf("Legend = %v, want explicit false", o.Legend)
	}
	if !o.HistCommonNorm {
		t.Error("HistCommonNorm should be true")
	}
	if spec.Format != "svg" {
		t.Errorf("Format = %q", spec.Format)
	}
	if want := []string{"colour", "title_size"}; !reflect.DeepEqual(spec.UnknownOptions, want) {
		t.Errorf("UnknownOptions = %v, want %v", spec.UnknownOptions, want)
	}
	if !spec.Grouped() {
		t.Error("spec with groupby should be grouped")
	}
}

func TestDecodeTopLevelTimeHints(t *testing.T) {
	spec, err := Decode([]byte(`{"type":"time_series","x":"t","y":"v","x_time_format":"unix","x_time_unit":"ms"}`), DocJSON)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Options.XTimeFormat != "unix" || spec.Options.XTimeUnit != "ms" {
		t.Errorf("top-level hints not applied: %+v", spec.Options)
	}

	// opts take precedence over top-level keys.
	spec, err = Decode([]byte(`{"type":"time_series","x":"t","y":"v","x_time_format":"unix","opts":{"x_time_format":"rfc3339"}}`), DocJSON)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Options.XTimeFormat != "rfc3339" {
		t.Errorf("XTimeFormat = %q, want rfc3339", spec.Options.XTimeFormat)
	}
}

func TestDecodeTOML(t *testing.T) {
	doc := `
type = "boxplot"
x = "task_type"
y = "latency_ms"
title = "Latency by task"

[opts]
max_rows = 1000
random_state = 7
legend = true
legend_loc = "upper left"
`
	spec, err := Decode([]byte(doc), DocTOML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if spec.Type != Boxplot || spec.Title != "Latency by task" {
		t.Errorf("spec = %+v", spec)
	}
	o := spec.Options
	if o.MaxRows != 1000 || o.RandomState == nil || *o.RandomState != 7 {
		t.Errorf("sampling = %d %v", o.MaxRows, o.RandomState)
	}
	if o.Legend == nil || !*o.Legend || o.LegendLoc != "upper left" {
		t.Errorf("legend = %v %q", o.Legend, o.LegendLoc)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"type":`},
		{"bad number", `{"type":"histogram","x":"a","opts":{"bins":"many"}}`},
		{"bad bool", `{"type":"histogram","x":"a","opts":{"legend":"maybe"}}`},
		{"negative seed", `{"type":"histogram","x":"a","opts":{"random_state":-1}}`},
		{"string style", `{"type":"histogram","x":"a","opts":{"style":3}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), DocJSON)
			if !errors.Is(err, errors.ErrCodeInvalidSpec) {
				t.Errorf("got %v, want INVALID_SPEC", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	base := func() *Spec {
		return &Spec{Type: TimeSeries, X: "t", Y: "v", Format: "png", Options: DefaultOptions()}
	}

	tests := []struct {
		name   string
		mutate func(*Spec)
		code   errors.Code
	}{
		{"valid", func(*Spec) {}, ""},
		{"unsupported type", func(s *Spec) { s.Type = "scatter3d" }, errors.ErrCodeUnsupportedChart},
		{"missing x", func(s *Spec) { s.X = "" }, errors.ErrCodeInvalidSpec},
		{"missing y", func(s *Spec) { s.Y = "" }, errors.ErrCodeInvalidSpec},
		{"histogram without y", func(s *Spec) { s.Type = Histogram; s.Y = "" }, ""},
		{"bad format", func(s *Spec) { s.Format = "bmp" }, errors.ErrCodeInvalidFormat},
		{"bad style", func(s *Spec) { s.Options.Style = "neon" }, errors.ErrCodeInvalidSpec},
		{"zero dpi", func(s *Spec) { s.Options.DPI = 0 }, errors.ErrCodeInvalidSpec},
		{"zero bins", func(s *Spec) { s.Options.Bins = 0 }, errors.ErrCodeInvalidSpec},
		{"negative max_points", func(s *Spec) { s.Options.MaxPoints = -1 }, errors.ErrCodeInvalidSpec},
		{"bad sampling", func(s *Spec) { s.Options.Sampling = "reservoir" }, errors.ErrCodeInvalidSpec},
		{"bad element", func(s *Spec) { s.Options.HistElement = "kde" }, errors.ErrCodeInvalidSpec},
		{"bad legend_loc", func(s *Spec) { s.Options.LegendLoc = "outside" }, errors.ErrCodeInvalidSpec},
		{"unknown time hint", func(s *Spec) { s.Options.XTimeFormat = "julian" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := s.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidateColumns(t *testing.T) {
	tab, err := table.New([]string{"t", "v", "g"}, [][]string{{"1", "2", "a"}})
	if err != nil {
		t.Fatal(err)
	}

	ok := &Spec{Type: TimeSeries, X: "t", Y: "v", GroupBy: "g"}
	if err := ok.ValidateColumns(tab); err != nil {
		t.Errorf("ValidateColumns: %v", err)
	}

	// Histograms ignore y.
	hist := &Spec{Type: Histogram, X: "v", Y: "nope"}
	if err := hist.ValidateColumns(tab); err != nil {
		t.Errorf("histogram ValidateColumns: %v", err)
	}

	missing := &Spec{Type: Boxplot, X: "t", Y: "v", GroupBy: "host"}
	if err := missing.ValidateColumns(tab); !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("got %v, want MISSING_COLUMN", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "chart.json")
	tomlPath := filepath.Join(dir, "chart.toml")
	os.WriteFile(jsonPath, []byte(`{"type":"histogram","x":"a"}`), 0644)
	os.WriteFile(tomlPath, []byte("type = \"histogram\"\nx = \"a\"\n"), 0644)

	for _, p := range []string{jsonPath, tomlPath} {
		spec, err := Load(p)
		if err != nil {
			t.Fatalf("Load(%s): %v", p, err)
		}
		if spec.Type != Histogram || spec.X != "a" {
			t.Errorf("Load(%s) = %+v", p, spec)
		}
	}

	if _, err := Load(filepath.Join(dir, "absent.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing spec: got %v", err)
	}
}

func TestCanonicalStable(t *testing.T) {
	a, _ := Decode([]byte(`{"type":"histogram","x":"a","opts":{"bins":8,"dpi":100}}`), DocJSON)
	b, _ := Decode([]byte(`{"opts":{"dpi":100,"bins":8},"x":"a","type":"histogram"}`), DocJSON)
	if string(a.Canonical()) != string(b.Canonical()) {
		t.Errorf("Canonical differs:\n%s\n%s", a.Canonical(), b.Canonical())
	}
}
