package chart

import (
	"math"
	"testing"
)

func TestFigureValidate(t *testing.T) {
	canvas := func(k Kind) Figure {
		return Figure{Kind: k, WidthPx: 1200, HeightPx: 600, DPI: 150}
	}

	tests := []struct {
		name    string
		fig     func() Figure
		wantErr bool
	}{
		{"empty line chart", func() Figure { return canvas(Line) }, false},
		{"line with y gap", func() Figure {
			f := canvas(Line)
			f.Series = []Series{{Points: []Point{{1, 2}, {2, math.NaN()}, {3, 4}}}}
			return f
		}, false},
		{"line without x", func() Figure {
			f := canvas(Line)
			f.Series = []Series{{Points: []Point{{math.NaN(), 2}}}}
			return f
		}, true},
		{"zero dpi", func() Figure { f := canvas(Line); f.DPI = 0; return f }, true},
		{"histogram without data", func() Figure { return canvas(Histogram) }, true},
		{"histogram ok", func() Figure {
			f := canvas(Histogram)
			f.Hist = &HistData{Edges: []float64{0, 1, 2}, Groups: []HistGroup{{Weights: []float64{0.5, 0.5}}}}
			return f
		}, false},
		{"histogram weight mismatch", func() Figure {
			f := canvas(Histogram)
			f.Hist = &HistData{Edges: []float64{0, 1, 2}, Groups: []HistGroup{{Weights: []float64{1}}}}
			return f
		}, true},
		{"histogram flat edges", func() Figure {
			f := canvas(Histogram)
			f.Hist = &HistData{Edges: []float64{1, 1}}
			return f
		}, true},
		{"box ok", func() Figure {
			f := canvas(Box)
			f.Boxes = &BoxData{Categories: []string{"a"}, Hues: []string{""}, Values: [][][]float64{{{1, 2}}}}
			return f
		}, false},
		{"box shape mismatch", func() Figure {
			f := canvas(Box)
			f.Boxes = &BoxData{Categories: []string{"a", "b"}, Hues: []string{""}, Values: [][][]float64{{{1}}}}
			return f
		}, true},
		{"unknown kind", func() Figure { return canvas("pie") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.fig()
			err := f.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFigureInches(t *testing.T) {
	f := Figure{WidthPx: 1200, HeightPx: 600, DPI: 150}
	if f.WidthInches() != 8 || f.HeightInches() != 4 {
		t.Errorf("inches = %v x %v, want 8 x 4", f.WidthInches(), f.HeightInches())
	}
}

func TestBoxGrouped(t *testing.T) {
	if (&BoxData{Hues: []string{""}}).Grouped() {
		t.Error("single empty hue is not grouped")
	}
	if !(&BoxData{Hues: []string{"a", "b"}}).Grouped() {
		t.Error("two hues are grouped")
	}
}
