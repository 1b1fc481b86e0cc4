// Package chart defines the typed chart description handed to rendering
// backends.
//
// A [Figure] is fully resolved: time conversion, sampling, grouping and
// binning have already happened. Backends only draw what it says, so every
// decision worth testing lives in the code that builds it.
package chart

import (
	"fmt"
	"math"
)

// Kind is the chart shape.
type Kind string

// Chart shapes.
const (
	Line      Kind = "line"
	Histogram Kind = "histogram"
	Box       Kind = "box"
)

// Histogram draw styles.
const (
	ElementBars = "bars"
	ElementStep = "step"
	ElementPoly = "poly"
)

// Figure is a complete chart description.
type Figure struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string

	WidthPx  int
	HeightPx int
	DPI      int
	Style    string
	Format   string

	// FontScale multiplies every text size; zero means 1. Layout fitting
	// lowers it when labels would not fit the canvas.
	FontScale float64

	Legend Legend
	XAxis  XAxis

	Series []Series  // Line
	Hist   *HistData // Histogram
	Boxes  *BoxData  // Box
}

// Legend controls the legend box.
type Legend struct {
	Show     bool
	Location string
}

// XAxis describes the horizontal axis.
type XAxis struct {
	// Time marks X values as Unix seconds.
	Time bool
	// TickLayout is the Go time layout for tick labels when Time is set.
	TickLayout string
	// LabelAngle rotates tick labels, in degrees.
	LabelAngle float64
	// Categories labels integer X positions 0..n-1 for categorical axes.
	Categories []string
}

// Point is one sample of a line series.
type Point struct {
	X, Y float64
}

// Series is one line. A NaN Y breaks the line into separate segments.
type Series struct {
	Name   string
	Points []Point
}

// HistData holds pre-binned histogram groups sharing one set of edges.
type HistData struct {
	Edges   []float64 // len(bins)+1, ascending
	Groups  []HistGroup
	Element string
}

// HistGroup is one histogram layer. Weights[i] is the probability mass of
// the bin between Edges[i] and Edges[i+1].
type HistGroup struct {
	Name    string
	Weights []float64
}

// BoxData holds box samples laid out by category and hue level.
type BoxData struct {
	Categories []string
	Hues       []string      // a single empty hue when ungrouped
	Values     [][][]float64 // [category][hue] samples
}

// Grouped reports whether the box data is split by hue.
func (b *BoxData) Grouped() bool { return len(b.Hues) > 1 || (len(b.Hues) == 1 && b.Hues[0] != "") }

// WidthInches returns the canvas width in inches.
func (f *Figure) WidthInches() float64 { return float64(f.WidthPx) / float64(f.DPI) }

// HeightInches returns the canvas height in inches.
func (f *Figure) HeightInches() float64 { return float64(f.HeightPx) / float64(f.DPI) }

// Validate rejects figures no backend could draw.
func (f *Figure) Validate() error {
	if f.WidthPx <= 0 || f.HeightPx <= 0 || f.DPI <= 0 {
		return fmt.Errorf("invalid canvas %dx%d at %d dpi", f.WidthPx, f.HeightPx, f.DPI)
	}
	switch f.Kind {
	case Line:
		for _, s := range f.Series {
			for _, p := range s.Points {
				if math.IsNaN(p.X) {
					return fmt.Errorf("series %q has a point without x", s.Name)
				}
			}
		}
	case Histogram:
		h := f.Hist
		if h == nil {
			return fmt.Errorf("histogram figure without data")
		}
		if len(h.Edges) < 2 {
			return fmt.Errorf("histogram needs at least one bin")
		}
		for i := 1; i < len(h.Edges); i++ {
			if !(h.Edges[i] > h.Edges[i-1]) {
				return fmt.Errorf("histogram edges are not increasing at %d", i)
			}
		}
		for _, g := range h.Groups {
			if len(g.Weights) != len(h.Edges)-1 {
				return fmt.Errorf("histogram group %q has %d weights for %d bins", g.Name, len(g.Weights), len(h.Edges)-1)
			}
		}
	case Box:
		b := f.Boxes
		if b == nil {
			return fmt.Errorf("box figure without data")
		}
		if len(b.Hues) == 0 {
			return fmt.Errorf("box figure without hue levels")
		}
		if len(b.Values) != len(b.Categories) {
			return fmt.Errorf("box figure has %d value rows for %d categories", len(b.Values), len(b.Categories))
		}
		for i, row := range b.Values {
			if len(row) != len(b.Hues) {
				return fmt.Errorf("category %q has %d hue cells, want %d", b.Categories[i], len(row), len(b.Hues))
			}
		}
	default:
		return fmt.Errorf("unknown figure kind %q", f.Kind)
	}
	return nil
}
