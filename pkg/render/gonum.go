package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/matzehuels/benchviz/pkg/chart"
	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/timeaxis"
)

// maxTimeTicks bounds the number of major ticks on a time axis.
const maxTimeTicks = 8

// Gonum renders figures with gonum.org/v1/plot.
type Gonum struct {
	logger *log.Logger
}

// GonumOption configures a [Gonum] backend.
type GonumOption func(*Gonum)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) GonumOption {
	return func(g *Gonum) { g.logger = l }
}

// NewGonum returns a gonum/plot backend.
func NewGonum(opts ...GonumOption) *Gonum {
	g := &Gonum{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements [Backend].
func (g *Gonum) Name() string { return "gonum" }

// Available implements [Backend] by drawing a tiny probe chart.
func (g *Gonum) Available() error {
	probe := &chart.Figure{
		Kind: chart.Line, WidthPx: 200, HeightPx: 200, DPI: 100, Style: "whitegrid", Format: "png",
		Series: []chart.Series{{Points: []chart.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}},
	}
	if _, err := g.Render(context.Background(), probe); err != nil {
		return errors.Wrap(errors.ErrCodeBackendUnavailable, err, "plotting backend %s unavailable", g.Name())
	}
	return nil
}

// Render implements [Backend]. Panics raised while drawing are returned as
// render errors.
func (g *Gonum) Render(ctx context.Context, fig *chart.Figure) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, errors.New(errors.ErrCodeRender, "draw %s: %v", fig.Kind, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := fig.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "invalid figure")
	}

	p, err := g.plot(fig)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "build %s plot", fig.Kind)
	}

	data, err = encode(p, fig)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode %s", fig.Format)
	}
	g.logger.Debug("rendered figure", "kind", fig.Kind, "format", fig.Format, "bytes", len(data))
	return data, nil
}

func (g *Gonum) plot(fig *chart.Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel

	th, err := themeFor(fig.Style)
	if err != nil {
		return nil, err
	}
	th.apply(p)

	var entries []legendEntry
	switch fig.Kind {
	case chart.Line:
		entries, err = addLines(p, fig)
	case chart.Histogram:
		entries, err = addHistogram(p, fig.Hist)
	case chart.Box:
		entries, err = addBoxes(p, fig)
	}
	if err != nil {
		return nil, err
	}

	configureXAxis(p, fig.XAxis)
	if fig.Legend.Show {
		placeLegend(p, fig.Legend.Location)
		for _, e := range entries {
			p.Legend.Add(e.name, e.thumb)
		}
	}
	scaleFonts(p, fig.FontScale)
	return p, nil
}

type legendEntry struct {
	name  string
	thumb plot.Thumbnailer
}

func addLines(p *plot.Plot, fig *chart.Figure) ([]legendEntry, error) {
	var entries []legendEntry
	for i, s := range fig.Series {
		style := draw.LineStyle{Color: plotutil.Color(i), Width: vg.Points(1.5)}
		var first *plotter.Line
		for _, seg := range segments(s.Points) {
			l, err := plotter.NewLine(seg)
			if err != nil {
				return nil, fmt.Errorf("series %q: %w", s.Name, err)
			}
			l.LineStyle = style
			p.Add(l)
			if first == nil {
				first = l
			}
		}
		if first == nil {
			first = &plotter.Line{LineStyle: style}
		}
		entries = append(entries, legendEntry{name: s.Name, thumb: first})
	}
	return entries, nil
}

// segments splits points at NaN y values; gonum lines cannot carry gaps.
func segments(pts []chart.Point) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for _, pt := range pts {
		if math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: pt.X, Y: pt.Y})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func addHistogram(p *plot.Plot, h *chart.HistData) ([]legendEntry, error) {
	var entries []legendEntry
	for i, g := range h.Groups {
		c := plotutil.Color(i)
		var thumb plot.Thumbnailer
		switch h.Element {
		case chart.ElementStep, chart.ElementPoly:
			l, err := plotter.NewLine(outline(h.Edges, g.Weights, h.Element))
			if err != nil {
				return nil, fmt.Errorf("histogram %q: %w", g.Name, err)
			}
			l.LineStyle = draw.LineStyle{Color: c, Width: vg.Points(1.5)}
			l.FillColor = withAlpha(c, 0x40)
			if h.Element == chart.ElementStep {
				l.StepStyle = plotter.PostStep
			}
			p.Add(l)
			thumb = l
		default:
			bins := make([]plotter.HistogramBin, len(g.Weights))
			for j, w := range g.Weights {
				bins[j] = plotter.HistogramBin{Min: h.Edges[j], Max: h.Edges[j+1], Weight: w}
			}
			fill := c
			if len(h.Groups) > 1 {
				fill = withAlpha(c, 0x80)
			}
			hist := &plotter.Histogram{
				Bins:      bins,
				Width:     h.Edges[1] - h.Edges[0],
				FillColor: fill,
				LineStyle: draw.LineStyle{Color: color.White, Width: vg.Points(0.5)},
			}
			p.Add(hist)
			thumb = hist
		}
		entries = append(entries, legendEntry{name: g.Name, thumb: thumb})
	}
	return entries, nil
}

// outline returns the polyline of one histogram layer. Step outlines run
// along bin tops and drop to zero at both ends; poly outlines join bin
// centres.
func outline(edges, weights []float64, element string) plotter.XYs {
	n := len(weights)
	if element == chart.ElementPoly {
		pts := make(plotter.XYs, n)
		for i, w := range weights {
			pts[i] = plotter.XY{X: (edges[i] + edges[i+1]) / 2, Y: w}
		}
		return pts
	}
	pts := make(plotter.XYs, 0, n+3)
	pts = append(pts, plotter.XY{X: edges[0], Y: 0})
	for i, w := range weights {
		pts = append(pts, plotter.XY{X: edges[i], Y: w})
	}
	pts = append(pts,
		plotter.XY{X: edges[n], Y: weights[n-1]},
		plotter.XY{X: edges[n], Y: 0},
	)
	return pts
}

func addBoxes(p *plot.Plot, fig *chart.Figure) ([]legendEntry, error) {
	b := fig.Boxes
	nc, nh := len(b.Categories), len(b.Hues)
	if nc == 0 {
		return nil, nil
	}

	// Boxes of one category share 80% of its slot on the data axis.
	slot := vg.Length(fig.WidthInches()) * vg.Inch * 0.8 / vg.Length(nc)
	width := slot * 0.8 / vg.Length(nh)
	if maxWidth := vg.Points(60); width > maxWidth {
		width = maxWidth
	}

	for ci, row := range b.Values {
		for hi, vals := range row {
			if len(vals) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(width, float64(ci), plotter.Values(vals))
			if err != nil {
				return nil, fmt.Errorf("box %q/%q: %w", b.Categories[ci], b.Hues[hi], err)
			}
			box.FillColor = plotutil.Color(hi)
			box.Offset = (vg.Length(hi) - vg.Length(nh-1)/2) * width
			p.Add(box)
		}
	}
	p.NominalX(b.Categories...)

	var entries []legendEntry
	for hi, h := range b.Hues {
		entries = append(entries, legendEntry{name: h, thumb: swatch{plotutil.Color(hi)}})
	}
	return entries, nil
}

// swatch is a filled legend thumbnail.
type swatch struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	r := c.Rectangle
	c.FillPolygon(s.color, []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	})
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

func configureXAxis(p *plot.Plot, ax chart.XAxis) {
	switch {
	case ax.Time:
		p.X.Tick.Marker = plot.TimeTicks{
			Ticker: calendarTicker{},
			Format: ax.TickLayout,
			Time:   plot.UTCUnixTime,
		}
	case len(ax.Categories) > 0:
		p.NominalX(ax.Categories...)
	}
	if ax.LabelAngle != 0 {
		p.X.Tick.Label.Rotation = ax.LabelAngle * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
}

// calendarTicker places time ticks at round calendar intervals.
type calendarTicker struct{}

// Ticks implements plot.Ticker.
func (calendarTicker) Ticks(lo, hi float64) []plot.Tick {
	values := timeaxis.Ticks(lo, hi, maxTimeTicks)
	if len(values) < 2 {
		return plot.DefaultTicks{}.Ticks(lo, hi)
	}
	ticks := make([]plot.Tick, len(values))
	for i, v := range values {
		// TimeTicks replaces non-empty labels with the formatted time.
		ticks[i] = plot.Tick{Value: v, Label: "t"}
	}
	return ticks
}

// placeLegend maps a legend location name onto gonum's corner placement.
// Centred placements keep the nearest corner.
func placeLegend(p *plot.Plot, loc string) {
	switch loc {
	case "upper left", "center left":
		p.Legend.Top, p.Legend.Left = true, true
	case "lower left":
		p.Legend.Top, p.Legend.Left = false, true
	case "lower right", "lower center":
		p.Legend.Top, p.Legend.Left = false, false
	default:
		p.Legend.Top, p.Legend.Left = true, false
	}
}

func scaleFonts(p *plot.Plot, scale float64) {
	if scale <= 0 || scale == 1 {
		return
	}
	s := vg.Length(scale)
	p.Title.TextStyle.Font.Size *= s
	p.X.Label.TextStyle.Font.Size *= s
	p.Y.Label.TextStyle.Font.Size *= s
	p.X.Tick.Label.Font.Size *= s
	p.Y.Tick.Label.Font.Size *= s
	p.Legend.TextStyle.Font.Size *= s
}

// encode draws p on a canvas of the figure's physical size.
func encode(p *plot.Plot, fig *chart.Figure) ([]byte, error) {
	w := vg.Length(fig.WidthInches()) * vg.Inch
	h := vg.Length(fig.HeightInches()) * vg.Inch

	var buf bytes.Buffer
	var wt io.WriterTo
	switch fig.Format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(fig.DPI))
		p.Draw(draw.New(c))
		switch fig.Format {
		case "png":
			wt = vgimg.PngCanvas{Canvas: c}
		case "jpg", "jpeg":
			wt = vgimg.JpegCanvas{Canvas: c}
		default:
			wt = vgimg.TiffCanvas{Canvas: c}
		}
	case "svg":
		c := vgsvg.New(w, h)
		p.Draw(draw.New(c))
		wt = c
	case "pdf":
		c := vgpdf.New(w, h)
		p.Draw(draw.New(c))
		wt = c
	case "eps":
		c := vgeps.New(w, h)
		p.Draw(draw.New(c))
		wt = c
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported output format: %s", fig.Format)
	}
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	if fig.Format == "eps" {
		return fixEPSHeader(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// fixEPSHeader drops the extra '%' vgeps emits before the "%!PS-Adobe"
// magic, which readers need as the first bytes of the file.
func fixEPSHeader(b []byte) []byte {
	if bytes.HasPrefix(b, []byte("%%!PS")) {
		return b[1:]
	}
	return b
}
