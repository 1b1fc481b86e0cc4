package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/benchviz/pkg/errors"
)

// theme is a named visual style.
type theme struct {
	panel color.Color // data area fill, nil for none
	grid  color.Color // grid line colour, nil for no grid
	ticks bool        // draw tick marks
}

var (
	lightPanel = color.NRGBA{R: 0xea, G: 0xea, B: 0xf2, A: 0xff}
	lightGrid  = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
)

var themes = map[string]theme{
	"whitegrid": {grid: lightGrid},
	"darkgrid":  {panel: lightPanel, grid: color.White},
	"white":     {},
	"dark":      {panel: lightPanel},
	"ticks":     {ticks: true},
}

func themeFor(name string) (theme, error) {
	th, ok := themes[name]
	if !ok {
		return theme{}, errors.New(errors.ErrCodeInvalidSpec, "unknown style %q", name)
	}
	return th, nil
}

func (th theme) apply(p *plot.Plot) {
	p.BackgroundColor = color.White
	if th.panel != nil {
		p.Add(panel{color: th.panel})
	}
	if th.grid != nil {
		g := plotter.NewGrid()
		g.Vertical = draw.LineStyle{Color: th.grid, Width: vg.Points(0.8)}
		g.Horizontal = draw.LineStyle{Color: th.grid, Width: vg.Points(0.8)}
		p.Add(g)
	}
	if !th.ticks {
		p.X.Tick.Length = 0
		p.Y.Tick.Length = 0
	}
}

// panel fills the data area. It is added before any data so it stays behind.
type panel struct {
	color color.Color
}

// Plot implements plot.Plotter.
func (pn panel) Plot(c draw.Canvas, _ *plot.Plot) {
	c.SetColor(pn.color)
	c.Fill(c.Rectangle.Path())
}
