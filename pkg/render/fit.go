package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/benchviz/pkg/chart"
)

// minFontScale is the smallest text scale Fit will choose.
const minFontScale = 0.6

// Fit implements [Fitter]. It shrinks text so that legend entries fit the
// canvas height and unrotated category labels fit their slots. When even the
// smallest scale is not enough it still applies that scale and reports the
// overflow.
func (g *Gonum) Fit(fig *chart.Figure) error {
	p := plot.New()
	w := vg.Length(fig.WidthInches()) * vg.Inch
	h := vg.Length(fig.HeightInches()) * vg.Inch
	scale := 1.0

	if fig.Legend.Show {
		if n := legendLen(fig); n > 0 {
			need := p.Legend.TextStyle.Height("M") * vg.Length(n)
			if avail := h * 0.7; need > avail {
				scale = min(scale, float64(avail/need))
			}
		}
	}

	if labels := categoryLabels(fig); len(labels) > 0 && fig.XAxis.LabelAngle == 0 {
		slot := w * 0.8 / vg.Length(len(labels))
		var widest vg.Length
		for _, l := range labels {
			widest = max(widest, p.X.Tick.Label.Width(l))
		}
		if widest > slot {
			scale = min(scale, float64(slot/widest))
		}
	}

	fig.FontScale = 1
	if scale < 1 {
		fig.FontScale = max(scale, minFontScale)
		g.logger.Debug("fitted layout", "font_scale", fig.FontScale)
	}
	if scale < minFontScale {
		return fmt.Errorf("labels need font scale %.2f, below minimum %.2f", scale, minFontScale)
	}
	return nil
}

func legendLen(fig *chart.Figure) int {
	switch fig.Kind {
	case chart.Line:
		return len(fig.Series)
	case chart.Histogram:
		if fig.Hist != nil {
			return len(fig.Hist.Groups)
		}
	case chart.Box:
		if fig.Boxes != nil {
			return len(fig.Boxes.Hues)
		}
	}
	return 0
}

func categoryLabels(fig *chart.Figure) []string {
	if fig.Kind == chart.Box && fig.Boxes != nil {
		return fig.Boxes.Categories
	}
	return fig.XAxis.Categories
}

var _ Fitter = (*Gonum)(nil)
var _ Backend = (*Gonum)(nil)
