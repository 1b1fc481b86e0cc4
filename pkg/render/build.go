package render

import (
	"math"
	"sort"
	"time"

	"github.com/matzehuels/benchviz/pkg/chart"
	"github.com/matzehuels/benchviz/pkg/chartspec"
	"github.com/matzehuels/benchviz/pkg/downsample"
	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/table"
	"github.com/matzehuels/benchviz/pkg/timeaxis"
)

// BuildStats describes what [Build] did to the input rows.
type BuildStats struct {
	RowsIn   int
	RowsOut  int
	Sampling downsample.Strategy // empty when every row was kept
	Seed     *uint64             // seed used by random sampling
	Time     timeaxis.Decision   // time series only
}

// BuildOption configures [Build].
type BuildOption func(*buildConfig)

type buildConfig struct {
	seed *uint64
}

// WithSeed sets the random sampling seed used when the spec names none.
func WithSeed(seed uint64) BuildOption {
	return func(c *buildConfig) { c.seed = &seed }
}

// Build resolves spec against t into a figure. t is never modified; column
// conversions work on copies.
func Build(t *table.Table, spec *chartspec.Spec, opts ...BuildOption) (*chart.Figure, BuildStats, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := spec.Validate(); err != nil {
		return nil, BuildStats{}, err
	}
	if err := spec.ValidateColumns(t); err != nil {
		return nil, BuildStats{}, err
	}

	o := spec.Options
	seed := o.RandomState
	if seed == nil {
		seed = cfg.seed
	}

	fig := &chart.Figure{
		Title:    spec.Title,
		XLabel:   spec.X,
		YLabel:   spec.Y,
		WidthPx:  o.WidthPx,
		HeightPx: o.HeightPx,
		DPI:      o.DPI,
		Style:    o.Style,
		Format:   spec.Format,
		XAxis:    chart.XAxis{LabelAngle: o.XLabelAngle},
	}
	stats := BuildStats{RowsIn: t.Len()}

	var grouped bool
	switch spec.Type {
	case chartspec.TimeSeries:
		grouped = buildLines(fig, t, spec, seed, &stats)
	case chartspec.Histogram:
		grouped = buildHistogram(fig, t, spec, seed, &stats)
	case chartspec.Boxplot:
		grouped = buildBoxes(fig, t, spec, seed, &stats)
	default:
		return nil, stats, errors.New(errors.ErrCodeUnsupportedChart, "unsupported plot type: %s", spec.Type)
	}

	// Grouped charts carry a legend by default; an explicit setting wins.
	fig.Legend = chart.Legend{Show: grouped, Location: o.LegendLoc}
	if o.Legend != nil {
		fig.Legend.Show = *o.Legend
	}
	return fig, stats, nil
}

// sample applies the row cap and returns the kept row indices.
func sample(n, cap int, strategy downsample.Strategy, seed *uint64, stats *BuildStats) []int {
	plan := downsample.Choose(n, cap, strategy, seed)
	if !plan.Applied() {
		stats.RowsOut = n
		return allRows(n)
	}
	stats.RowsOut = len(plan.Rows)
	stats.Sampling = plan.Strategy
	if plan.Strategy == downsample.StrategyRandom {
		stats.Seed = seed
	}
	return plan.Rows
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// sortByX orders rows by xs, NaN last, keeping ties in row order.
func sortByX(rows []int, xs []float64) {
	sort.SliceStable(rows, func(a, b int) bool {
		xa, xb := xs[rows[a]], xs[rows[b]]
		if math.IsNaN(xb) {
			return !math.IsNaN(xa)
		}
		return xa < xb
	})
}

func buildLines(fig *chart.Figure, t *table.Table, spec *chartspec.Spec, seed *uint64, stats *BuildStats) bool {
	o := spec.Options
	fig.Kind = chart.Line

	xcol, _ := t.Column(spec.X)
	hint := timeaxis.Hint{Format: o.XTimeFormat, Unit: o.XTimeUnit}
	decision, xs := timeaxis.Resolve(hint, xcol.Strings(), xcol.Kind == table.Numeric)
	stats.Time = decision

	if !decision.IsTime() && xcol.Kind == table.Text {
		fig.XAxis.Categories, xs = categoricalPositions(xcol)
	}

	rows := sample(t.Len(), o.MaxPoints, downsample.Strategy(o.Sampling), seed, stats)
	if stats.Sampling == downsample.StrategyRandom {
		sortByX(rows, xs)
	}

	ys := t.Floats(spec.Y)
	var hues []string
	if spec.Grouped() {
		hues = t.Strings(spec.GroupBy)
	}
	levels := []string{""}
	if hues != nil {
		hcol, _ := t.Column(spec.GroupBy)
		levels = categoryOrder(subset(hues, rows), hcol.Kind == table.Numeric)
	}

	byLevel := make(map[string]int, len(levels))
	series := make([]chart.Series, len(levels))
	for i, l := range levels {
		byLevel[l] = i
		series[i].Name = l
	}
	if hues == nil {
		series[0].Name = spec.Y
	}

	for _, r := range rows {
		if math.IsNaN(xs[r]) {
			continue
		}
		i := 0
		if hues != nil {
			if hues[r] == "" {
				continue
			}
			i = byLevel[hues[r]]
		}
		series[i].Points = append(series[i].Points, chart.Point{X: xs[r], Y: ys[r]})
	}
	for i := range series {
		series[i].Points = meanByX(series[i].Points)
	}
	fig.Series = series

	if decision.IsTime() {
		fig.XAxis.Time = true
		layout, ok := timeaxis.TickLayout(o.XTimestampFormat)
		if !ok {
			layout = timeaxis.AutoTickLayout(span(series))
		}
		fig.XAxis.TickLayout = layout
	}
	return hues != nil
}

// meanByX sorts points by x and averages y over repeated x values. Missing
// y values are ignored by the mean; an x with no present y keeps a NaN so
// the line shows a gap there.
func meanByX(pts []chart.Point) []chart.Point {
	if len(pts) == 0 {
		return pts
	}
	sort.SliceStable(pts, func(a, b int) bool { return pts[a].X < pts[b].X })
	out := pts[:0]
	for i := 0; i < len(pts); {
		j, sum, n := i, 0.0, 0
		for ; j < len(pts) && pts[j].X == pts[i].X; j++ {
			if !math.IsNaN(pts[j].Y) {
				sum += pts[j].Y
				n++
			}
		}
		y := math.NaN()
		if n > 0 {
			y = sum / float64(n)
		}
		out = append(out, chart.Point{X: pts[i].X, Y: y})
		i = j
	}
	return out
}

func span(series []chart.Series) time.Duration {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X)
		}
	}
	if !(hi > lo) {
		return 0
	}
	return time.Duration((hi - lo) * float64(time.Second))
}

func buildHistogram(fig *chart.Figure, t *table.Table, spec *chartspec.Spec, seed *uint64, stats *BuildStats) bool {
	o := spec.Options
	fig.Kind = chart.Histogram
	fig.YLabel = "Probability"

	rows := sample(t.Len(), o.MaxRows, downsample.StrategyRandom, seed, stats)
	xs := t.Floats(spec.X)

	var hues []string
	levels := []string{""}
	if spec.Grouped() {
		hues = t.Strings(spec.GroupBy)
		hcol, _ := t.Column(spec.GroupBy)
		levels = categoryOrder(subset(hues, rows), hcol.Kind == table.Numeric)
	}

	groups := make([][]float64, len(levels))
	byLevel := make(map[string]int, len(levels))
	for i, l := range levels {
		byLevel[l] = i
	}
	for _, r := range rows {
		v := xs[r]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		i := 0
		if hues != nil {
			if hues[r] == "" {
				continue
			}
			i = byLevel[hues[r]]
		}
		groups[i] = append(groups[i], v)
	}

	element := chart.ElementBars
	if hues != nil {
		element = o.HistElement
	}
	fig.Hist = binGroups(levels, groups, o.Bins, hues == nil || o.HistCommonNorm, element)
	return hues != nil
}

func buildBoxes(fig *chart.Figure, t *table.Table, spec *chartspec.Spec, seed *uint64, stats *BuildStats) bool {
	o := spec.Options
	fig.Kind = chart.Box

	rows := sample(t.Len(), o.MaxRows, downsample.StrategyRandom, seed, stats)
	xcol, _ := t.Column(spec.X)
	cats := xcol.Strings()
	ys := t.Floats(spec.Y)

	var hues []string
	hueLevels := []string{""}
	if spec.Grouped() {
		hues = t.Strings(spec.GroupBy)
		hcol, _ := t.Column(spec.GroupBy)
		hueLevels = categoryOrder(subset(hues, rows), hcol.Kind == table.Numeric)
	}
	catLevels := categoryOrder(subset(cats, rows), xcol.Kind == table.Numeric)

	catIndex := indexOf(catLevels)
	hueIndex := indexOf(hueLevels)
	values := make([][][]float64, len(catLevels))
	for i := range values {
		values[i] = make([][]float64, len(hueLevels))
	}
	for _, r := range rows {
		if cats[r] == "" || math.IsNaN(ys[r]) || math.IsInf(ys[r], 0) {
			continue
		}
		h := 0
		if hues != nil {
			if hues[r] == "" {
				continue
			}
			h = hueIndex[hues[r]]
		}
		c := catIndex[cats[r]]
		values[c][h] = append(values[c][h], ys[r])
	}

	fig.Boxes = &chart.BoxData{Categories: catLevels, Hues: hueLevels, Values: values}
	return hues != nil
}

func indexOf(levels []string) map[string]int {
	m := make(map[string]int, len(levels))
	for i, l := range levels {
		m[l] = i
	}
	return m
}

func subset(values []string, rows []int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = values[r]
	}
	return out
}
