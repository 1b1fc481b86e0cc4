package render

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/benchviz/pkg/chart"
	"github.com/matzehuels/benchviz/pkg/chartspec"
	"github.com/matzehuels/benchviz/pkg/downsample"
	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/table"
	"github.com/matzehuels/benchviz/pkg/timeaxis"
)

func mustTable(t *testing.T, header []string, rows [][]string) *table.Table {
	t.Helper()
	tab, err := table.New(header, rows)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tab
}

func newSpec(typ chartspec.Type, x, y, groupby string) *chartspec.Spec {
	return &chartspec.Spec{
		Type: typ, X: x, Y: y, GroupBy: groupby,
		Format: "png", Options: chartspec.DefaultOptions(),
	}
}

// latencyTable has n rows of epoch-second timestamps, latencies and two
// alternating task types.
func latencyTable(t *testing.T, n int) *table.Table {
	rows := make([][]string, n)
	for i := range rows {
		task := "read"
		if i%2 == 1 {
			task = "write"
		}
		rows[i] = []string{
			fmt.Sprint(1_700_000_000 + i),
			fmt.Sprint(10 + i%7),
			task,
		}
	}
	return mustTable(t, []string{"ts", "latency_ms", "task_type"}, rows)
}

func TestBuildTimeSeriesMagnitude(t *testing.T) {
	tab := latencyTable(t, 20)
	fig, stats, err := Build(tab, newSpec(chartspec.TimeSeries, "ts", "latency_ms", ""))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if fig.Kind != chart.Line || !fig.XAxis.Time {
		t.Fatalf("figure kind=%v time=%v", fig.Kind, fig.XAxis.Time)
	}
	if stats.Time.Unit != timeaxis.Seconds || stats.Time.Source != timeaxis.SourceMagnitude {
		t.Errorf("time decision = %+v", stats.Time)
	}
	if len(fig.Series) != 1 || len(fig.Series[0].Points) != 20 {
		t.Fatalf("series = %+v", fig.Series)
	}
	if fig.Series[0].Points[0].X != 1_700_000_000 {
		t.Errorf("first x = %v", fig.Series[0].Points[0].X)
	}
	if fig.XAxis.TickLayout != "15:04:05" {
		t.Errorf("auto tick layout = %q", fig.XAxis.TickLayout)
	}
	if fig.Legend.Show {
		t.Error("ungrouped chart should not show a legend by default")
	}
	if stats.Sampling != "" || stats.RowsOut != 20 {
		t.Errorf("unexpected sampling: %+v", stats)
	}
}

func TestBuildTimeSeriesGrouped(t *testing.T) {
	spec := newSpec(chartspec.TimeSeries, "ts", "latency_ms", "task_type")
	spec.Options.XTimestampFormat = "full"
	fig, _, err := Build(latencyTable(t, 10), spec)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range fig.Series {
		names = append(names, s.Name)
		if len(s.Points) != 5 {
			t.Errorf("series %q has %d points", s.Name, len(s.Points))
		}
	}
	if !reflect.DeepEqual(names, []string{"read", "write"}) {
		t.Errorf("series names = %v", names)
	}
	if !fig.Legend.Show || fig.Legend.Location != "best" {
		t.Errorf("legend = %+v", fig.Legend)
	}
	if fig.XAxis.TickLayout != "2006-01-02 15:04:05" {
		t.Errorf("tick layout = %q", fig.XAxis.TickLayout)
	}
}

func TestBuildLegendOverride(t *testing.T) {
	on, off := true, false

	spec := newSpec(chartspec.TimeSeries, "ts", "latency_ms", "")
	spec.Options.Legend = &on
	spec.Options.LegendLoc = "lower left"
	fig, _, _ := Build(latencyTable(t, 4), spec)
	if !fig.Legend.Show || fig.Legend.Location != "lower left" {
		t.Errorf("forced legend = %+v", fig.Legend)
	}

	spec = newSpec(chartspec.Boxplot, "task_type", "latency_ms", "task_type")
	spec.Options.Legend = &off
	fig, _, _ = Build(latencyTable(t, 4), spec)
	if fig.Legend.Show {
		t.Error("legend=false should hide the grouped legend")
	}
}

func TestBuildStrideSampling(t *testing.T) {
	spec := newSpec(chartspec.TimeSeries, "ts", "latency_ms", "")
	spec.Options.MaxPoints = 30
	fig, stats, err := Build(latencyTable(t, 100), spec)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Sampling != downsample.StrategyStride || stats.RowsOut != 33 {
		t.Errorf("stats = %+v, want stride with 33 rows", stats)
	}
	pts := fig.Series[0].Points
	if pts[0].X != 1_700_000_000 {
		t.Error("stride sampling must keep the first row")
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].X-pts[i-1].X != 3 {
			t.Fatalf("stride gap at %d: %v", i, pts[i].X-pts[i-1].X)
		}
	}
}

func TestBuildRandomSamplingReproducible(t *testing.T) {
	seed := uint64(11)
	spec := newSpec(chartspec.TimeSeries, "ts", "latency_ms", "")
	spec.Options.MaxPoints = 25
	spec.Options.Sampling = chartspec.SamplingRandom
	spec.Options.RandomState = &seed

	tab := latencyTable(t, 200)
	a, stats, err := Build(tab, spec)
	if err != nil {
		t.Fatal(err)
	}
	b, _, _ := Build(tab, spec)
	if !reflect.DeepEqual(a.Series, b.Series) {
		t.Error("seeded random sampling should be reproducible")
	}
	if stats.RowsOut != 25 || stats.Sampling != downsample.StrategyRandom {
		t.Errorf("stats = %+v", stats)
	}
	pts := a.Series[0].Points
	for i := 1; i < len(pts); i++ {
		if pts[i].X <= pts[i-1].X {
			t.Fatal("random sample should be re-sorted by x")
		}
	}
}

func TestBuildTimeParseFailuresBecomeGaps(t *testing.T) {
	tab := mustTable(t, []string{"when", "v"}, [][]string{
		{"2024-05-01T10:00:00Z", "1"},
		{"garbage", "2"},
		{"2024-05-01T10:00:02Z", ""},
		{"2024-05-01T10:00:03Z", "4"},
	})
	spec := newSpec(chartspec.TimeSeries, "when", "v", "")
	spec.Options.XTimeFormat = "rfc3339"
	fig, stats, err := Build(tab, spec)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Time.Source != timeaxis.SourceHint {
		t.Errorf("source = %v", stats.Time.Source)
	}
	pts := fig.Series[0].Points
	if len(pts) != 3 {
		t.Fatalf("got %d points, want 3 (unparseable x dropped)", len(pts))
	}
	if !math.IsNaN(pts[1].Y) {
		t.Errorf("missing y should stay NaN, got %v", pts[1].Y)
	}
	if tab.Strings("when")[1] != "garbage" {
		t.Error("Build must not modify the input table")
	}
}

func TestBuildCategoricalX(t *testing.T) {
	tab := mustTable(t, []string{"phase", "v"}, [][]string{{"warmup", "1"}, {"steady", "2"}, {"warmup", "3"}})
	fig, _, err := Build(tab, newSpec(chartspec.TimeSeries, "phase", "v", ""))
	if err != nil {
		t.Fatal(err)
	}
	if fig.XAxis.Time {
		t.Error("text column without dates should not be a time axis")
	}
	if !reflect.DeepEqual(fig.XAxis.Categories, []string{"warmup", "steady"}) {
		t.Errorf("categories = %v", fig.XAxis.Categories)
	}
	want := []chart.Point{{X: 0, Y: 2}, {X: 1, Y: 2}}
	if !reflect.DeepEqual(fig.Series[0].Points, want) {
		t.Errorf("points = %v, want %v", fig.Series[0].Points, want)
	}
}

func TestBuildHistogram(t *testing.T) {
	spec := newSpec(chartspec.Histogram, "latency_ms", "", "")
	spec.Options.Bins = 7
	fig, _, err := Build(latencyTable(t, 70), spec)
	if err != nil {
		t.Fatal(err)
	}
	h := fig.Hist
	if len(h.Edges) != 8 || len(h.Groups) != 1 {
		t.Fatalf("hist = %+v", h)
	}
	if h.Element != chart.ElementBars {
		t.Errorf("ungrouped element = %q", h.Element)
	}
	if s := sum(h.Groups[0].Weights); math.Abs(s-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", s)
	}
	if fig.YLabel != "Probability" {
		t.Errorf("YLabel = %q", fig.YLabel)
	}
}

func TestBuildHistogramNearEqualValues(t *testing.T) {
	tab := mustTable(t, []string{"latency_ms"}, [][]string{{"0.3"}, {"0.30000000000000004"}})
	fig, _, err := Build(tab, newSpec(chartspec.Histogram, "latency_ms", "", ""))
	if err != nil {
		t.Fatal(err)
	}
	if err := fig.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	edges := fig.Hist.Edges
	if edges[0] >= 0.3 || edges[len(edges)-1] <= 0.30000000000000004 {
		t.Errorf("edges %v do not span the data", edges)
	}
	if s := sum(fig.Hist.Groups[0].Weights); math.Abs(s-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", s)
	}
	if _, err := NewGonum().Render(context.Background(), fig); err != nil {
		t.Errorf("Render: %v", err)
	}
}

func TestBuildHistogramNormalization(t *testing.T) {
	tab := mustTable(t, []string{"v", "g"}, [][]string{
		{"1", "a"}, {"2", "a"}, {"3", "a"}, {"1", "b"},
	})

	spec := newSpec(chartspec.Histogram, "v", "", "g")
	fig, _, _ := Build(tab, spec)
	for _, g := range fig.Hist.Groups {
		if s := sum(g.Weights); math.Abs(s-1) > 1e-9 {
			t.Errorf("independent norm: group %q sums to %v", g.Name, s)
		}
	}
	if fig.Hist.Element != chart.ElementStep {
		t.Errorf("grouped element = %q, want step", fig.Hist.Element)
	}

	spec.Options.HistCommonNorm = true
	fig, _, _ = Build(tab, spec)
	a, b := sum(fig.Hist.Groups[0].Weights), sum(fig.Hist.Groups[1].Weights)
	if math.Abs(a-0.75) > 1e-9 || math.Abs(b-0.25) > 1e-9 {
		t.Errorf("common norm sums = %v, %v; want 0.75, 0.25", a, b)
	}
}

func TestBuildHistogramRowCap(t *testing.T) {
	seed := uint64(3)
	spec := newSpec(chartspec.Histogram, "latency_ms", "", "")
	spec.Options.MaxRows = 10
	spec.Options.RandomState = &seed
	_, stats, err := Build(latencyTable(t, 50), spec)
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsOut != 10 || stats.Sampling != downsample.StrategyRandom || stats.Seed == nil {
		t.Errorf("stats = %+v", stats)
	}
}

func TestBuildBoxplot(t *testing.T) {
	tab := mustTable(t, []string{"threads", "latency", "mode"}, [][]string{
		{"8", "5", "sync"},
		{"2", "3", "async"},
		{"8", "7", "async"},
		{"2", "", "sync"},
		{"", "1", "sync"},
	})
	fig, _, err := Build(tab, newSpec(chartspec.Boxplot, "threads", "latency", "mode"))
	if err != nil {
		t.Fatal(err)
	}
	b := fig.Boxes
	if !reflect.DeepEqual(b.Categories, []string{"2", "8"}) {
		t.Errorf("numeric categories should sort: %v", b.Categories)
	}
	if !reflect.DeepEqual(b.Hues, []string{"sync", "async"}) {
		t.Errorf("hues = %v", b.Hues)
	}
	want := [][][]float64{
		{nil, {3}},
		{{5}, {7}},
	}
	if !reflect.DeepEqual(b.Values, want) {
		t.Errorf("values = %v, want %v", b.Values, want)
	}
	if err := fig.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	tab := latencyTable(t, 3)

	_, _, err := Build(tab, newSpec("scatter3d", "ts", "latency_ms", ""))
	if !errors.Is(err, errors.ErrCodeUnsupportedChart) {
		t.Errorf("unsupported type: got %v", err)
	}

	_, _, err = Build(tab, newSpec(chartspec.Boxplot, "ts", "missing", ""))
	if !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("missing column: got %v", err)
	}
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
