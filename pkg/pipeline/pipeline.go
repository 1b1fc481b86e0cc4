// Package pipeline runs the chart renderer end to end.
//
// A [Runner] validates a chart specification, loads the input table, builds
// a figure description, lets the backend fit its layout, renders the image
// and writes it atomically to the output path. Every entry point (the CLI
// render command and tests) goes through the same Runner, so validation
// order and failure behaviour are identical everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(render.NewGonum(), cache.NewNullCache(), logger)
//	res, err := runner.Render(ctx, pipeline.Options{
//	    Input:    "results.csv",
//	    SpecPath: "latency.json",
//	    Output:   "latency.png",
//	})
//
// On any error no file exists at the output path.
package pipeline

import (
	"time"

	"github.com/matzehuels/benchviz/pkg/chartspec"
	"github.com/matzehuels/benchviz/pkg/downsample"
	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/timeaxis"
)

// Options configures a single render.
type Options struct {
	// Input is the CSV, TSV or XLSX table to plot.
	Input string
	// Output is the image path. Its parent directory is created if needed.
	Output string
	// SpecPath is a JSON or TOML chart specification. Ignored when Spec is set.
	SpecPath string
	// Spec is an already decoded specification.
	Spec *chartspec.Spec
	// Strict rejects specifications with unknown option keys.
	Strict bool
	// Refresh skips the cache lookup but still stores the result.
	Refresh bool
}

// Validate checks the options before any file is read.
func (o Options) Validate() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input table path is required")
	}
	if o.Spec == nil && o.SpecPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "chart specification is required")
	}
	return errors.ValidateOutputPath(o.Output)
}

// RenderResult reports what a render did.
type RenderResult struct {
	Output   string
	Type     chartspec.Type
	Format   string
	RowsIn   int
	RowsOut  int
	Sampling downsample.Strategy // empty when every row was kept
	Seed     *uint64
	Time     timeaxis.Decision
	Bytes    int
	CacheHit bool
	Duration time.Duration
}

// usesRandom reports whether rendering spec may draw a random sample.
func usesRandom(spec *chartspec.Spec) bool {
	o := spec.Options
	switch spec.Type {
	case chartspec.TimeSeries:
		return o.MaxPoints > 0 && o.Sampling == chartspec.SamplingRandom
	case chartspec.Histogram, chartspec.Boxplot:
		return o.MaxRows > 0
	}
	return false
}

// cacheable reports whether the rendered bytes are a pure function of the
// input file and spec.
func cacheable(spec *chartspec.Spec) bool {
	return spec.Options.RandomState != nil || !usesRandom(spec)
}
