package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/benchviz/pkg/downsample"
	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	strict  bool // reject unknown option keys
	cache   bool // reuse previously rendered images
	refresh bool // render even on a cache hit, then update the cache
	quiet   bool // suppress the status lines
}

// renderCommand creates the render command. Its positional arguments follow
// the orchestrator's calling convention: input table, output image, chart
// specification.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <input> <output> <spec>",
		Short: "Render a chart image from a results table",
		Long: `Render a chart image from a results table (CSV, TSV or XLSX) and a chart
specification (JSON or TOML).

The output format follows the specification's "format" field. The image is
written atomically: on any error no file exists at the output path.`,
		Example: `  benchviz render results.csv latency.png latency.json
  benchviz render results.xlsx#Run2 hist.svg hist.toml --strict`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject specifications with unknown option keys")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "reuse images rendered earlier from the same input and spec")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "with --cache, render again and replace the cached image")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print status lines")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output, specPath string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	// The backend is checked before any file is read or written.
	backend := c.backend()
	if err := backend.Available(); err != nil {
		if !errors.Is(err, errors.ErrCodeBackendUnavailable) {
			err = errors.Wrap(errors.ErrCodeBackendUnavailable, err, "%s backend", backend.Name())
		}
		return err
	}
	logger.Debug("backend ready", "backend", backend.Name())

	runner, err := c.newRunner(backend, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	res, err := runner.Render(ctx, pipeline.Options{
		Input:    input,
		Output:   output,
		SpecPath: specPath,
		Strict:   opts.strict,
		Refresh:  opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + string(res.Type))

	if opts.quiet {
		return nil
	}
	printSuccess(c.Stderr, "Rendered %s chart", res.Type)
	printFile(c.Stderr, res.Output)
	printRenderStats(c.Stderr, res.RowsIn, res.RowsOut, res.CacheHit)
	if res.Sampling == downsample.StrategyRandom && res.Seed != nil {
		printDetail(c.Stderr, "random sample, seed %d", *res.Seed)
	}
	if res.Time.HintFailed {
		printWarning(c.Stderr, "time format hint did not match; axis was inferred (%s)", res.Time.Source)
	}
	return nil
}
