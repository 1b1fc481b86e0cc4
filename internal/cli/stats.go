package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/benchviz/pkg/digest"
	"github.com/matzehuels/benchviz/pkg/errors"
)

// statsCommand creates the stats command. It takes no arguments: the run
// location comes from the BENCHCTL_* environment variables set by the
// orchestrator, and the digest is the only thing written to stdout.
func (c *CLI) statsCommand() *cobra.Command {
	var indent bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the JSON digest of a benchmark run",
		Long: `Print the JSON digest of a benchmark run.

The run is located through the environment:
  ` + digest.EnvRunID + `      run identifier
  ` + digest.EnvRunDir + `     directory holding ` + digest.ResultsFile + `
  ` + digest.EnvOutputDir + `  output directory of the run

Exit codes: 2 when a variable is missing, 3 when the results file is
missing, 4 when the statistics backend is unavailable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), indent)
		},
	}

	cmd.Flags().BoolVar(&indent, "indent", false, "pretty-print the JSON object")

	return cmd
}

func (c *CLI) runStats(ctx context.Context, indent bool) error {
	logger := loggerFromContext(ctx)

	ex := c.extractor()
	if err := ex.Available(); err != nil {
		return err
	}

	env, err := digest.EnvFromLookup(c.lookupEnv)
	if err != nil {
		return err
	}
	logger.Debug("run environment", "run_id", env.RunID, "run_dir", env.RunDir, "output_dir", env.OutputDir)

	prog := newProgress(logger)
	d, err := ex.Extract(ctx, env)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Summarized %s", env.ResultsPath()))

	var out []byte
	if indent {
		out, err = json.MarshalIndent(d, "", "  ")
	} else {
		out, err = json.Marshal(d)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode digest")
	}
	_, err = fmt.Fprintln(c.Stdout, string(out))
	return err
}
