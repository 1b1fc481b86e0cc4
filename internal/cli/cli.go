// Package cli implements the benchviz command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/benchviz/pkg/buildinfo"
	"github.com/matzehuels/benchviz/pkg/cache"
	"github.com/matzehuels/benchviz/pkg/digest"
	"github.com/matzehuels/benchviz/pkg/pipeline"
	"github.com/matzehuels/benchviz/pkg/render"
)

const appName = "benchviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Stdout receives command payloads (stats JSON, inspect tables).
	// Status lines and logs go to Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Backend draws charts. Nil means the gonum backend.
	Backend render.Backend
	// Extractor computes run digests. Nil means the default extractor.
	Extractor *digest.Extractor
	// LookupEnv reads the run environment. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// New creates a new CLI instance logging to stderr at level.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		Stdout: stdout,
		Stderr: stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "Benchviz turns benchmark results into charts and digests",
		Long:          `Benchviz renders benchmark result tables into chart images from declarative chart specifications, and summarizes run results into a JSON digest for the benchmark orchestrator.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) backend() render.Backend {
	if c.Backend != nil {
		return c.Backend
	}
	return render.NewGonum(render.WithLogger(c.Logger))
}

func (c *CLI) extractor() *digest.Extractor {
	if c.Extractor != nil {
		return c.Extractor
	}
	return digest.NewExtractor()
}

func (c *CLI) lookupEnv(name string) (string, bool) {
	if c.LookupEnv != nil {
		return c.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(backend render.Backend, useCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(useCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, cc, c.Logger), nil
}

// newCache returns the artifact cache. Caching is opt-in, so renders keep
// no state between runs unless asked to.
func newCache(useCache bool) (cache.Cache, error) {
	if !useCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
