package digest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/observability"
	"github.com/matzehuels/benchviz/pkg/table"
)

// Environment variables naming the run location.
const (
	EnvRunID     = "BENCHCTL_RUN_ID"
	EnvRunDir    = "BENCHCTL_RUN_DIR"
	EnvOutputDir = "BENCHCTL_OUTPUT_DIR"
)

// ResultsFile is the results table name inside the run directory.
const ResultsFile = "load_test_results.csv"

// Env is the run location handed over by the orchestrator.
type Env struct {
	RunID     string
	RunDir    string
	OutputDir string
}

// ResultsPath returns the path of the results table.
func (e Env) ResultsPath() string {
	return filepath.Join(e.RunDir, ResultsFile)
}

// EnvFromLookup reads the run location with lookup (usually os.LookupEnv).
// Unset or empty variables yield [errors.ErrCodeMissingConfig] naming every
// missing variable.
func EnvFromLookup(lookup func(string) (string, bool)) (Env, error) {
	get := func(name string, missing *[]string) string {
		v, _ := lookup(name)
		if v == "" {
			*missing = append(*missing, name)
		}
		return v
	}
	var missing []string
	env := Env{
		RunID:     get(EnvRunID, &missing),
		RunDir:    get(EnvRunDir, &missing),
		OutputDir: get(EnvOutputDir, &missing),
	}
	if len(missing) > 0 {
		return Env{}, errors.New(errors.ErrCodeMissingConfig,
			"BENCHCTL_* env vars missing: %s; expected %s, %s, %s",
			strings.Join(missing, ", "), EnvRunID, EnvRunDir, EnvOutputDir)
	}
	return env, nil
}

// Extractor builds digests of run results.
type Extractor struct {
	stats OrderStats
}

// Option configures an [Extractor].
type Option func(*Extractor)

// WithOrderStats replaces the order statistics capability.
func WithOrderStats(st OrderStats) Option {
	return func(e *Extractor) { e.stats = st }
}

// NewExtractor returns an extractor using [DefaultOrderStats] unless
// configured otherwise.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{stats: DefaultOrderStats{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available checks that the statistics capability works, before any input
// is touched.
func (e *Extractor) Available() error {
	if e.stats == nil {
		return errors.New(errors.ErrCodeBackendUnavailable, "no statistics backend configured")
	}
	s, ok, err := Summarize(e.stats, []float64{1, 2, 3})
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackendUnavailable, err, "statistics backend unavailable")
	}
	if !ok || s.Min != 1 || s.Median != 2 || s.Max != 3 {
		return errors.New(errors.ErrCodeBackendUnavailable, "statistics backend returned a wrong summary of 1, 2, 3")
	}
	return nil
}

// FromTable computes the digest of t.
func (e *Extractor) FromTable(t *table.Table) (*Digest, error) {
	return Build(e.stats, t)
}

// Extract locates the results table of env and computes its digest. A
// missing results file yields [errors.ErrCodeFileNotFound].
func (e *Extractor) Extract(ctx context.Context, env Env) (d *Digest, err error) {
	path := env.ResultsPath()
	observability.Digest().OnExtractStart(ctx, env.RunID)
	defer func() {
		n := 0
		if d != nil {
			n = d.Len()
		}
		observability.Digest().OnExtractComplete(ctx, env.RunID, n, err)
	}()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found at %s", ResultsFile, path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "stat %s", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := table.Load(path)
	if err != nil {
		return nil, err
	}
	return e.FromTable(t)
}
