package pipeline

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/benchviz/pkg/cache"
	"github.com/matzehuels/benchviz/pkg/chartspec"
	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/observability"
	"github.com/matzehuels/benchviz/pkg/render"
	"github.com/matzehuels/benchviz/pkg/table"
)

// Runner executes renders with shared backend, cache and logger.
type Runner struct {
	Backend render.Backend
	Cache   cache.Cache
	Logger  *log.Logger
}

// NewRunner creates a Runner. A nil cache disables caching and a nil logger
// uses the charm default logger.
func NewRunner(backend render.Backend, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Backend: backend, Cache: c, Logger: logger}
}

// Render produces the chart described by opts and writes it to opts.Output.
func (r *Runner) Render(ctx context.Context, opts Options) (res *RenderResult, err error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if r.Backend == nil {
		return nil, errors.New(errors.ErrCodeBackendUnavailable, "no render backend configured")
	}

	spec, err := r.loadSpec(opts)
	if err != nil {
		return nil, err
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(spec.Type), spec.Format)
	defer func() {
		size := 0
		if res != nil {
			size = res.Bytes
		}
		hooks.OnRenderComplete(ctx, string(spec.Type), spec.Format, size, time.Since(start), err)
	}()

	res = &RenderResult{Output: opts.Output, Type: spec.Type, Format: spec.Format}

	var key string
	if cacheable(spec) {
		if key, err = r.artifactKey(opts.Input, spec); err != nil {
			return nil, err
		}
		if key != "" && !opts.Refresh {
			if data, ok := r.cacheGet(ctx, key); ok {
				if err := WriteAtomic(opts.Output, data); err != nil {
					return nil, err
				}
				res.Bytes = len(data)
				res.CacheHit = true
				res.Duration = time.Since(start)
				r.Logger.Info("rendered chart from cache", "output", opts.Output, "bytes", res.Bytes, "duration", res.Duration)
				return res, nil
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stepStart := time.Now()
	t, err := table.Load(opts.Input)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded table", "path", opts.Input, "rows", t.Len(), "columns", len(t.Columns()), "duration", time.Since(stepStart))

	var buildOpts []render.BuildOption
	if spec.Options.RandomState == nil && usesRandom(spec) {
		seed := uint64(time.Now().UnixNano())
		buildOpts = append(buildOpts, render.WithSeed(seed))
	}

	fig, stats, err := render.Build(t, spec, buildOpts...)
	if err != nil {
		return nil, err
	}
	res.RowsIn, res.RowsOut = stats.RowsIn, stats.RowsOut
	res.Sampling, res.Seed, res.Time = stats.Sampling, stats.Seed, stats.Time

	if stats.Sampling != "" {
		hooks.OnSample(ctx, string(stats.Sampling), stats.RowsIn, stats.RowsOut)
		logArgs := []any{"strategy", stats.Sampling, "rows_in", stats.RowsIn, "rows_out", stats.RowsOut}
		if stats.Seed != nil {
			logArgs = append(logArgs, "seed", *stats.Seed)
		}
		r.Logger.Debug("downsampled rows", logArgs...)
	}
	if stats.Time.IsTime() {
		r.Logger.Debug("time axis", "encoding", stats.Time.Encoding, "unit", stats.Time.Unit, "source", stats.Time.Source)
	}
	if stats.Time.HintFailed {
		r.Logger.Warn("time hint did not match the data, inferred instead", "column", spec.X)
	}

	if f, ok := r.Backend.(render.Fitter); ok {
		if err := render.BestEffort(func() error { return f.Fit(fig) }); err != nil {
			r.Logger.Debug("layout fit skipped", "err", err)
			hooks.OnFitFailed(ctx, err)
		}
	}

	stepStart = time.Now()
	data, err := r.Backend.Render(ctx, fig)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeRender, err, "render %s", spec.Type)
		}
		return nil, err
	}
	r.Logger.Debug("rendered image", "backend", r.Backend.Name(), "bytes", len(data), "duration", time.Since(stepStart))

	if key != "" {
		r.cacheSet(ctx, key, data)
	}

	if err := WriteAtomic(opts.Output, data); err != nil {
		return nil, err
	}
	res.Bytes = len(data)
	res.Duration = time.Since(start)
	r.Logger.Info("rendered chart", "type", spec.Type, "output", opts.Output, "bytes", res.Bytes, "duration", res.Duration)
	return res, nil
}

func (r *Runner) loadSpec(opts Options) (*chartspec.Spec, error) {
	spec := opts.Spec
	if spec == nil {
		var err error
		if spec, err = chartspec.Load(opts.SpecPath); err != nil {
			return nil, err
		}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(spec.UnknownOptions) > 0 {
		unknown := strings.Join(spec.UnknownOptions, ", ")
		if opts.Strict {
			return nil, errors.New(errors.ErrCodeInvalidSpec, "unknown options: %s", unknown)
		}
		r.Logger.Warn("ignoring unknown options", "keys", unknown)
	}
	return spec, nil
}

func (r *Runner) artifactKey(input string, spec *chartspec.Spec) (string, error) {
	if _, ok := r.Cache.(*cache.NullCache); ok {
		return "", nil
	}
	file, sheet := table.SplitPath(input)
	h, err := cache.HashFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "table not found: %s", file)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", file)
	}
	return cache.ArtifactKey(h+"#"+sheet, spec.Canonical(), r.Backend.Name()), nil
}

func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "err", err)
		return nil, false
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Debug("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}
