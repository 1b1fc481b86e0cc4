// Package cli implements the benchviz command-line interface.
//
// The render command draws a chart image from a results table and a chart
// specification; the stats command prints the JSON digest of a benchmark
// run. Both are invoked once per run by the benchmark orchestrator. The
// inspect and cache commands are conveniences for people writing chart
// specifications.
//
// # Output
//
// Payloads (stats JSON, inspect tables) go to stdout. Logs and status lines
// go to stderr, so stdout stays machine-readable.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of a step with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing a step. Call done when the step finishes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Rendered latency.png (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey namespaces context values set by this package.
type ctxKey int

// loggerKey holds the command's *log.Logger.
const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l. RootCommand attaches the
// logger once in PersistentPreRun; subcommands read it back with
// loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
