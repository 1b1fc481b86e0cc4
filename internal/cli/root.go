package cli

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/matzehuels/benchviz/pkg/errors"
)

// Execute runs benchviz with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return New(stdout, stderr, LogInfo).Run(ctx, args)
}

// Run executes the command tree with args. Errors are reported on Stderr
// and their code decides the exit status.
func (c *CLI) Run(ctx context.Context, args []string) int {
	root := c.RootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		PrintError(c.Stderr, "interrupted")
		return errors.ExitInterrupted
	}
	PrintError(c.Stderr, "%s", errors.UserMessage(err))
	if code := errors.GetCode(err); code != "" {
		c.Logger.Debug("command failed", "code", code)
	}
	return errors.ExitCode(err)
}
