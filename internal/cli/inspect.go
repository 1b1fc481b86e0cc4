package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/benchviz/pkg/digest"
	"github.com/matzehuels/benchviz/pkg/table"
	"github.com/matzehuels/benchviz/pkg/timeaxis"
)

// inspectCommand creates the inspect command, which shows how a table is
// read: column kinds, missing cells and the time axis each column would
// get as a chart x column.
func (c *CLI) inspectCommand() *cobra.Command {
	var hint timeaxis.Hint

	cmd := &cobra.Command{
		Use:   "inspect <table>",
		Short: "Show the columns of a results table as benchviz reads them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], hint)
		},
	}

	cmd.Flags().StringVar(&hint.Format, "x-time-format", "", "time format hint applied to every column")
	cmd.Flags().StringVar(&hint.Unit, "x-time-unit", "", "epoch unit hint (s, ms, us, ns)")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, hint timeaxis.Hint) error {
	logger := loggerFromContext(ctx)

	t, err := table.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("loaded table", "path", path, "rows", t.Len())

	fmt.Fprintln(c.Stdout, StyleTitle.Render(path))
	printKeyValue(c.Stdout, "rows", strconv.Itoa(t.Len()))

	rows := make([][]string, 0, len(t.Columns()))
	for _, name := range t.Columns() {
		col, _ := t.Column(name)
		rows = append(rows, []string{
			name,
			col.Kind.String(),
			strconv.Itoa(col.Present()),
			strconv.Itoa(col.Len() - col.Present()),
			describeMax(col),
			describeTime(timeaxis.Infer(hint, col.Strings(), col.Kind == table.Numeric)),
		})
	}
	fmt.Fprintln(c.Stdout, renderTable([]string{"column", "kind", "present", "missing", "max", "as time"}, rows))

	if t.Has(digest.ColumnLatency) || t.Has(digest.ColumnTaskType) {
		d, err := c.extractor().FromTable(t)
		if err != nil {
			return err
		}
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			printKeyValue(c.Stdout, k, v)
		}
	}
	return nil
}

func describeMax(col *table.Column) string {
	if col.Kind != table.Numeric {
		return "-"
	}
	m, ok := col.Max()
	if !ok {
		return "-"
	}
	return digest.FormatFloat(m)
}

func describeTime(d timeaxis.Decision) string {
	var s string
	switch d.Encoding {
	case timeaxis.Epoch:
		s = fmt.Sprintf("epoch %s", d.Unit)
	case timeaxis.Calendar:
		s = "calendar"
	default:
		s = "no"
	}
	if d.IsTime() {
		s += " (" + d.Source.String() + ")"
	}
	if d.HintFailed {
		s += ", hint failed"
	}
	return s
}
