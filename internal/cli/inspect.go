package cli

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlabels/pkg/pipeline"
)

// inspectCommand creates the interactive inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var noAdjust bool

	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Browse label placements interactively",
		Long: `Lay out a chart document and open a terminal view of the canvas.
Move the cursor over the chart to see which label is drawn under it.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], noAdjust)
		},
	}
	cmd.Flags().BoolVar(&noAdjust, "no-adjust", false, "skip margin negotiation")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, noAdjust bool) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	l, err := runner.Layout(ctx, pipeline.Options{
		Path:     input,
		NoAdjust: noAdjust,
		Logger:   loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}
	prog.done("Laid out " + plural(len(l.Placements.Labels), "label"))

	model := NewInspectModel(filepath.Base(input), l.Placements, l)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}
