package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/pipeline"
)

type lookupOpts struct {
	x, y     float64
	noAdjust bool
	asJSON   bool
}

// lookupCommand creates the lookup command.
func (c *CLI) lookupCommand() *cobra.Command {
	var opts lookupOpts

	cmd := &cobra.Command{
		Use:               "lookup <document>",
		Short:             "Print the label drawn at a canvas point",
		Example:           `  chartlabels lookup revenue.yaml --x 120 --y 48`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLookup(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "x coordinate in canvas pixels")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "y coordinate in canvas pixels")
	cmd.Flags().BoolVar(&opts.noAdjust, "no-adjust", false, "skip margin negotiation")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the placement as JSON")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func (c *CLI) runLookup(ctx context.Context, input string, opts lookupOpts) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	p := geom.Point{X: opts.x, Y: opts.y}
	placement, err := runner.Lookup(ctx, pipeline.Options{
		Path:     input,
		NoAdjust: opts.noAdjust,
		Logger:   loggerFromContext(ctx),
	}, p)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(placement)
	}

	printSuccess("Label %q at (%g, %g)", placement.Text, p.X, p.Y)
	printKeyValue("dataset", fmt.Sprint(placement.Set))
	printKeyValue("index", fmt.Sprint(placement.Index))
	if placement.Center != nil {
		printKeyValue("center", fmt.Sprintf("(%.1f, %.1f)", placement.Center.X, placement.Center.Y))
	}
	if placement.Box != nil {
		b := placement.Box
		printKeyValue("box", fmt.Sprintf("%.1f×%.1f at (%.1f, %.1f)", b.W, b.H, b.X, b.Y))
	}
	if placement.Rotation != 0 {
		printKeyValue("rotation", fmt.Sprintf("%g°", placement.Rotation*180/math.Pi))
	}
	return nil
}
