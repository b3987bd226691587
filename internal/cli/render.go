package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlabels/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file (one format) or base path (several)
	formats    string // comma-separated output formats
	debug      bool   // draw the chart area and label hit boxes
	noAdjust   bool   // skip margin negotiation
	noCache    bool   // neither read nor write the artifact cache
	refresh    bool   // recompute and overwrite cached artifacts
	embedFont  bool   // embed the label font into SVG output
	background string // canvas background color
	maxRounds  int    // negotiation round limit
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Lay out chart labels and write SVG, PDF or JSON placements",
		Long: `Lay out the data labels of a chart document (JSON, YAML or TOML).

Labels are placed at their anchors, overlapping labels are hidden by priority,
and the chart padding grows until every visible label fits the canvas.`,
		Example: `  chartlabels render revenue.yaml
  chartlabels render revenue.yaml -f svg,json -o out/revenue
  chartlabels render revenue.toml --debug --no-adjust`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "draw the chart area and label hit boxes")
	cmd.Flags().BoolVar(&opts.noAdjust, "no-adjust", false, "keep the document padding instead of growing it to fit labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and overwrite them")
	cmd.Flags().BoolVar(&opts.embedFont, "embed-font", false, "embed the label font into SVG output")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas background color (e.g. #ffffff)")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", pipeline.DefaultMaxRounds, "maximum margin negotiation rounds")

	return cmd
}

// runRender executes the pipeline for one document and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Laying out labels...")
	spinner.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Path:       input,
		Formats:    formats,
		Debug:      opts.debug,
		NoAdjust:   opts.noAdjust,
		MaxRounds:  opts.maxRounds,
		EmbedFont:  opts.embedFont,
		Background: opts.background,
		Refresh:    opts.refresh,
		Logger:     loggerFromContext(ctx),
	})
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Render failed: %s", filepath.Base(input)))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", filepath.Base(input)))
	printStats(result.Stats.Labels, result.Stats.Hidden, result.Stats.Rounds, result.CacheHit)

	paths, err := writeArtifacts(result.Artifacts, formats, opts.output, input)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes one file per format and returns the paths in
// format order. A single format goes to output verbatim when it is set.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return nil, fmt.Errorf("no %s output produced", format)
		}
		path := outputPath(output, input, format, len(formats) == 1)
		if err := writeFile(path, data); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file for one format. A JSON output next to a JSON
// document gets a .placements suffix so the input is never overwritten.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	path := basePath(output, input) + "." + format
	if format == pipeline.FormatJSON && filepath.Clean(path) == filepath.Clean(input) {
		path = basePath(output, input) + ".placements.json"
	}
	return path
}

// basePath derives the base output path from the output and input paths.
// An empty output strips the extension from input; a known format
// extension is stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
