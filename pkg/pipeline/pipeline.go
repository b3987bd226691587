// Package pipeline runs the load → layout → negotiate → render flow shared
// by the CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read a chart document from disk or take it from the caller
//  2. Layout: build the chart, prepare and draw its labels
//  3. Negotiate: grow the chart padding until no drawn label overshoots
//     the canvas, one debounced round at a time (skipped with NoAdjust)
//  4. Render: produce every requested format (SVG, PDF, JSON placements)
//
// Rendered artifacts are cached under the document hash and the options
// that change the output, so repeated renders skip the layout entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "revenue.yaml",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartlabels/pkg/cache"
	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/errors"
	chartio "github.com/matzehuels/chartlabels/pkg/io"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSettleTimeout bounds the whole margin negotiation.
	DefaultSettleTimeout = 5 * time.Second

	// DefaultMaxRounds caps negotiation rounds. Each round either keeps the
	// padding, which ends negotiation, or grows it.
	DefaultMaxRounds = 4
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input: Document wins over Path.
	Document *chart.Document `json:"document,omitempty"`
	Path     string          `json:"path,omitempty"`

	// Negotiation
	NoAdjust      bool          `json:"no_adjust,omitempty"`
	MaxRounds     int           `json:"max_rounds,omitempty"`
	SettleTimeout time.Duration `json:"-"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Debug      bool     `json:"debug,omitempty"`
	EmbedFont  bool     `json:"embed_font,omitempty"`
	Background string   `json:"background,omitempty"`

	// Refresh ignores cached artifacts and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocHash is the content hash of the normalized document.
	DocHash string

	// Chart and Placements are nil when every artifact came from cache.
	Chart      *chart.Chart
	Placements *chartio.Placements

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats    Stats
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Labels     int
	Hidden     int
	Rounds     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills in unset options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.MaxRounds == 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	if o.SettleTimeout == 0 {
		o.SettleTimeout = DefaultSettleTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults checks the options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Document == nil && o.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document or path is required")
	}
	if o.MaxRounds < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_rounds must not be negative")
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateColor(o.Background); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Debug:      o.Debug,
		NoAdjust:   o.NoAdjust,
		EmbedFont:  o.EmbedFont && format == FormatSVG,
		Background: o.Background,
	}
}

// HashDocument returns the content hash of doc after defaults are applied,
// so documents that differ only in spelled out defaults share a hash.
func HashDocument(doc chart.Document) (string, error) {
	doc.SetDefaults()
	return cache.HashJSON(doc)
}
