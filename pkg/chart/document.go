package chart

import (
	"strings"
	"time"

	"github.com/matzehuels/chartlabels/pkg/errors"
	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/label"
)

// Type is the kind of chart a document describes.
type Type string

// Supported chart types.
const (
	TypeBar      Type = "bar"
	TypeLine     Type = "line"
	TypePie      Type = "pie"
	TypeDoughnut Type = "doughnut"
)

// Default canvas size and animation duration.
const (
	DefaultWidth     = 640
	DefaultHeight    = 400
	DefaultAnimation = 200 * time.Millisecond
)

// Document is a chart description as read from TOML, YAML or JSON.
type Document struct {
	Title      string    `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Type       Type      `json:"type" yaml:"type" toml:"type"`
	Width      float64   `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height     float64   `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Horizontal bool      `json:"horizontal,omitempty" yaml:"horizontal,omitempty" toml:"horizontal,omitempty"`
	Labels     []string  `json:"labels,omitempty" yaml:"labels,omitempty" toml:"labels,omitempty"`
	Datasets   []Dataset `json:"datasets" yaml:"datasets" toml:"datasets"`

	Layout    Layout       `json:"layout,omitempty" yaml:"layout,omitempty" toml:"layout,omitempty"`
	Animation Animation    `json:"animation,omitempty" yaml:"animation,omitempty" toml:"animation,omitempty"`
	Plugin    LabelsConfig `json:"datalabels,omitempty" yaml:"datalabels,omitempty" toml:"datalabels,omitempty"`
}

// Dataset is one series of values.
type Dataset struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`

	// Data holds one value per category; null marks a missing value.
	Data  []*float64 `json:"data" yaml:"data" toml:"data"`
	Color string     `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`

	// Labels overrides the chart-wide label configuration for this dataset.
	Labels *LabelConfig `json:"datalabels,omitempty" yaml:"datalabels,omitempty" toml:"datalabels,omitempty"`
}

// Layout is the chart layout configuration.
type Layout struct {
	Padding geom.Padding `json:"padding" yaml:"padding" toml:"padding"`
}

// Animation is the chart animation configuration.
type Animation struct {
	// Duration in milliseconds. Nil selects [DefaultAnimation].
	Duration *int `json:"duration,omitempty" yaml:"duration,omitempty" toml:"duration,omitempty"`
}

// LabelsConfig is the chart-wide label configuration.
type LabelsConfig struct {
	LabelConfig `yaml:",inline"`

	// Debug logs margin negotiation measurements.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty" toml:"debug,omitempty"`
}

// LabelConfig is a partial label configuration. Unset fields inherit.
type LabelConfig struct {
	Display         string        `json:"display,omitempty" yaml:"display,omitempty" toml:"display,omitempty"`
	Anchor          string        `json:"anchor,omitempty" yaml:"anchor,omitempty" toml:"anchor,omitempty"`
	Align           string        `json:"align,omitempty" yaml:"align,omitempty" toml:"align,omitempty"`
	Clamp           *bool         `json:"clamp,omitempty" yaml:"clamp,omitempty" toml:"clamp,omitempty"`
	Offset          *float64      `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty"`
	Rotation        *float64      `json:"rotation,omitempty" yaml:"rotation,omitempty" toml:"rotation,omitempty"`
	FontSize        *float64      `json:"fontSize,omitempty" yaml:"fontSize,omitempty" toml:"fontSize,omitempty"`
	LineHeight      *float64      `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty" toml:"lineHeight,omitempty"`
	Padding         *geom.Padding `json:"padding,omitempty" yaml:"padding,omitempty" toml:"padding,omitempty"`
	Color           string        `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	BackgroundColor string        `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty" toml:"backgroundColor,omitempty"`

	// Format is a fmt verb applied to the value, e.g. "%.1f%%".
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// Apply layers c over o.
func (c LabelConfig) Apply(o label.Options) (label.Options, error) {
	if c.Display != "" {
		d, err := label.ParseDisplay(c.Display)
		if err != nil {
			return o, err
		}
		o.Display = d
	}
	if c.Anchor != "" {
		o.Anchor = c.Anchor
	}
	if c.Align != "" {
		o.Align = c.Align
	}
	if c.Clamp != nil {
		o.Clamp = *c.Clamp
	}
	if c.Offset != nil {
		o.Offset = *c.Offset
	}
	if c.Rotation != nil {
		o.Rotation = *c.Rotation
	}
	if c.FontSize != nil {
		o.FontSize = *c.FontSize
	}
	if c.LineHeight != nil {
		o.LineHeight = *c.LineHeight
	}
	if c.Padding != nil {
		o.Padding = *c.Padding
	}
	if c.Color != "" {
		o.Color = c.Color
	}
	if c.BackgroundColor != "" {
		o.BackgroundColor = c.BackgroundColor
	}
	return o, o.Validate()
}

// SetDefaults fills in the canvas size.
func (d *Document) SetDefaults() {
	if d.Width == 0 {
		d.Width = DefaultWidth
	}
	if d.Height == 0 {
		d.Height = DefaultHeight
	}
}

// AnimationDuration returns the configured animation duration.
func (d *Document) AnimationDuration() time.Duration {
	if d.Animation.Duration == nil {
		return DefaultAnimation
	}
	return time.Duration(*d.Animation.Duration) * time.Millisecond
}

// Validate checks the document after defaults were applied.
func (d *Document) Validate() error {
	switch d.Type {
	case TypeBar, TypeLine, TypePie, TypeDoughnut:
	case "":
		return errors.New(errors.ErrCodeInvalidChart, "chart type is required")
	default:
		return errors.New(errors.ErrCodeInvalidChart, "unknown chart type: %q", d.Type)
	}
	if d.Horizontal && d.Type != TypeBar {
		return errors.New(errors.ErrCodeInvalidChart, "horizontal is only supported for bar charts")
	}
	if d.Width <= 0 || d.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidChart, "canvas size must be positive, got %vx%v", d.Width, d.Height)
	}
	if d.Animation.Duration != nil && *d.Animation.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidChart, "animation duration cannot be negative")
	}
	for _, v := range []float64{d.Layout.Padding.Top, d.Layout.Padding.Right, d.Layout.Padding.Bottom, d.Layout.Padding.Left} {
		if err := errors.ValidateNonNegative("layout padding", v); err != nil {
			return err
		}
	}
	for _, l := range d.Labels {
		if err := errors.ValidateText(l); err != nil {
			return err
		}
	}

	if len(d.Datasets) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "at least one dataset is required")
	}
	base, err := d.Plugin.Apply(label.DefaultOptions())
	if err != nil {
		return err
	}
	if err := validateFormat(d.Plugin.Format); err != nil {
		return err
	}
	for i, ds := range d.Datasets {
		if err := errors.ValidateText(ds.Label); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "dataset %d", i)
		}
		if err := errors.ValidateColor(ds.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "dataset %d", i)
		}
		if ds.Labels == nil {
			continue
		}
		if _, err := ds.Labels.Apply(base); err != nil {
			return err
		}
		if err := validateFormat(ds.Labels.Format); err != nil {
			return err
		}
	}
	return nil
}

func validateFormat(f string) error {
	if f != "" && !strings.Contains(f, "%") {
		return errors.New(errors.ErrCodeInvalidFormat, "label format needs a verb: %q", f)
	}
	return nil
}
