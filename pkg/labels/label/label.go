// Package label provides the concrete chart label used by the layout engine.
//
// A [Label] carries the text of one data point, its resolved [Options] and
// the element it is attached to at both animation phases. It implements
// [layout.Label]: the engine positions it, and [Label.Draw] hands the
// result to the chart when the chart implements [Surface].
package label

import (
	"math"
	"strings"

	"github.com/matzehuels/chartlabels/pkg/errors"
	"github.com/matzehuels/chartlabels/pkg/fonts"
	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/layout"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

// Options is the resolved label configuration of one data point.
type Options struct {
	Display layout.Display
	Anchor  string
	Align   string
	Clamp   bool
	Offset  float64

	// Rotation in degrees, clockwise.
	Rotation float64

	FontSize   float64
	LineHeight float64
	Padding    geom.Padding

	Color           string
	BackgroundColor string
}

// DefaultOptions returns the options used when a document sets nothing.
func DefaultOptions() Options {
	return Options{
		Display:    layout.DisplayOn,
		Anchor:     positioner.AnchorCenter,
		Align:      positioner.AlignCenter,
		Offset:     4,
		FontSize:   fonts.DefaultSize,
		LineHeight: fonts.DefaultLineHeight,
		Padding:    geom.Padding{Top: 4, Right: 4, Bottom: 4, Left: 4},
		Color:      "#222222",
	}
}

// ParseDisplay parses a display mode: "true", "false" or "auto".
// An empty string selects [layout.DisplayOn].
func ParseDisplay(s string) (layout.Display, error) {
	switch strings.ToLower(s) {
	case "", "true":
		return layout.DisplayOn, nil
	case "false":
		return layout.DisplayOff, nil
	case "auto":
		return layout.DisplayAuto, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidDisplay, "unknown display mode: %q (want true, false or auto)", s)
	}
}

// Validate checks the anchor, align and numeric options.
func (o Options) Validate() error {
	if o.Anchor != "" && !positioner.IsAnchor(o.Anchor) {
		return errors.New(errors.ErrCodeInvalidAnchor, "unknown anchor: %q", o.Anchor)
	}
	if o.Align != "" && !positioner.IsAlign(o.Align) {
		return errors.New(errors.ErrCodeInvalidAlign, "unknown align: %q", o.Align)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"offset", o.Offset},
		{"font size", o.FontSize},
		{"line height", o.LineHeight},
		{"padding top", o.Padding.Top},
		{"padding right", o.Padding.Right},
		{"padding bottom", o.Padding.Bottom},
		{"padding left", o.Padding.Left},
	} {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return err
		}
	}
	if err := errors.ValidateColor(o.Color); err != nil {
		return err
	}
	return errors.ValidateColor(o.BackgroundColor)
}

// Drawn is one label as handed to a [Surface].
type Drawn struct {
	Text     string
	Center   geom.Point
	Size     geom.Size
	Rotation float64 // radians
	Set      int
	Index    int
	Options  Options
}

// Box returns the unrotated label box.
func (d Drawn) Box() geom.Rect {
	return geom.Rect{
		X: d.Center.X - d.Size.W/2,
		Y: d.Center.Y - d.Size.H/2,
		W: d.Size.W,
		H: d.Size.H,
	}
}

// Surface receives drawn labels. Charts implement it to collect output.
type Surface interface {
	DrawLabel(d Drawn)
}

// Label is one chart label.
type Label struct {
	text  string
	value float64
	set   int
	index int
	opts  Options

	model *layout.Model
	size  geom.Size
	el    positioner.Element
	view  positioner.Element
}

// New creates a label and measures its text. cfg carries the clamping area
// and origin of the chart; anchor and align are taken from opts.
func New(text string, value float64, set, index int, opts Options, cfg positioner.Config) (*Label, error) {
	if err := errors.ValidateText(text); err != nil {
		return nil, err
	}

	w, h, err := fonts.Measure(text, opts.FontSize, opts.LineHeight)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "measure label %d/%d", set, index)
	}

	cfg.Anchor = opts.Anchor
	cfg.Align = opts.Align
	cfg.Clamp = opts.Clamp

	return &Label{
		text:  text,
		value: value,
		set:   set,
		index: index,
		opts:  opts,
		model: &layout.Model{
			Display:  opts.Display,
			Rotation: opts.Rotation * math.Pi / 180,
			Offset:   opts.Offset,
			Config:   cfg,
		},
		size: geom.Size{
			W: w + opts.Padding.Left + opts.Padding.Right,
			H: h + opts.Padding.Top + opts.Padding.Bottom,
		},
	}, nil
}

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// Value returns the data value the label belongs to.
func (l *Label) Value() float64 { return l.value }

// Set returns the dataset index.
func (l *Label) Set() int { return l.set }

// Index returns the data index within the dataset.
func (l *Label) Index() int { return l.index }

// Options returns the resolved options.
func (l *Label) Options() Options { return l.opts }

// SetElement moves the element to el in both phases.
func (l *Label) SetElement(el positioner.Element) {
	l.el = el
	l.view = el
}

// SetView moves only the on-screen phase of the element.
func (l *Label) SetView(el positioner.Element) { l.view = el }

// SetArea updates the clamping area after the chart layout changed.
func (l *Label) SetArea(area geom.Rect) { l.model.Config.Area = area }

// Model implements layout.Label.
func (l *Label) Model() *layout.Model { return l.model }

// Visible implements layout.Label. Labels are hidden when switched off,
// when they have no text, or when their value is missing.
func (l *Label) Visible() bool {
	return l.opts.Display != layout.DisplayOff && l.text != "" && !math.IsNaN(l.value)
}

// Geometry implements layout.Label.
func (l *Label) Geometry() geom.Size { return l.size }

// Rotation implements layout.Label.
func (l *Label) Rotation() float64 { return l.model.Rotation }

// Element implements layout.Label.
func (l *Label) Element(p layout.Phase) positioner.Element {
	if p == layout.PhaseView {
		return l.view
	}
	return l.el
}

// Draw implements layout.Label.
func (l *Label) Draw(c layout.Chart, center geom.Point) {
	s, ok := c.(Surface)
	if !ok {
		return
	}
	s.DrawLabel(Drawn{
		Text:     l.text,
		Center:   center,
		Size:     l.size,
		Rotation: l.model.Rotation,
		Set:      l.set,
		Index:    l.index,
		Options:  l.opts,
	})
}
