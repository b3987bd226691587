package layout

import (
	"time"

	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

// Display is a label's display mode.
type Display int

const (
	// DisplayOff never shows the label.
	DisplayOff Display = iota
	// DisplayOn always shows the label, even when it overlaps others.
	DisplayOn
	// DisplayAuto shows the label unless it overlaps a label that wins.
	DisplayAuto
)

// String returns the configuration name of the mode.
func (d Display) String() string {
	switch d {
	case DisplayOff:
		return "false"
	case DisplayOn:
		return "true"
	case DisplayAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Phase selects which element state a label is measured from.
type Phase int

const (
	// PhaseModel is the animation target state, used while laying out.
	PhaseModel Phase = iota
	// PhaseView is the state currently on screen, used while drawing.
	PhaseView
)

// Model is the resolved style and position configuration of a label.
type Model struct {
	Display Display

	// Rotation in radians.
	Rotation float64

	// Offset is the extra distance along the offset vector.
	Offset float64

	Positioner positioner.Func
	Config     positioner.Config
}

// Label is one renderable annotation tied to a chart element.
type Label interface {
	// Model returns the label configuration, or nil when the label has none.
	Model() *Model

	// Visible reports the label's own visibility, before overlap resolution.
	Visible() bool

	// Geometry returns the measured size of the label box.
	Geometry() geom.Size

	// Rotation returns the label rotation in radians.
	Rotation() float64

	// Element returns the attached element at the given phase.
	Element(p Phase) positioner.Element

	// Draw renders the label centered on center.
	Draw(c Chart, center geom.Point)
}

// LabelOptions holds the chart-wide label settings read by the engine.
type LabelOptions struct {
	// Padding is extra room kept around labels near the canvas edges.
	// Only Top and Bottom are used by margin negotiation.
	Padding geom.Padding

	// Debug logs the negotiation measurements.
	Debug bool
}

// ChartOptions is the part of a chart's configuration the engine reads and
// writes.
type ChartOptions struct {
	// Padding is the chart layout padding. Margin negotiation writes it.
	Padding geom.Padding

	Labels LabelOptions

	// AnimationDuration is the chart's configured animation time.
	AnimationDuration time.Duration
}

// Chart is the chart the labels belong to.
type Chart interface {
	// ID identifies the chart; negotiation state is kept per ID.
	ID() string

	// Options returns the mutable chart options.
	Options() *ChartOptions

	// Size returns the canvas size.
	Size() geom.Size

	// Update re-lays out the chart after its options changed.
	Update()
}
