package positioner

import (
	"math"

	"github.com/matzehuels/chartlabels/pkg/geom"
)

// Extreme is the label closest to one canvas edge: its center coordinate on
// the edge's axis and its box extent along that axis.
type Extreme struct {
	// Pos is the center y (top, bottom) or x (left, right) of the label.
	Pos float64 `json:"pos"`
	// Extent is the box height (top, bottom) or width (left, right).
	Extent float64 `json:"extent"`
}

// Extremes bundles everything needed to measure label overshoot.
type Extremes struct {
	Highest  Extreme `json:"highest"`
	Rightest Extreme `json:"rightest"`
	Lowest   Extreme `json:"lowest"`
	Leftest  Extreme `json:"leftest"`

	// Paddings is the current chart layout padding.
	Paddings geom.Padding `json:"paddings"`

	// LabelTop and LabelBottom are the configured extra label padding.
	LabelTop    float64 `json:"label_top"`
	LabelBottom float64 `json:"label_bottom"`

	// Canvas size.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExceededTop returns the top padding needed to keep the highest label on
// the canvas, or 0 when it already fits.
func ExceededTop(d Extremes) float64 {
	over := d.Highest.Extent/2 + d.LabelTop - d.Highest.Pos
	if over <= 0 {
		return 0
	}
	return d.Paddings.Top + math.Ceil(over)
}

// ExceededRight returns the right padding needed to keep the rightmost
// label on the canvas, or 0 when it already fits.
func ExceededRight(d Extremes) float64 {
	over := d.Rightest.Pos + d.Rightest.Extent/2 - d.Width
	if over <= 0 {
		return 0
	}
	return d.Paddings.Right + math.Ceil(over)
}

// ExceededBottom returns the bottom padding needed to keep the lowest label
// on the canvas, or 0 when it already fits.
func ExceededBottom(d Extremes) float64 {
	over := d.Lowest.Pos + d.Lowest.Extent/2 + d.LabelBottom - d.Height
	if over <= 0 {
		return 0
	}
	return d.Paddings.Bottom + math.Ceil(over)
}

// ExceededLeft returns the left padding needed to keep the leftmost label
// on the canvas, or 0 when it already fits.
func ExceededLeft(d Extremes) float64 {
	over := d.Leftest.Extent/2 - d.Leftest.Pos
	if over <= 0 {
		return 0
	}
	return d.Paddings.Left + math.Ceil(over)
}
