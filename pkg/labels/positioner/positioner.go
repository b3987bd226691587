// Package positioner computes where a label attaches to its chart element.
//
// A positioner turns an element (point, bar, arc) and the label's anchor
// configuration into a [Vector]: the anchor point on the element plus the
// direction in which the label should be pushed away from it. The layout
// engine then projects the label box along that direction.
//
// # Anchor and align
//
// Every element is reduced to a segment (x0,y0)→(x1,y1) along its natural
// direction: from the base of a bar to its tip, from the inner to the outer
// radius of an arc, across a point's radius. Anchor picks a position on the
// segment:
//
//   - [AnchorStart]: the first end of the segment
//   - [AnchorCenter]: the middle of the segment (default)
//   - [AnchorEnd]: the second end of the segment
//
// Align then rewrites the direction: "center" clears it, "start" flips it,
// "end" keeps it, "top"/"bottom"/"left"/"right" replace it with a canvas
// direction, and a number is read as an angle in degrees.
//
// # Clamping
//
// With Clamp set, the segment is first clipped to Config.Area so that labels
// of elements partially outside the chart area stay visible.
package positioner

import (
	"math"
	"strconv"

	"github.com/matzehuels/chartlabels/pkg/geom"
)

// Anchor positions.
const (
	AnchorCenter = "center"
	AnchorStart  = "start"
	AnchorEnd    = "end"
)

// Align directions. Any number in degrees is accepted too.
const (
	AlignCenter = "center"
	AlignStart  = "start"
	AlignEnd    = "end"
	AlignTop    = "top"
	AlignBottom = "bottom"
	AlignLeft   = "left"
	AlignRight  = "right"
)

// Kind identifies the shape of a chart element.
type Kind string

// Element kinds understood by [ForElement].
const (
	KindPoint Kind = "point"
	KindRect  Kind = "rect"
	KindArc   Kind = "arc"
)

// Element is the geometric state of a chart element at one animation phase.
// Only the fields relevant to its Kind are read.
type Element struct {
	Kind Kind

	// Center (point, arc) or tip (rect) of the element.
	X, Y float64

	// Point radius.
	Radius float64

	// Rect base pixel along the value axis and its orientation.
	Base       float64
	Horizontal bool

	// Arc angles in radians and radii.
	StartAngle, EndAngle     float64
	InnerRadius, OuterRadius float64
}

// Config is the label configuration a positioner reads.
type Config struct {
	Anchor string
	Align  string
	Clamp  bool

	// Area is the chart area used for clamping.
	Area geom.Rect

	// Origin is the point labels are oriented away from. A nil origin
	// orients labels upwards.
	Origin *geom.Point
}

// Vector is an anchor point and the direction to push the label along.
type Vector struct {
	X, Y   float64
	VX, VY float64
}

// Func computes the anchor vector of a label for an element.
type Func func(el Element, cfg Config) Vector

type segment struct {
	x0, y0, x1, y1 float64
	vx, vy         float64
}

// ForElement returns the positioner for an element kind, [Fallback] for
// unknown kinds.
func ForElement(k Kind) Func {
	switch k {
	case KindPoint:
		return Point
	case KindRect:
		return Rect
	case KindArc:
		return Arc
	default:
		return Fallback
	}
}

// Arc positions a label along the bisector of a pie or doughnut slice.
func Arc(el Element, cfg Config) Vector {
	angle := (el.StartAngle + el.EndAngle) / 2
	vx, vy := math.Cos(angle), math.Sin(angle)
	r0, r1 := el.InnerRadius, el.OuterRadius

	return compute(segment{
		x0: el.X + vx*r0, y0: el.Y + vy*r0,
		x1: el.X + vx*r1, y1: el.Y + vy*r1,
		vx: vx, vy: vy,
	}, cfg)
}

// Point positions a label across a point element's radius, oriented away
// from the configured origin.
func Point(el Element, cfg Config) Vector {
	v := orient(geom.Point{X: el.X, Y: el.Y}, cfg.Origin)
	rx, ry := v.X*el.Radius, v.Y*el.Radius

	return compute(segment{
		x0: el.X - rx, y0: el.Y - ry,
		x1: el.X + rx, y1: el.Y + ry,
		vx: v.X, vy: v.Y,
	}, cfg)
}

// Rect positions a label along a bar, from its base to its tip. Negative
// bars keep the tip as the end of the segment.
func Rect(el Element, cfg Config) Vector {
	v := orient(geom.Point{X: el.X, Y: el.Y}, cfg.Origin)
	x0, y0 := el.X, el.Base
	if el.Horizontal {
		x0, y0 = el.Base, el.Y
	}

	return compute(segment{
		x0: x0, y0: y0,
		x1: el.X, y1: el.Y,
		vx: v.X, vy: v.Y,
	}, cfg)
}

// Fallback positions a label on the element's position itself.
func Fallback(el Element, cfg Config) Vector {
	v := orient(geom.Point{X: el.X, Y: el.Y}, cfg.Origin)
	return compute(segment{
		x0: el.X, y0: el.Y,
		x1: el.X, y1: el.Y,
		vx: v.X, vy: v.Y,
	}, cfg)
}

// orient returns the unit direction from origin to p.
func orient(p geom.Point, origin *geom.Point) geom.Point {
	if origin == nil {
		return geom.Point{X: 0, Y: -1}
	}
	dx, dy := p.X-origin.X, p.Y-origin.Y
	ln := math.Hypot(dx, dy)
	if ln == 0 {
		return geom.Point{X: 0, Y: -1}
	}
	return geom.Point{X: dx / ln, Y: dy / ln}
}

func compute(seg segment, cfg Config) Vector {
	vx, vy := seg.vx, seg.vy
	if cfg.Clamp {
		seg = clipped(seg, cfg.Area)
	}

	var x, y float64
	switch cfg.Anchor {
	case AnchorStart:
		x, y = seg.x0, seg.y0
	case AnchorEnd:
		x, y = seg.x1, seg.y1
	default:
		x, y = (seg.x0+seg.x1)/2, (seg.y0+seg.y1)/2
	}
	return aligned(x, y, vx, vy, cfg.Align)
}

func aligned(x, y, vx, vy float64, align string) Vector {
	switch align {
	case AlignCenter:
		vx, vy = 0, 0
	case AlignBottom:
		vx, vy = 0, 1
	case AlignRight:
		vx, vy = 1, 0
	case AlignLeft:
		vx, vy = -1, 0
	case AlignTop:
		vx, vy = 0, -1
	case AlignStart:
		vx, vy = -vx, -vy
	case AlignEnd, "":
	default:
		if deg, err := strconv.ParseFloat(align, 64); err == nil {
			rad := deg * math.Pi / 180
			vx, vy = math.Cos(rad), math.Sin(rad)
		}
	}
	return Vector{X: x, Y: y, VX: vx, VY: vy}
}

// IsAlign reports whether s is a named align direction or a number.
func IsAlign(s string) bool {
	switch s {
	case AlignCenter, AlignStart, AlignEnd, AlignTop, AlignBottom, AlignLeft, AlignRight:
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// IsAnchor reports whether s is a known anchor position.
func IsAnchor(s string) bool {
	return s == AnchorCenter || s == AnchorStart || s == AnchorEnd
}
