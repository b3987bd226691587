package layout

import (
	"math"

	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

// Coordinates returns the center of a label box of the given size, pushed
// away from the element's anchor point along the positioner's direction.
//
// The box is projected so that its rotated extent just clears the anchor,
// then moved a further m.Offset along the direction. A zero direction
// leaves the label centered on the anchor.
func Coordinates(el positioner.Element, m *Model, size geom.Size) geom.Point {
	fn := m.Positioner
	if fn == nil {
		fn = positioner.ForElement(el.Kind)
	}

	v := fn(el, m.Config)
	if v.VX == 0 && v.VY == 0 {
		return geom.Point{X: v.X, Y: v.Y}
	}

	hw, hh := size.W/2, size.H/2
	sin, cos := math.Sincos(m.Rotation)
	dx := math.Abs(hw*cos) + math.Abs(hh*sin)
	dy := math.Abs(hw*sin) + math.Abs(hh*cos)

	// Scale so the dominant component of the direction reaches the box edge.
	s := 1 / math.Max(math.Abs(v.VX), math.Abs(v.VY))
	dx *= v.VX * s
	dy *= v.VY * s

	dx += m.Offset * v.VX
	dy += m.Offset * v.VY

	return geom.Point{X: v.X + dx, Y: v.Y + dy}
}
