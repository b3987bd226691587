package render

import (
	"math"

	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

// fullTurn is the sweep at which an arc is drawn as a complete ring.
const fullTurn = 2*math.Pi - 1e-9

// barRect returns the rectangle of a bar element of the given thickness.
func barRect(el positioner.Element, thickness float64) geom.Rect {
	if el.Horizontal {
		return geom.Rect{
			X: math.Min(el.X, el.Base),
			Y: el.Y - thickness/2,
			W: math.Abs(el.X - el.Base),
			H: thickness,
		}
	}
	return geom.Rect{
		X: el.X - thickness/2,
		Y: math.Min(el.Y, el.Base),
		W: thickness,
		H: math.Abs(el.Y - el.Base),
	}
}

func polar(cx, cy, r, angle float64) geom.Point {
	return geom.Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
}

// arcOutline samples the outline of an arc element: the outer edge from
// start to end, then the inner edge back. Pie slices close on the center.
func arcOutline(el positioner.Element, steps int) []geom.Point {
	sweep := el.EndAngle - el.StartAngle
	n := max(2, int(math.Ceil(float64(steps)*sweep/(2*math.Pi))))
	pts := make([]geom.Point, 0, 2*n+2)
	for i := 0; i <= n; i++ {
		a := el.StartAngle + sweep*float64(i)/float64(n)
		pts = append(pts, polar(el.X, el.Y, el.OuterRadius, a))
	}
	if el.InnerRadius <= 0 {
		return append(pts, geom.Point{X: el.X, Y: el.Y})
	}
	for i := n; i >= 0; i-- {
		a := el.StartAngle + sweep*float64(i)/float64(n)
		pts = append(pts, polar(el.X, el.Y, el.InnerRadius, a))
	}
	return pts
}
