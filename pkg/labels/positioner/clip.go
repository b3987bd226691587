package positioner

import "github.com/matzehuels/chartlabels/pkg/geom"

// Cohen–Sutherland region codes.
const (
	regionInside = 0
	regionLeft   = 1
	regionRight  = 2
	regionBottom = 4
	regionTop    = 8
)

func region(x, y float64, area geom.Rect) int {
	res := regionInside
	if x < area.Left() {
		res |= regionLeft
	} else if x > area.Right() {
		res |= regionRight
	}
	if y < area.Top() {
		res |= regionTop
	} else if y > area.Bottom() {
		res |= regionBottom
	}
	return res
}

// clipped clips the segment to area. A segment entirely outside the area
// is returned unchanged.
func clipped(seg segment, area geom.Rect) segment {
	x0, y0, x1, y1 := seg.x0, seg.y0, seg.x1, seg.y1
	r0 := region(x0, y0, area)
	r1 := region(x1, y1, area)

	for (r0|r1) != regionInside && (r0&r1) == regionInside {
		r := r0
		if r == regionInside {
			r = r1
		}

		var x, y float64
		switch {
		case r&regionTop != 0:
			x = x0 + (x1-x0)*(area.Top()-y0)/(y1-y0)
			y = area.Top()
		case r&regionBottom != 0:
			x = x0 + (x1-x0)*(area.Bottom()-y0)/(y1-y0)
			y = area.Bottom()
		case r&regionRight != 0:
			y = y0 + (y1-y0)*(area.Right()-x0)/(x1-x0)
			x = area.Right()
		case r&regionLeft != 0:
			y = y0 + (y1-y0)*(area.Left()-x0)/(x1-x0)
			x = area.Left()
		}

		if r == r0 {
			x0, y0 = x, y
			r0 = region(x0, y0, area)
		} else {
			x1, y1 = x, y
			r1 = region(x1, y1, area)
		}
	}

	seg.x0, seg.y0, seg.x1, seg.y1 = x0, y0, x1, y1
	return seg
}
