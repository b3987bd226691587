// Package hitbox implements the rotated label box used for overlap detection
// and cursor picking.
//
// A HitBox is a rectangle of the label's measured size centered on the
// label's draw position and rotated around that center. Overlap uses a
// separating-axis test over the rectangle edges; containment rotates the
// query point back into the box frame.
package hitbox

import (
	"math"

	"github.com/matzehuels/chartlabels/pkg/geom"
)

// containsMargin widens the box by one pixel when picking so that the
// cursor on a box edge still hits.
const containsMargin = 1.0

// HitBox is the hit-test geometry of one label. The zero value is an empty
// box at the origin.
type HitBox struct {
	rect     geom.Rect
	rotation float64
}

// New returns an empty box.
func New() *HitBox { return &HitBox{} }

// Update moves the box so that a rectangle of the given size is centered on
// center and rotated by rotation radians.
func (b *HitBox) Update(center geom.Point, size geom.Size, rotation float64) {
	b.rotation = rotation
	b.rect = geom.Rect{
		X: center.X - size.W/2,
		Y: center.Y - size.H/2,
		W: size.W,
		H: size.H,
	}
}

// Rect returns the unrotated rectangle of the box.
func (b *HitBox) Rect() geom.Rect { return b.rect }

// Rotation returns the rotation of the box in radians.
func (b *HitBox) Rotation() float64 { return b.rotation }

// Center returns the rotation center of the box.
func (b *HitBox) Center() geom.Point { return b.rect.Center() }

// Contains reports whether p falls inside the rotated box.
func (b *HitBox) Contains(p geom.Point) bool {
	p = p.Rotate(b.Center(), -b.rotation)
	r := b.rect
	return !(p.X < r.Left()-containsMargin ||
		p.Y < r.Top()-containsMargin ||
		p.X > r.Right()+containsMargin ||
		p.Y > r.Bottom()+containsMargin)
}

// Intersects reports whether the two rotated boxes overlap.
func (b *HitBox) Intersects(other *HitBox) bool {
	r0 := b.points()
	r1 := other.points()

	axes := []axis{toAxis(r0[0], r0[1]), toAxis(r0[0], r0[3])}
	if b.rotation != other.rotation || axes[0].degenerate || axes[1].degenerate {
		axes = append(axes, toAxis(r1[0], r1[1]), toAxis(r1[0], r1[3]))
	}
	if !hasDirection(axes) {
		// Both boxes collapsed to points: compare on the canvas axes.
		axes = append(axes, axis{vx: 1}, axis{vy: 1})
	}

	for _, ax := range axes {
		if ax.degenerate {
			continue
		}
		min0, max0 := ax.project(r0)
		min1, max1 := ax.project(r1)
		if max0 < min1 || max1 < min0 {
			return false
		}
	}
	return true
}

// Corners returns the rotated corners clockwise from the top-left one.
func (b *HitBox) Corners() [4]geom.Point { return b.points() }

func (b *HitBox) points() [4]geom.Point {
	corners := b.rect.Corners()
	if b.rotation == 0 {
		return corners
	}
	center := b.Center()
	for i, c := range corners {
		corners[i] = c.Rotate(center, b.rotation)
	}
	return corners
}

type axis struct {
	vx, vy     float64
	origin     geom.Point
	degenerate bool
}

func toAxis(p0, p1 geom.Point) axis {
	vx, vy := p1.X-p0.X, p1.Y-p0.Y
	ln := math.Hypot(vx, vy)
	if ln == 0 {
		// Zero-sized edge: the axis has no direction, skip it.
		return axis{origin: p0, degenerate: true}
	}
	return axis{vx: vx / ln, vy: vy / ln, origin: p0}
}

func hasDirection(axes []axis) bool {
	for _, ax := range axes {
		if !ax.degenerate {
			return true
		}
	}
	return false
}

func (a axis) project(points [4]geom.Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		pr := a.vx*(p.X-a.origin.X) + a.vy*(p.Y-a.origin.Y)
		lo = math.Min(lo, pr)
		hi = math.Max(hi, pr)
	}
	return lo, hi
}
