package hitbox

import (
	"math"
	"testing"

	"github.com/matzehuels/chartlabels/pkg/geom"
)

func box(cx, cy, w, h, rot float64) *HitBox {
	b := New()
	b.Update(geom.Point{X: cx, Y: cy}, geom.Size{W: w, H: h}, rot)
	return b
}

func TestUpdate(t *testing.T) {
	b := box(50, 20, 10, 4, 0.5)

	want := geom.Rect{X: 45, Y: 18, W: 10, H: 4}
	if got := b.Rect(); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}
	if b.Rotation() != 0.5 {
		t.Errorf("Rotation() = %v, want 0.5", b.Rotation())
	}
	if c := b.Center(); c != (geom.Point{X: 50, Y: 20}) {
		t.Errorf("Center() = %v", c)
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b *HitBox
		want bool
	}{
		{"same box", box(0, 0, 10, 10, 0), box(0, 0, 10, 10, 0), true},
		{"partial overlap", box(0, 0, 10, 10, 0), box(8, 0, 10, 10, 0), true},
		{"touching edges", box(0, 0, 10, 10, 0), box(10, 0, 10, 10, 0), true},
		{"apart horizontally", box(0, 0, 10, 10, 0), box(11, 0, 10, 10, 0), false},
		{"apart vertically", box(0, 0, 10, 10, 0), box(0, 20, 10, 10, 0), false},
		{"diagonal apart", box(0, 0, 10, 10, 0), box(12, 12, 10, 10, 0), false},
		// A 45° rotated square reaches ~7.07 from its center along the axes
		// but its corners miss the other box's corner region.
		{"rotated misses corner", box(0, 0, 10, 10, math.Pi/4), box(11, 11, 10, 10, 0), false},
		{"rotated reaches along axis", box(0, 0, 10, 10, math.Pi/4), box(11.5, 0, 10, 10, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("a.Intersects(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("b.Intersects(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectsZeroSize(t *testing.T) {
	a := box(5, 5, 0, 0, 0)
	b := box(5, 5, 10, 10, 0)
	if !a.Intersects(b) {
		t.Error("a point inside a box should intersect it")
	}
	if a.Intersects(box(50, 50, 10, 10, 0)) {
		t.Error("a distant point should not intersect")
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name string
		b    *HitBox
		p    geom.Point
		want bool
	}{
		{"center", box(0, 0, 10, 4, 0), geom.Point{}, true},
		{"inside margin", box(0, 0, 10, 4, 0), geom.Point{X: 5.5, Y: 0}, true},
		{"outside", box(0, 0, 10, 4, 0), geom.Point{X: 7, Y: 0}, false},
		{"rotated tall", box(0, 0, 10, 4, math.Pi/2), geom.Point{X: 0, Y: 4.5}, true},
		{"rotated no longer wide", box(0, 0, 10, 4, math.Pi/2), geom.Point{X: 4.5, Y: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestCorners(t *testing.T) {
	c := box(0, 0, 10, 4, math.Pi/2).Corners()
	// A quarter turn maps the top-left corner (-5,-2) to (2,-5).
	if math.Abs(c[0].X-2) > 1e-9 || math.Abs(c[0].Y+5) > 1e-9 {
		t.Errorf("Corners()[0] = %v, want (2,-5)", c[0])
	}
}
