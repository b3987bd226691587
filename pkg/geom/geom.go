// Package geom provides the small set of 2D value types shared by the label
// layout packages.
//
// All coordinates are canvas pixels with the origin at the top-left corner
// and y growing downwards, matching SVG and most raster canvases.
package geom

import "math"

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Rotate rotates p by angle radians around center.
func (p Point) Rotate(center Point, angle float64) Point {
	cos, sin := math.Cos(angle), math.Sin(angle)
	dx, dy := p.X-center.X, p.Y-center.Y
	return Point{
		X: center.X + cos*dx - sin*dy,
		Y: center.Y + sin*dx + cos*dy,
	}
}

// Size is the measured extent of a label box.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Corners returns the four corners clockwise from the top-left one.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Padding is the space reserved on each side of the chart area.
type Padding struct {
	Top    float64 `json:"top" yaml:"top" toml:"top"`
	Right  float64 `json:"right" yaml:"right" toml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom" toml:"bottom"`
	Left   float64 `json:"left" yaml:"left" toml:"left"`
}

// Any reports whether at least one side is strictly positive.
func (p Padding) Any() bool {
	return p.Top > 0 || p.Right > 0 || p.Bottom > 0 || p.Left > 0
}

// Inset returns the area of a w×h canvas left after applying p.
func (p Padding) Inset(w, h float64) Rect {
	return Rect{
		X: p.Left,
		Y: p.Top,
		W: math.Max(0, w-p.Left-p.Right),
		H: math.Max(0, h-p.Top-p.Bottom),
	}
}
