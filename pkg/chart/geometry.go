package chart

import (
	"math"

	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

const (
	// barFill is the share of a category band covered by bars.
	barFill = 0.8

	pointRadius = 3

	// doughnutCutout is the inner radius of a doughnut relative to its outer radius.
	doughnutCutout = 0.5
)

// scale maps values to pixels between lo and hi.
type scale struct {
	min, max float64
	lo, hi   float64
}

func (s scale) at(v float64) float64 {
	return s.lo + (v-s.min)/(s.max-s.min)*(s.hi-s.lo)
}

// valueRange returns the value range across all datasets, always including 0.
func (c *Chart) valueRange() (lo, hi float64) {
	for _, ds := range c.doc.Datasets {
		for _, v := range ds.Data {
			if v == nil || math.IsNaN(*v) {
				continue
			}
			lo = math.Min(lo, *v)
			hi = math.Max(hi, *v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

// relayout maps every value to its element inside the current chart area
// and refreshes the clamping area of each label.
func (c *Chart) relayout() {
	area := c.Area()

	switch c.doc.Type {
	case TypeBar:
		c.layoutBars(area)
	case TypeLine:
		c.layoutPoints(area)
	case TypePie, TypeDoughnut:
		c.layoutArcs(area)
	}

	for _, ls := range c.labels {
		for _, l := range ls {
			l.SetArea(area)
		}
	}
}

func (c *Chart) layoutBars(area geom.Rect) {
	n := c.categories()
	if n == 0 {
		return
	}
	sets := float64(len(c.labels))
	vmin, vmax := c.valueRange()

	// Categories run along x for vertical bars and along y for horizontal ones.
	bandLen, valueScale := area.W, scale{min: vmin, max: vmax, lo: area.Bottom(), hi: area.Top()}
	if c.doc.Horizontal {
		bandLen, valueScale = area.H, scale{min: vmin, max: vmax, lo: area.Left(), hi: area.Right()}
	}
	band := bandLen / float64(n)
	bar := band * barFill / sets
	base := valueScale.at(0)

	for i, ls := range c.labels {
		for j, l := range ls {
			offset := band*float64(j) + band*(1-barFill)/2 + bar*(float64(i)+0.5)
			v := l.Value()
			if math.IsNaN(v) {
				v = 0
			}
			el := positioner.Element{Kind: positioner.KindRect, Base: base}

			// Labels point away from the bar base: up or right for positive
			// values, down or left for negative ones.
			origin := &geom.Point{}
			if c.doc.Horizontal {
				el.Horizontal = true
				el.X, el.Y = valueScale.at(v), area.Top()+offset
				origin.X, origin.Y = base, el.Y
			} else {
				el.X, el.Y = area.Left()+offset, valueScale.at(v)
				origin.X, origin.Y = el.X, base
			}
			l.SetElement(el)
			l.Model().Config.Origin = origin
		}
	}
}

// BarWidth returns the thickness of one bar in the current layout.
func (c *Chart) BarWidth() float64 {
	n := c.categories()
	if n == 0 || len(c.labels) == 0 {
		return 0
	}
	area := c.Area()
	bandLen := area.W
	if c.doc.Horizontal {
		bandLen = area.H
	}
	return bandLen / float64(n) * barFill / float64(len(c.labels))
}

func (c *Chart) layoutPoints(area geom.Rect) {
	n := c.categories()
	if n == 0 {
		return
	}
	vmin, vmax := c.valueRange()
	ys := scale{min: vmin, max: vmax, lo: area.Bottom(), hi: area.Top()}
	band := area.W / float64(n)

	for _, ls := range c.labels {
		for j, l := range ls {
			v := l.Value()
			if math.IsNaN(v) {
				v = 0
			}
			l.SetElement(positioner.Element{
				Kind:   positioner.KindPoint,
				X:      area.Left() + band*(float64(j)+0.5),
				Y:      ys.at(v),
				Radius: pointRadius,
			})
		}
	}
}

func (c *Chart) layoutArcs(area geom.Rect) {
	center := area.Center()
	outer := math.Min(area.W, area.H) / 2
	inner := 0.0
	if c.doc.Type == TypeDoughnut {
		inner = outer * doughnutCutout
	}

	// Each dataset is one ring, outermost first.
	ring := (outer - inner) / float64(len(c.labels))
	for i, ls := range c.labels {
		r1 := outer - ring*float64(i)
		r0 := r1 - ring

		total := 0.0
		for _, l := range ls {
			total += sliceValue(l.Value())
		}

		angle := -math.Pi / 2
		for _, l := range ls {
			sweep := 0.0
			if total > 0 {
				sweep = sliceValue(l.Value()) / total * 2 * math.Pi
			}
			l.SetElement(positioner.Element{
				Kind:        positioner.KindArc,
				X:           center.X,
				Y:           center.Y,
				StartAngle:  angle,
				EndAngle:    angle + sweep,
				InnerRadius: r0,
				OuterRadius: r1,
			})
			l.Model().Config.Origin = &center
			angle += sweep
		}
	}
}

func sliceValue(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
