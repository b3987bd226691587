package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/fonts"
	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/label"
	"github.com/matzehuels/chartlabels/pkg/labels/layout"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

// arcSteps is the number of segments used for a full turn of an arc outline.
const arcSteps = 96

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	debug      []*layout.Entry
	embedFont  bool
	background string
}

// WithDebug outlines the chart area and the hit box of every visible entry.
func WithDebug(entries []*layout.Entry) SVGOption {
	return func(r *svgRenderer) { r.debug = entries }
}

// WithEmbeddedFont embeds the label font so the output renders the same
// everywhere, at the cost of a larger file.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// RenderSVG draws the chart elements and the labels drawn in the last frame.
func RenderSVG(c *chart.Chart, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	size := c.Size()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		size.W, size.H, size.W, size.H)
	if title := c.Document().Title; title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(title))
	}
	if r.embedFont {
		renderFontFace(&buf)
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	renderElements(&buf, c)
	for _, d := range c.Drawn() {
		renderLabel(&buf, d)
	}
	if r.debug != nil {
		renderDebug(&buf, c.Area(), r.debug)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderFontFace(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <defs><style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style></defs>\n",
		fonts.FontFamily, fonts.RegularTTFBase64())
}

func renderElements(buf *bytes.Buffer, c *chart.Chart) {
	datasets := c.Document().Datasets
	thickness := c.BarWidth()

	buf.WriteString(`  <g class="elements">` + "\n")
	for i, els := range c.Elements() {
		fill := escapeXML(datasetColor(datasets[i].Color, i))
		for j, el := range els {
			switch el.Kind {
			case positioner.KindRect:
				b := barRect(el, thickness)
				fmt.Fprintf(buf, `    <rect data-set="%d" data-index="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
					i, j, b.X, b.Y, b.W, b.H, fill)
			case positioner.KindPoint:
				fmt.Fprintf(buf, `    <circle data-set="%d" data-index="%d" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
					i, j, el.X, el.Y, el.Radius, fill)
			case positioner.KindArc:
				if el.EndAngle <= el.StartAngle {
					continue
				}
				fmt.Fprintf(buf, `    <path data-set="%d" data-index="%d" d="%s" fill="%s" stroke="#ffffff"/>`+"\n",
					i, j, pathData(arcOutline(el, arcSteps)), fill)
			}
		}
	}
	buf.WriteString("  </g>\n")
}

func renderLabel(buf *bytes.Buffer, d label.Drawn) {
	o := d.Options
	fmt.Fprintf(buf, `  <g class="label" data-set="%d" data-index="%d"`, d.Set, d.Index)
	if d.Rotation != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%.2f %.2f %.2f)"`, d.Rotation*180/math.Pi, d.Center.X, d.Center.Y)
	}
	buf.WriteString(">\n")

	box := d.Box()
	if o.BackgroundColor != "" {
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			box.X, box.Y, box.W, box.H, escapeXML(o.BackgroundColor))
	}

	lines := strings.Split(d.Text, "\n")
	for i, y := range lineCenters(d, len(lines)) {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
			textCenter(d).X, y, fonts.FallbackFontFamily, o.FontSize, escapeXML(o.Color), escapeXML(lines[i]))
	}
	buf.WriteString("  </g>\n")
}

// textCenter is the center of the label box without its padding.
func textCenter(d label.Drawn) geom.Point {
	box, p := d.Box(), d.Options.Padding
	return geom.Point{
		X: box.X + p.Left + (box.W-p.Left-p.Right)/2,
		Y: box.Y + p.Top + (box.H-p.Top-p.Bottom)/2,
	}
}

// lineCenters returns the vertical center of each text line.
func lineCenters(d label.Drawn, n int) []float64 {
	lh := d.Options.FontSize * d.Options.LineHeight
	top := textCenter(d).Y - lh*float64(n)/2
	ys := make([]float64, n)
	for i := range ys {
		ys[i] = top + lh*(float64(i)+0.5)
	}
	return ys
}

func renderDebug(buf *bytes.Buffer, area geom.Rect, entries []*layout.Entry) {
	buf.WriteString(`  <g class="debug" fill="none" stroke-width="1">` + "\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" stroke="#999999" stroke-dasharray="4 2"/>`+"\n",
		area.X, area.Y, area.W, area.H)
	for _, e := range entries {
		if _, drawn := e.Center(); !drawn || !e.Visible() {
			continue
		}
		corners := e.Box().Corners()
		fmt.Fprintf(buf, `    <path data-set="%d" data-index="%d" d="%s" stroke="#e15759"/>`+"\n",
			e.Set(), e.Index(), pathData(corners[:]))
	}
	buf.WriteString("  </g>\n")
}

func pathData(pts []geom.Point) string {
	var b strings.Builder
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%.2f %.2f ", cmd, p.X, p.Y)
	}
	b.WriteString("Z")
	return b.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
