package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/fonts"
	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/label"
	"github.com/matzehuels/chartlabels/pkg/labels/layout"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

// baselineShift moves a line's vertical center to its baseline, as a
// fraction of the font size.
const baselineShift = 0.35

// PDFOption configures PDF rendering via [RenderPDF].
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	debug      []*layout.Entry
	background string
}

// WithPDFDebug outlines the chart area and the hit box of every visible entry.
func WithPDFDebug(entries []*layout.Entry) PDFOption {
	return func(r *pdfRenderer) { r.debug = entries }
}

// WithPDFBackground fills the page with color.
func WithPDFBackground(color string) PDFOption {
	return func(r *pdfRenderer) { r.background = color }
}

// RenderPDF draws the chart on a single page sized to the canvas, one
// point per pixel. Labels use the embedded Go font they were measured with.
func RenderPDF(c *chart.Chart, opts ...PDFOption) ([]byte, error) {
	var r pdfRenderer
	for _, opt := range opts {
		opt(&r)
	}

	size := c.Size()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: size.W, Ht: size.H},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("chartlabels", false)
	if title := c.Document().Title; title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.AddUTF8FontFromBytes(fonts.FontFamily, "", fonts.RegularTTF())
	pdf.AddPage()

	if col, ok := parseColor(r.background); ok {
		setFill(pdf, col)
		pdf.Rect(0, 0, size.W, size.H, "F")
	}

	drawElements(pdf, c)
	for _, d := range c.Drawn() {
		drawLabel(pdf, d)
	}
	if r.debug != nil {
		drawDebug(pdf, c.Area(), r.debug)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawElements(pdf *gofpdf.Fpdf, c *chart.Chart) {
	datasets := c.Document().Datasets
	thickness := c.BarWidth()

	for i, els := range c.Elements() {
		col, ok := parseColor(datasetColor(datasets[i].Color, i))
		if !ok {
			col, _ = parseColor(palette[i%len(palette)])
		}
		setFill(pdf, col)
		pdf.SetDrawColor(255, 255, 255)
		for _, el := range els {
			switch el.Kind {
			case positioner.KindRect:
				b := barRect(el, thickness)
				pdf.Rect(b.X, b.Y, b.W, b.H, "F")
			case positioner.KindPoint:
				pdf.Circle(el.X, el.Y, el.Radius, "F")
			case positioner.KindArc:
				if el.EndAngle > el.StartAngle {
					pdf.Polygon(pointTypes(arcOutline(el, arcSteps)), "FD")
				}
			}
		}
	}
	pdf.SetAlpha(1, "Normal")
}

func drawLabel(pdf *gofpdf.Fpdf, d label.Drawn) {
	o := d.Options
	pdf.TransformBegin()
	defer pdf.TransformEnd()
	if d.Rotation != 0 {
		// PDF angles run counterclockwise.
		pdf.TransformRotate(-d.Rotation*180/math.Pi, d.Center.X, d.Center.Y)
	}

	if col, ok := parseColor(o.BackgroundColor); ok {
		setFill(pdf, col)
		box := d.Box()
		pdf.Rect(box.X, box.Y, box.W, box.H, "F")
	}

	col, ok := parseColor(o.Color)
	if !ok {
		col = rgba{A: 1}
	}
	pdf.SetTextColor(col.R, col.G, col.B)
	pdf.SetAlpha(col.A, "Normal")
	pdf.SetFont(fonts.FontFamily, "", o.FontSize)

	lines := strings.Split(d.Text, "\n")
	x := textCenter(d).X
	for i, y := range lineCenters(d, len(lines)) {
		w := pdf.GetStringWidth(lines[i])
		pdf.Text(x-w/2, y+o.FontSize*baselineShift, lines[i])
	}
	pdf.SetAlpha(1, "Normal")
}

func drawDebug(pdf *gofpdf.Fpdf, area geom.Rect, entries []*layout.Entry) {
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(153, 153, 153)
	pdf.SetDashPattern([]float64{4, 2}, 0)
	pdf.Rect(area.X, area.Y, area.W, area.H, "D")
	pdf.SetDashPattern(nil, 0)

	pdf.SetDrawColor(225, 87, 89)
	for _, e := range entries {
		if _, drawn := e.Center(); !drawn || !e.Visible() {
			continue
		}
		corners := e.Box().Corners()
		pdf.Polygon(pointTypes(corners[:]), "D")
	}
}

func setFill(pdf *gofpdf.Fpdf, c rgba) {
	pdf.SetFillColor(c.R, c.G, c.B)
	pdf.SetAlpha(c.A, "Normal")
}

func pointTypes(pts []geom.Point) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		out[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	return out
}
