// Package render draws laid out charts as SVG or PDF.
//
// # Overview
//
// Both sinks draw the same picture: the chart elements (bars, points, arcs)
// colored per dataset, then every label the layout engine drew in the last
// frame, in priority order. Labels hidden by overlap resolution are never
// drawn, so they never reach a sink.
//
//	engine.Draw(c, entries)
//	svg := render.RenderSVG(c, render.WithEmbeddedFont())
//	pdf, err := render.RenderPDF(c)
//
// # Debugging
//
// [WithDebug] and [WithPDFDebug] outline the chart area (canvas minus the
// negotiated padding) and the rotated hit box of every visible label.
// Comparing the two shows why labels were hidden and how much room margin
// negotiation made for the rest.
//
// # Fonts
//
// Labels are measured with Go Regular (see package fonts). The PDF sink
// always embeds it; the SVG sink embeds it with [WithEmbeddedFont] and
// otherwise names it first in the font-family list.
package render
