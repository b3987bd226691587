package pipeline

import (
	"bytes"
	"fmt"

	chartio "github.com/matzehuels/chartlabels/pkg/io"
	"github.com/matzehuels/chartlabels/pkg/render"
)

// renderFormat produces one output format from a laid out session.
func renderFormat(s *session, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.Debug {
			svgOpts = append(svgOpts, render.WithDebug(s.entries))
		}
		if opts.EmbedFont {
			svgOpts = append(svgOpts, render.WithEmbeddedFont())
		}
		if opts.Background != "" {
			svgOpts = append(svgOpts, render.WithBackground(opts.Background))
		}
		return render.RenderSVG(s.chart, svgOpts...), nil

	case FormatPDF:
		var pdfOpts []render.PDFOption
		if opts.Debug {
			pdfOpts = append(pdfOpts, render.WithPDFDebug(s.entries))
		}
		if opts.Background != "" {
			pdfOpts = append(pdfOpts, render.WithPDFBackground(opts.Background))
		}
		return render.RenderPDF(s.chart, pdfOpts...)

	case FormatJSON:
		var buf bytes.Buffer
		if err := chartio.WriteJSON(chartio.NewPlacements(s.chart, s.entries), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
