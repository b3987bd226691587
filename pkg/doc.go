// Package pkg provides the core libraries for chartlabels data label layout.
//
// # Overview
//
// chartlabels places the data labels of a chart next to their elements
// (bars, points, arcs), hides labels that overlap a higher-priority one, and
// negotiates extra chart padding so that every visible label fits on the
// canvas. The pkg directory is organized into four areas:
//
//  1. [labels] - The layout engine (positioners, hit boxes, overlap, margins)
//  2. [chart] - A chart runtime the engine lays out labels for
//  3. [pipeline] - Orchestration (load → layout → negotiate → render)
//  4. Infrastructure - [cache], [io], [render], [errors], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	Chart document (JSON/YAML/TOML)
//	         ↓
//	    [io] package (decode + schema validation)
//	         ↓
//	    [chart] package (element geometry, one label per value)
//	         ↓
//	    [labels/layout] package (prepare, draw, overlap, margin negotiation)
//	         ↓
//	    [render] package (SVG, PDF) or [io] placements (JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/chartlabels/pkg/chart"
//	    chartio "github.com/matzehuels/chartlabels/pkg/io"
//	    "github.com/matzehuels/chartlabels/pkg/labels/layout"
//	    "github.com/matzehuels/chartlabels/pkg/render"
//	)
//
//	doc, _ := chartio.Import("revenue.yaml")
//	c, _ := chart.New(*doc)
//
//	engine := layout.New()
//	entries := engine.Prepare(c.Labels())
//	c.BeginFrame()
//	engine.Draw(c, entries)
//
//	svg := render.RenderSVG(c)
//
// Most callers use [pipeline.Runner] instead, which adds margin negotiation
// and artifact caching on top of the steps above.
//
// # Main Packages
//
// ## Label Layout
//
// [labels/positioner] - Turns an element and its label options (anchor,
// align, offset, clamp) into an anchor point and a direction, and reports
// how far the outermost labels overshoot the chart area.
//
// [labels/hitbox] - Rotated rectangles with separating-axis intersection and
// point containment.
//
// [labels/layout] - The engine: priority ordering, per-frame coordinate
// resolution, overlap resolution and the debounced padding negotiation.
//
// [labels/label] - The concrete label: text, resolved options and measured
// size.
//
// ## Runtime and Output
//
// [chart] - Bar, line, pie and doughnut charts. Maps values to element
// geometry inside the padded chart area and re-runs the layout on update.
//
// [render] - SVG and PDF output, with optional debug hit boxes.
//
// [fonts] - The embedded label font and text measurement.
//
// ## Infrastructure
//
// [pipeline] - Complete load → layout → render pipeline used by the CLI and
// the HTTP server.
//
// [cache] - Artifact caches: file, redis and null, with key builders.
//
// [io] - Document import with schema validation; placement export.
//
// [errors] - Error codes shared by the CLI and the HTTP server.
//
// [observability] - Hooks for layout, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/labels/...             # The layout engine only
//	go test -run Example ./pkg/...       # Examples only
//
// [labels]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/labels
// [labels/positioner]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/labels/positioner
// [labels/hitbox]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/labels/hitbox
// [labels/layout]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/labels/layout
// [labels/label]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/labels/label
// [chart]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/chart
// [render]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/render
// [fonts]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/chartlabels/pkg/observability
package pkg
