// Package io reads chart documents and writes label placements.
//
// # Documents
//
// A chart document describes the canvas, the datasets and the label
// configuration. It can be written in JSON, YAML or TOML; [Import] picks the
// decoder from the file extension:
//
//	type = "bar"
//	labels = ["Q1", "Q2", "Q3"]
//
//	[datalabels]
//	display = "auto"
//	anchor = "end"
//	align = "top"
//
//	[[datasets]]
//	label = "revenue"
//	data = [12.5, 40.0, 33.0]
//
// Every document is checked against an embedded JSON schema ([Schema]) with
// unknown keys rejected, so typos surface as errors instead of silently
// falling back to defaults. Semantic checks run in [chart.New].
//
// # Placements
//
// After a layout run, [NewPlacements] captures every label in priority
// order: its dataset and data index, text, final visibility and, for
// visible labels, the drawn center and hit box. [WriteJSON] and [ReadJSON]
// round-trip placements for tools that post-process a layout.
package io
