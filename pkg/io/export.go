package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/label"
	"github.com/matzehuels/chartlabels/pkg/labels/layout"
)

// Placements is the outcome of one layout run.
type Placements struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Padding geom.Padding `json:"padding"`
	Labels  []Placement  `json:"labels"`
}

// Placement is where one label ended up, in priority order.
type Placement struct {
	Set      int         `json:"set"`
	Index    int         `json:"index"`
	Text     string      `json:"text"`
	Visible  bool        `json:"visible"`
	Hidable  bool        `json:"hidable"`
	Center   *geom.Point `json:"center,omitempty"`
	Box      *geom.Rect  `json:"box,omitempty"`
	Rotation float64     `json:"rotation,omitempty"`
}

// NewPlacements collects the placement of every entry. Entries that were
// never drawn have no center or box.
func NewPlacements(c *chart.Chart, entries []*layout.Entry) Placements {
	p := Placements{
		Width:   c.Size().W,
		Height:  c.Size().H,
		Padding: c.Options().Padding,
		Labels:  make([]Placement, 0, len(entries)),
	}
	for _, e := range entries {
		pl := Placement{
			Set:     e.Set(),
			Index:   e.Index(),
			Visible: e.Visible(),
			Hidable: e.Hidable(),
		}
		if l, ok := e.Label().(*label.Label); ok {
			pl.Text = l.Text()
		}
		if center, ok := e.Center(); ok && e.Visible() {
			box := e.Box().Rect()
			pl.Center = &center
			pl.Box = &box
			pl.Rotation = e.Box().Rotation()
		}
		p.Labels = append(p.Labels, pl)
	}
	return p
}

// Find returns the placement of a label, or nil.
func (p Placements) Find(set, index int) *Placement {
	for i := range p.Labels {
		if p.Labels[i].Set == set && p.Labels[i].Index == index {
			return &p.Labels[i]
		}
	}
	return nil
}

// WriteJSON encodes placements as indented JSON and writes them to w.
// The output can be re-read with [ReadJSON].
func WriteJSON(p Placements, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes placements written by [WriteJSON].
func ReadJSON(r io.Reader) (Placements, error) {
	var p Placements
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return p, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

// ExportJSON writes placements to a file at path.
func ExportJSON(p Placements, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
