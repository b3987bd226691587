// Package chart turns a chart [Document] into element geometry and labels.
//
// A [Chart] is the runtime side of a document: it maps every data value to
// a bar, point or arc inside the chart area (canvas minus layout padding),
// owns one [label.Label] per value, and collects the labels drawn each
// frame. It implements [layout.Chart] so the label engine can read and
// change its padding, and [label.Surface] so labels can be drawn onto it.
//
// Charts are static: model and view phases are equal unless a caller moves
// the view with [Chart.SetView].
package chart

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/chartlabels/pkg/errors"
	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/label"
	"github.com/matzehuels/chartlabels/pkg/labels/layout"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

// Chart is a laid out chart document.
type Chart struct {
	id   string
	doc  *Document
	size geom.Size
	opts layout.ChartOptions

	labels [][]*label.Label

	mu    sync.Mutex
	drawn []label.Drawn
	hooks []func()
}

// New validates doc and builds the chart runtime. The document is not
// modified; defaults are applied to a copy.
func New(doc Document) (*Chart, error) {
	doc.SetDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	base, err := doc.Plugin.Apply(label.DefaultOptions())
	if err != nil {
		return nil, err
	}

	c := &Chart{
		id:   uuid.NewString(),
		doc:  &doc,
		size: geom.Size{W: doc.Width, H: doc.Height},
		opts: layout.ChartOptions{
			Padding: doc.Layout.Padding,
			Labels: layout.LabelOptions{
				Padding: base.Padding,
				Debug:   doc.Plugin.Debug,
			},
			AnimationDuration: doc.AnimationDuration(),
		},
	}

	c.labels = make([][]*label.Label, len(doc.Datasets))
	for i, ds := range doc.Datasets {
		opts, format := base, doc.Plugin.Format
		if ds.Labels != nil {
			if opts, err = ds.Labels.Apply(base); err != nil {
				return nil, err
			}
			if ds.Labels.Format != "" {
				format = ds.Labels.Format
			}
		}

		for j := 0; j < c.categories(); j++ {
			v := value(ds, j)
			l, err := label.New(formatValue(v, format), v, i, j, opts, positioner.Config{})
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "dataset %d value %d", i, j)
			}
			c.labels[i] = append(c.labels[i], l)
		}
	}

	c.relayout()
	return c, nil
}

func value(ds Dataset, j int) float64 {
	if j >= len(ds.Data) || ds.Data[j] == nil {
		return math.NaN()
	}
	return *ds.Data[j]
}

func formatValue(v float64, format string) string {
	if math.IsNaN(v) {
		return ""
	}
	if format == "" {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf(format, v)
}

// categories is the number of data slots per dataset.
func (c *Chart) categories() int {
	n := len(c.doc.Labels)
	for _, ds := range c.doc.Datasets {
		n = max(n, len(ds.Data))
	}
	return n
}

// ID implements layout.Chart.
func (c *Chart) ID() string { return c.id }

// Options implements layout.Chart.
func (c *Chart) Options() *layout.ChartOptions { return &c.opts }

// Size implements layout.Chart.
func (c *Chart) Size() geom.Size { return c.size }

// Document returns the document the chart was built from, with defaults.
func (c *Chart) Document() *Document { return c.doc }

// Area returns the chart area for the current layout padding.
func (c *Chart) Area() geom.Rect {
	return c.opts.Padding.Inset(c.size.W, c.size.H)
}

// OnUpdate registers fn to run after every [Chart.Update].
func (c *Chart) OnUpdate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Update implements layout.Chart. It re-maps elements to the current
// padding and runs the update hooks.
func (c *Chart) Update() {
	c.relayout()

	c.mu.Lock()
	hooks := append([]func(){}, c.hooks...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Labels returns the labels grouped by dataset, ready for
// [layout.Engine.Prepare].
func (c *Chart) Labels() [][]layout.Label {
	out := make([][]layout.Label, len(c.labels))
	for i, ls := range c.labels {
		out[i] = make([]layout.Label, len(ls))
		for j, l := range ls {
			out[i][j] = l
		}
	}
	return out
}

// Label returns the label of one data value, or nil.
func (c *Chart) Label(set, index int) *label.Label {
	if set < 0 || set >= len(c.labels) || index < 0 || index >= len(c.labels[set]) {
		return nil
	}
	return c.labels[set][index]
}

// Elements returns the current model-phase elements grouped by dataset.
func (c *Chart) Elements() [][]positioner.Element {
	out := make([][]positioner.Element, len(c.labels))
	for i, ls := range c.labels {
		for _, l := range ls {
			out[i] = append(out[i], l.Element(layout.PhaseModel))
		}
	}
	return out
}

// SetView moves the on-screen element of one value, leaving the model
// phase in place.
func (c *Chart) SetView(set, index int, el positioner.Element) error {
	l := c.Label(set, index)
	if l == nil {
		return errors.New(errors.ErrCodeNotFound, "no value %d in dataset %d", index, set)
	}
	l.SetView(el)
	return nil
}

// DrawLabel implements label.Surface.
func (c *Chart) DrawLabel(d label.Drawn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drawn = append(c.drawn, d)
}

// BeginFrame clears the labels drawn so far.
func (c *Chart) BeginFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drawn = nil
}

// Drawn returns the labels drawn since the last [Chart.BeginFrame].
func (c *Chart) Drawn() []label.Drawn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]label.Drawn(nil), c.drawn...)
}
