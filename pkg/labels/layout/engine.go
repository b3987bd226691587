package layout

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/hitbox"
	"github.com/matzehuels/chartlabels/pkg/observability"
)

// Entry is the layout state the engine keeps for one label. It is created
// by [Engine.Prepare] and mutated in place until the next Prepare.
type Entry struct {
	label Label
	box   *hitbox.HitBox

	hidable bool
	visible bool
	set     int
	idx     int

	center geom.Point
	drawn  bool
}

// Label returns the label this entry belongs to.
func (e *Entry) Label() Label { return e.label }

// Box returns the hit box used for overlap and hit tests.
func (e *Entry) Box() *hitbox.HitBox { return e.box }

// Hidable reports whether the overlap resolver may hide the label.
func (e *Entry) Hidable() bool { return e.hidable }

// Visible reports whether the label survived overlap resolution.
func (e *Entry) Visible() bool { return e.visible }

// Hide marks the label hidden for the rest of the current pass. Custom
// [Collider] implementations use it.
func (e *Entry) Hide() { e.visible = false }

// Set returns the dataset index of the label.
func (e *Entry) Set() int { return e.set }

// Index returns the data index of the label within its dataset.
func (e *Entry) Index() int { return e.idx }

// Center returns the center the label was last drawn at. ok is false when
// the label has not been drawn since Prepare.
func (e *Entry) Center() (center geom.Point, ok bool) { return e.center, e.drawn }

// Stats counts engine work since the engine was created.
type Stats struct {
	Prepares int
	Updates  int
	Computes int
	Draws    int

	// Hidden is the number of labels hidden by the last compute pass.
	Hidden int
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithScheduler replaces the timer source used by margin negotiation.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithCollider replaces the overlap policy. The default is [HideLower].
func WithCollider(fn Collider) Option {
	return func(e *Engine) {
		if fn != nil {
			e.collider = fn
		}
	}
}

// WithStallAfter reports a negotiation round that stays open longer than d
// when a new round is requested. Zero disables the check.
func WithStallAfter(d time.Duration) Option {
	return func(e *Engine) { e.stallAfter = d }
}

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// Engine lays out labels, resolves overlaps and negotiates chart margins.
// An Engine is safe for use from the goroutine that drives it and from the
// timers it arms.
type Engine struct {
	logger     *log.Logger
	scheduler  Scheduler
	collider   Collider
	stallAfter time.Duration
	ctx        context.Context
	now        func() time.Time

	mu      sync.Mutex
	stats   Stats
	centers map[int]geom.Point
	charts  map[string]*PaddingState
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:    log.New(io.Discard),
		scheduler: timerScheduler{},
		collider:  HideLower,
		ctx:       context.Background(),
		now:       time.Now,
		centers:   make(map[int]geom.Point),
		charts:    make(map[string]*PaddingState),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Prepare flattens the per-dataset label lists into one priority-ordered
// slice with fresh layout state, then runs [Engine.Update] on it. Any state
// from a previous Prepare is discarded.
func (e *Engine) Prepare(datasets [][]Label) []*Entry {
	var entries []*Entry
	for i, labels := range datasets {
		for j, l := range labels {
			entries = append(entries, &Entry{
				label:   l,
				box:     hitbox.New(),
				visible: true,
				set:     i,
				idx:     j,
			})
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].idx != entries[b].idx {
			return entries[a].idx > entries[b].idx
		}
		return entries[a].set > entries[b].set
	})

	e.mu.Lock()
	e.stats.Prepares++
	e.centers = make(map[int]geom.Point)
	e.mu.Unlock()

	observability.Layout().OnPrepare(e.ctx, len(entries))
	e.logger.Debug("prepared labels", "datasets", len(datasets), "labels", len(entries))

	e.Update(entries)
	return entries
}

// Update resets each entry's hidable flag and visibility from its label,
// then recomputes boxes and resolves overlaps if any entry is hidable.
// A label without a model is never positioned, so it stays hidden and takes
// no part in overlap resolution or lookup.
func (e *Engine) Update(entries []*Entry) {
	hidable := false
	for _, en := range entries {
		m := en.label.Model()
		en.hidable = m != nil && m.Display == DisplayAuto
		en.visible = m != nil && en.label.Visible()
		hidable = hidable || en.hidable
	}

	e.mu.Lock()
	e.stats.Updates++
	e.mu.Unlock()

	if hidable {
		e.compute(entries)
	}
}

func (e *Engine) compute(entries []*Entry) {
	start := time.Now()

	var before []*Entry
	for _, en := range entries {
		if !en.visible {
			continue
		}
		m := en.label.Model()
		size := en.label.Geometry()
		center := Coordinates(en.label.Element(PhaseModel), m, size)
		en.box.Update(center, size, en.label.Rotation())
		before = append(before, en)
	}

	Collide(entries, e.collider)

	hidden := 0
	for _, en := range before {
		if en.visible {
			continue
		}
		hidden++
		observability.Layout().OnHide(e.ctx, en.set, en.idx)
	}

	e.mu.Lock()
	e.stats.Computes++
	e.stats.Hidden = hidden
	e.mu.Unlock()

	observability.Layout().OnCompute(e.ctx, len(entries), hidden, time.Since(start))
	e.logger.Debug("resolved overlaps", "labels", len(entries), "hidden", hidden)
}

// Lookup returns the highest-priority visible entry whose box contains p,
// or nil.
func (e *Engine) Lookup(entries []*Entry, p geom.Point) *Entry {
	for i := len(entries) - 1; i >= 0; i-- {
		en := entries[i]
		if en.visible && en.box.Contains(p) {
			return en
		}
	}
	return nil
}

// Draw positions every visible entry from the view phase of its element,
// records the center, refreshes its box and draws the label.
func (e *Engine) Draw(c Chart, entries []*Entry) {
	drawn := 0
	for i, en := range entries {
		if !en.visible {
			continue
		}
		m := en.label.Model()
		if m == nil {
			continue
		}

		size := en.label.Geometry()
		center := Coordinates(en.label.Element(PhaseView), m, size)

		en.center = center
		en.drawn = true
		en.box.Update(center, size, en.label.Rotation())

		e.mu.Lock()
		e.centers[i] = center
		e.mu.Unlock()

		en.label.Draw(c, center)
		drawn++
	}

	e.mu.Lock()
	e.stats.Draws++
	e.mu.Unlock()

	e.logger.Debug("drew labels", "drawn", drawn, "labels", len(entries))
}

// Centers returns a copy of the last drawn center per entry index.
func (e *Engine) Centers() map[int]geom.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int]geom.Point, len(e.centers))
	for i, c := range e.centers {
		out[i] = c
	}
	return out
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}
