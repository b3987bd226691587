package layout

import (
	"sync"
	"time"

	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
	"github.com/matzehuels/chartlabels/pkg/observability"
)

// =============================================================================
// Scheduling
// =============================================================================

// Timer is a pending deferred call.
type Timer interface {
	// Stop cancels the call. It reports false if the call already ran.
	Stop() bool
}

// Scheduler arms deferred calls. The default uses [time.AfterFunc].
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// =============================================================================
// Negotiation State
// =============================================================================

// PaddingState is the margin negotiation state of one chart.
type PaddingState struct {
	mu       sync.Mutex
	adjusted bool
	timer    Timer
	armedAt  time.Time
	stalled  bool
}

// Adjusted reports whether a negotiation round is open.
func (s *PaddingState) Adjusted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjusted
}

func (e *Engine) paddingState(id string) *PaddingState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.charts[id]
	if !ok {
		st = &PaddingState{}
		e.charts[id] = st
	}
	return st
}

// Adjusted reports whether a negotiation round is open for the chart.
func (e *Engine) Adjusted(c Chart) bool {
	return e.paddingState(c.ID()).Adjusted()
}

// ClearAdjusted closes the chart's negotiation round so the next
// [Engine.AdjustLayout] call can arm a new one. Callers invoke it once the
// continuation of the previous round ran.
func (e *Engine) ClearAdjusted(c Chart) {
	st := e.paddingState(c.ID())
	st.mu.Lock()
	defer st.mu.Unlock()
	st.adjusted = false
	st.stalled = false
}

// Forget drops the negotiation state of a chart, cancelling its pending
// timer. Call it when the chart is destroyed.
func (e *Engine) Forget(c Chart) {
	e.mu.Lock()
	st, ok := e.charts[c.ID()]
	delete(e.charts, c.ID())
	e.mu.Unlock()
	if !ok {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.timer != nil {
		st.timer.Stop()
	}
}

// =============================================================================
// Margin Negotiation
// =============================================================================

// AdjustLayout arms a negotiation round for the chart unless one is already
// open. After delay the engine measures how far the drawn labels reach past
// the canvas, writes the needed layout padding into the chart options, asks
// the chart to update and, after half the animation duration, calls fn.
//
// A previously armed timer that has not fired yet is cancelled, so only the
// latest measurement is used.
func (e *Engine) AdjustLayout(c Chart, entries []*Entry, fn func(), delay time.Duration) {
	st := e.paddingState(c.ID())
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.adjusted {
		e.checkStall(c, st)
		return
	}

	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = e.scheduler.AfterFunc(delay, func() {
		e.negotiate(c, entries, fn)
	})
	st.adjusted = true
	st.armedAt = e.now()
}

// checkStall reports an open round once it outlived the stall threshold.
// Must be called with st.mu held.
func (e *Engine) checkStall(c Chart, st *PaddingState) {
	if e.stallAfter <= 0 || st.stalled {
		return
	}
	open := e.now().Sub(st.armedAt)
	if open < e.stallAfter {
		return
	}
	st.stalled = true
	observability.Layout().OnAdjustStalled(e.ctx, c.ID(), open)
	e.logger.Warn("margin negotiation still open", "chart", c.ID(), "open", open)
}

// Extremes measures the drawn labels nearest each canvas edge.
//
// Every label is measured at its last drawn center, hidden ones included;
// labels that were never drawn sit at the origin. The first measured value
// always wins; later labels replace it only when strictly further out.
func Extremes(c Chart, entries []*Entry) positioner.Extremes {
	var highest, rightest, lowest, leftest positioner.Extreme
	for _, en := range entries {
		p := en.center
		r := en.box.Rect()

		if highest.Pos == 0 || p.Y < highest.Pos {
			highest = positioner.Extreme{Pos: p.Y, Extent: r.H}
		}
		if rightest.Pos == 0 || p.X > rightest.Pos {
			rightest = positioner.Extreme{Pos: p.X, Extent: r.W}
		}
		if lowest.Pos == 0 || p.Y > lowest.Pos {
			lowest = positioner.Extreme{Pos: p.Y, Extent: r.H}
		}
		if leftest.Pos == 0 || p.X < leftest.Pos {
			leftest = positioner.Extreme{Pos: p.X, Extent: r.W}
		}
	}

	opts := c.Options()
	size := c.Size()
	return positioner.Extremes{
		Highest:     highest,
		Rightest:    rightest,
		Lowest:      lowest,
		Leftest:     leftest,
		Paddings:    opts.Padding,
		LabelTop:    opts.Labels.Padding.Top,
		LabelBottom: opts.Labels.Padding.Bottom,
		Width:       size.W,
		Height:      size.H,
	}
}

// Paddings returns the layout padding needed for the measured extremes.
// Edges without overshoot keep their current padding.
func Paddings(data positioner.Extremes) geom.Padding {
	paddings := data.Paddings
	if v := positioner.ExceededTop(data); v != 0 {
		paddings.Top = v
	}
	if v := positioner.ExceededRight(data); v != 0 {
		paddings.Right = v
	}
	if v := positioner.ExceededBottom(data); v != 0 {
		paddings.Bottom = v
	}
	if v := positioner.ExceededLeft(data); v != 0 {
		paddings.Left = v
	}
	return paddings
}

func (e *Engine) negotiate(c Chart, entries []*Entry, fn func()) {
	data := Extremes(c, entries)
	opts := c.Options()
	if opts.Labels.Debug {
		e.logger.Debug("label extremes",
			"chart", c.ID(),
			"highest", data.Highest, "rightest", data.Rightest,
			"lowest", data.Lowest, "leftest", data.Leftest,
			"width", data.Width, "height", data.Height)
	}

	paddings := Paddings(data)
	if opts.Labels.Debug {
		e.logger.Debug("label paddings", "chart", c.ID(), "before", data.Paddings, "after", paddings)
	}

	opts.Padding = paddings
	observability.Layout().OnAdjust(e.ctx, c.ID(), paddings)
	c.Update()

	if fn != nil {
		e.scheduler.AfterFunc(opts.AnimationDuration/2, fn)
	}
}
