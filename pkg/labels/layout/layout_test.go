package layout

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/positioner"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeLabel struct {
	model   *Model
	visible bool
	size    geom.Size
	at      geom.Point // model phase position
	view    *geom.Point
	drawn   []geom.Point
}

func newLabel(display Display, x, y float64) *fakeLabel {
	return &fakeLabel{
		model: &Model{
			Display:    display,
			Positioner: positioner.Fallback,
			Config:     positioner.Config{Align: positioner.AlignCenter},
		},
		visible: display != DisplayOff,
		size:    geom.Size{W: 20, H: 10},
		at:      geom.Point{X: x, Y: y},
	}
}

func (l *fakeLabel) Model() *Model               { return l.model }
func (l *fakeLabel) Visible() bool               { return l.visible }
func (l *fakeLabel) Geometry() geom.Size         { return l.size }
func (l *fakeLabel) Rotation() float64           { return 0 }
func (l *fakeLabel) Draw(_ Chart, c geom.Point) { l.drawn = append(l.drawn, c) }

func (l *fakeLabel) Element(p Phase) positioner.Element {
	at := l.at
	if p == PhaseView && l.view != nil {
		at = *l.view
	}
	return positioner.Element{Kind: "test", X: at.X, Y: at.Y}
}

type fakeChart struct {
	opts    ChartOptions
	size    geom.Size
	updates int
}

func (c *fakeChart) ID() string             { return "chart-1" }
func (c *fakeChart) Options() *ChartOptions { return &c.opts }
func (c *fakeChart) Size() geom.Size        { return c.size }
func (c *fakeChart) Update()                { c.updates++ }

type fakeTask struct {
	d       time.Duration
	f       func()
	stopped bool
	ran     bool
}

func (t *fakeTask) Stop() bool {
	if t.ran || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTask{d: d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// run fires every pending task, including tasks armed while running.
func (s *fakeScheduler) run() int {
	n := 0
	for i := 0; i < len(s.tasks); i++ {
		t := s.tasks[i]
		if t.stopped || t.ran {
			continue
		}
		t.ran = true
		t.f()
		n++
	}
	return n
}

func labels(ls ...*fakeLabel) []Label {
	out := make([]Label, len(ls))
	for i, l := range ls {
		out[i] = l
	}
	return out
}

// =============================================================================
// Coordinates
// =============================================================================

func fixed(v positioner.Vector) positioner.Func {
	return func(positioner.Element, positioner.Config) positioner.Vector { return v }
}

func TestCoordinates(t *testing.T) {
	size := geom.Size{W: 10, H: 4}
	diag := 1 / math.Sqrt2

	tests := []struct {
		name     string
		v        positioner.Vector
		rotation float64
		offset   float64
		want     geom.Point
	}{
		{"zero vector stays on anchor", positioner.Vector{X: 20, Y: 30}, 0, 4, geom.Point{X: 20, Y: 30}},
		{"right", positioner.Vector{VX: 1}, 0, 0, geom.Point{X: 5, Y: 0}},
		{"right with offset", positioner.Vector{VX: 1}, 0, 3, geom.Point{X: 8, Y: 0}},
		{"up", positioner.Vector{X: 10, Y: 10, VY: -1}, 0, 0, geom.Point{X: 10, Y: 8}},
		{"up rotated quarter turn", positioner.Vector{VY: -1}, math.Pi / 2, 0, geom.Point{X: 0, Y: -5}},
		{"diagonal", positioner.Vector{VX: diag, VY: diag}, 0, 0, geom.Point{X: 5, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Model{Positioner: fixed(tt.v), Rotation: tt.rotation, Offset: tt.offset}
			got := Coordinates(positioner.Element{}, m, size)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Coordinates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoordinatesDefaultsToElementPositioner(t *testing.T) {
	m := &Model{Config: positioner.Config{Align: positioner.AlignCenter}}
	el := positioner.Element{Kind: positioner.KindPoint, X: 12, Y: 34, Radius: 3}
	if got := Coordinates(el, m, geom.Size{W: 10, H: 10}); got != (geom.Point{X: 12, Y: 34}) {
		t.Errorf("Coordinates() = %v, want (12,34)", got)
	}
}

// =============================================================================
// Prepare / Update
// =============================================================================

func TestPrepareOrder(t *testing.T) {
	e := New()
	datasets := [][]Label{
		labels(newLabel(DisplayOn, 0, 0), newLabel(DisplayOn, 0, 0), newLabel(DisplayOn, 0, 0)),
		labels(newLabel(DisplayOn, 0, 0), newLabel(DisplayOn, 0, 0), newLabel(DisplayOn, 0, 0)),
	}

	entries := e.Prepare(datasets)

	want := [][2]int{{2, 1}, {2, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}}
	if len(entries) != len(want) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if got := [2]int{entries[i].Index(), entries[i].Set()}; got != w {
			t.Errorf("entries[%d] = (idx %d, set %d), want (idx %d, set %d)", i, got[0], got[1], w[0], w[1])
		}
		if entries[i].Label() != datasets[w[1]][w[0]] {
			t.Errorf("entries[%d] holds the wrong label", i)
		}
	}
}

func TestCollideHidesAllButHighest(t *testing.T) {
	e := New()
	entries := e.Prepare([][]Label{labels(
		newLabel(DisplayAuto, 50, 50),
		newLabel(DisplayAuto, 52, 50),
		newLabel(DisplayAuto, 54, 50),
	)})

	for i, en := range entries {
		want := i == len(entries)-1
		if en.Visible() != want {
			t.Errorf("entries[%d].Visible() = %v, want %v", i, en.Visible(), want)
		}
	}
	if s := e.Stats(); s.Hidden != 2 {
		t.Errorf("Stats().Hidden = %d, want 2", s.Hidden)
	}
}

func TestCollideShortCircuits(t *testing.T) {
	// entries[2] is hidable and loses against non-hidable entries[1], so it
	// must never be compared against entries[0].
	ls := labels(
		newLabel(DisplayAuto, 50, 50),
		newLabel(DisplayOn, 52, 50),
		newLabel(DisplayAuto, 54, 50),
	)
	// Reversed so that entries[i] == ls[i] after sorting by index.
	entries := New().Prepare([][]Label{{ls[2], ls[1], ls[0]}})

	var pairs [][2]*Entry
	record := func(higher, lower *Entry) {
		pairs = append(pairs, [2]*Entry{higher, lower})
		HideLower(higher, lower)
	}
	New(WithCollider(record)).Update(entries)

	if len(pairs) != 2 {
		t.Fatalf("collider called %d times, want 2", len(pairs))
	}
	if pairs[0] != [2]*Entry{entries[2], entries[1]} {
		t.Errorf("first pair = (%d,%d), want (2,1)", pairs[0][0].Index(), pairs[0][1].Index())
	}
	if pairs[1] != [2]*Entry{entries[1], entries[0]} {
		t.Errorf("second pair should compare entries[1] with entries[0]")
	}

	want := []bool{false, true, false}
	for i, en := range entries {
		if en.Visible() != want[i] {
			t.Errorf("entries[%d].Visible() = %v, want %v", i, en.Visible(), want[i])
		}
	}
}

func TestHideLower(t *testing.T) {
	tests := []struct {
		name                  string
		higherHid, lowerHid   bool
		wantHigher, wantLower bool
	}{
		{"both hidable", true, true, true, false},
		{"lower hidable", false, true, true, false},
		{"higher hidable", true, false, false, true},
		{"neither hidable", false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Entry{hidable: tt.higherHid, visible: true}
			l := &Entry{hidable: tt.lowerHid, visible: true}
			HideLower(h, l)
			if h.Visible() != tt.wantHigher || l.Visible() != tt.wantLower {
				t.Errorf("visible = (%v,%v), want (%v,%v)", h.Visible(), l.Visible(), tt.wantHigher, tt.wantLower)
			}
		})
	}
}

func TestNonHidableWins(t *testing.T) {
	low := newLabel(DisplayOn, 50, 50)
	high := newLabel(DisplayAuto, 55, 50)
	// Index 1 sorts first, so high (index 0) ends up with higher priority.
	entries := New().Prepare([][]Label{labels(high, low)})

	if entries[1].Label() != high {
		t.Fatal("expected the auto label to have higher priority")
	}
	if entries[1].Visible() {
		t.Error("hidable higher-priority label should be hidden")
	}
	if !entries[0].Visible() {
		t.Error("non-hidable label should stay visible")
	}
}

func TestUpdateWithoutHidableSkipsCompute(t *testing.T) {
	off := newLabel(DisplayOn, 50, 50)
	off.visible = false

	e := New()
	entries := e.Prepare([][]Label{labels(
		newLabel(DisplayOn, 50, 50),
		newLabel(DisplayOn, 50, 50),
		off,
	)})
	e.Update(entries)

	s := e.Stats()
	if s.Computes != 0 {
		t.Errorf("Stats().Computes = %d, want 0", s.Computes)
	}
	if s.Updates != 2 {
		t.Errorf("Stats().Updates = %d, want 2", s.Updates)
	}
	for _, en := range entries {
		if en.Visible() != en.Label().Visible() {
			t.Errorf("entry (%d,%d) visible = %v, want base %v", en.Set(), en.Index(), en.Visible(), en.Label().Visible())
		}
	}
}

func TestNilModelIsNotHidable(t *testing.T) {
	l := newLabel(DisplayAuto, 0, 0)
	l.model = nil
	e := New()
	entries := e.Prepare([][]Label{labels(l)})
	if entries[0].Hidable() {
		t.Error("label without model should not be hidable")
	}
	if e.Stats().Computes != 0 {
		t.Error("no compute expected")
	}
}

func TestNilModelStaysOutOfOverlapAndLookup(t *testing.T) {
	bare := newLabel(DisplayAuto, 0, 0)
	bare.model = nil
	placed := newLabel(DisplayAuto, 5, 3)

	e := New()
	entries := e.Prepare([][]Label{labels(bare, placed)})
	e.Draw(&fakeChart{size: geom.Size{W: 100, H: 100}}, entries)

	for _, en := range entries {
		switch en.Label() {
		case bare:
			if en.Visible() {
				t.Error("label without model should not be visible")
			}
		case placed:
			if !en.Visible() {
				t.Error("label overlapping a label without model should stay visible")
			}
		}
	}
	if got := e.Lookup(entries, geom.Point{}); got == nil || got.Label() != placed {
		t.Errorf("Lookup(origin) = %v, want the positioned label", got)
	}
}

func TestCollideThreeWayShortCircuit(t *testing.T) {
	a := newLabel(DisplayAuto, 50, 50)
	b := newLabel(DisplayAuto, 52, 50)
	c := newLabel(DisplayAuto, 54, 50)
	// Reversed so that entries[0..2] hold A, B, C in priority order.
	entries := New().Prepare([][]Label{labels(c, b, a)})
	ea, eb, ec := entries[0], entries[1], entries[2]

	var pairs [][2]*Entry
	record := func(higher, lower *Entry) {
		pairs = append(pairs, [2]*Entry{higher, lower})
		HideLower(higher, lower)
	}
	New(WithCollider(record)).Update(entries)

	want := [][2]*Entry{{ec, eb}, {ec, ea}}
	if len(pairs) != len(want) {
		t.Fatalf("collider called %d times, want %d", len(pairs), len(want))
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pair %d = (%d,%d), want (%d,%d)", i,
				pairs[i][0].Index(), pairs[i][1].Index(), want[i][0].Index(), want[i][1].Index())
		}
	}
	for _, p := range pairs {
		if p[0] == eb {
			t.Error("hidden B should never be compared as the higher label")
		}
	}
	if ea.Visible() || eb.Visible() || !ec.Visible() {
		t.Errorf("visible = (%v,%v,%v), want only C", ea.Visible(), eb.Visible(), ec.Visible())
	}
}

func TestRePrepareDiscardsState(t *testing.T) {
	datasets := [][]Label{labels(
		newLabel(DisplayAuto, 50, 50),
		newLabel(DisplayAuto, 200, 50),
	)}

	e := New()
	first := e.Prepare(datasets)
	first[0].Hide()
	first[1].Hide()

	second := e.Prepare(datasets)
	for i, en := range second {
		if en == first[i] {
			t.Errorf("entries[%d] reused from previous Prepare", i)
		}
		if !en.Visible() {
			t.Errorf("entries[%d] still hidden after Prepare", i)
		}
	}
}

func TestUpdateRestoresLabelsWhenOverlapDisappears(t *testing.T) {
	a := newLabel(DisplayAuto, 50, 50)
	b := newLabel(DisplayAuto, 55, 50)

	e := New()
	entries := e.Prepare([][]Label{labels(a, b)})
	if entries[0].Visible() {
		t.Fatal("lower-priority overlapping label should start hidden")
	}

	// Move the element away; the next update shows both again.
	entries[0].Label().(*fakeLabel).at = geom.Point{X: 300, Y: 50}
	e.Update(entries)

	for i, en := range entries {
		if !en.Visible() {
			t.Errorf("entries[%d] should be visible again", i)
		}
	}
}

// =============================================================================
// Draw / Lookup
// =============================================================================

func TestDrawUsesViewPhase(t *testing.T) {
	shown := newLabel(DisplayOn, 10, 10)
	shown.view = &geom.Point{X: 40, Y: 60}
	hidden := newLabel(DisplayOff, 10, 10)

	e := New()
	c := &fakeChart{size: geom.Size{W: 100, H: 100}}
	entries := e.Prepare([][]Label{labels(shown), labels(hidden)})
	e.Draw(c, entries)

	if len(shown.drawn) != 1 || shown.drawn[0] != (geom.Point{X: 40, Y: 60}) {
		t.Errorf("shown drawn at %v, want [(40,60)]", shown.drawn)
	}
	if len(hidden.drawn) != 0 {
		t.Errorf("hidden label drawn %d times", len(hidden.drawn))
	}

	var idx int
	for i, en := range entries {
		if en.Label() == shown {
			idx = i
		}
	}
	if got, ok := entries[idx].Center(); !ok || got != (geom.Point{X: 40, Y: 60}) {
		t.Errorf("Center() = %v, %v", got, ok)
	}
	if got := e.Centers(); len(got) != 1 || got[idx] != (geom.Point{X: 40, Y: 60}) {
		t.Errorf("Centers() = %v", got)
	}
	if e.Stats().Draws != 1 {
		t.Errorf("Stats().Draws = %d, want 1", e.Stats().Draws)
	}
}

func TestLookup(t *testing.T) {
	e := New()
	c := &fakeChart{size: geom.Size{W: 100, H: 100}}
	entries := e.Prepare([][]Label{labels(
		newLabel(DisplayOn, 50, 50),
		newLabel(DisplayOn, 55, 50),
	)})
	e.Draw(c, entries)

	if got := e.Lookup(entries, geom.Point{X: 52, Y: 50}); got != entries[1] {
		t.Errorf("Lookup() should return the higher-priority label")
	}
	if got := e.Lookup(entries, geom.Point{X: 300, Y: 300}); got != nil {
		t.Errorf("Lookup() outside = %v, want nil", got)
	}

	entries[1].Hide()
	if got := e.Lookup(entries, geom.Point{X: 52, Y: 50}); got != entries[0] {
		t.Errorf("Lookup() should skip hidden labels")
	}
}

// =============================================================================
// Margin Negotiation
// =============================================================================

func drawnEntries(t *testing.T, e *Engine, c Chart, ls ...*fakeLabel) []*Entry {
	t.Helper()
	entries := e.Prepare([][]Label{labels(ls...)})
	e.Draw(c, entries)
	return entries
}

func TestAdjustLayout(t *testing.T) {
	sched := &fakeScheduler{}
	e := New(WithScheduler(sched))
	c := &fakeChart{
		size: geom.Size{W: 100, H: 100},
		opts: ChartOptions{
			Padding:           geom.Padding{Top: 7, Right: 3, Bottom: 9, Left: 1},
			AnimationDuration: 400 * time.Millisecond,
		},
	}
	entries := drawnEntries(t, e, c, newLabel(DisplayOn, 95, 50))

	continued := 0
	e.AdjustLayout(c, entries, func() { continued++ }, 50*time.Millisecond)

	if !e.Adjusted(c) {
		t.Fatal("round should be open after AdjustLayout")
	}
	if len(sched.tasks) != 1 || sched.tasks[0].d != 50*time.Millisecond {
		t.Fatalf("armed tasks = %v, want one of 50ms", sched.tasks)
	}

	sched.run()

	want := geom.Padding{Top: 7, Right: 8, Bottom: 9, Left: 1}
	if c.opts.Padding != want {
		t.Errorf("Padding = %+v, want %+v", c.opts.Padding, want)
	}
	if c.updates != 1 {
		t.Errorf("chart updated %d times, want 1", c.updates)
	}
	if continued != 1 {
		t.Errorf("continuation ran %d times, want 1", continued)
	}
	if d := sched.tasks[1].d; d != 200*time.Millisecond {
		t.Errorf("continuation delay = %v, want 200ms", d)
	}
}

func TestAdjustLayoutGuard(t *testing.T) {
	sched := &fakeScheduler{}
	e := New(WithScheduler(sched))
	c := &fakeChart{size: geom.Size{W: 100, H: 100}}
	entries := drawnEntries(t, e, c, newLabel(DisplayOn, 50, 50))

	e.AdjustLayout(c, entries, nil, time.Millisecond)
	e.AdjustLayout(c, entries, nil, time.Millisecond)
	if len(sched.tasks) != 1 {
		t.Errorf("armed %d timers while round open, want 1", len(sched.tasks))
	}

	e.ClearAdjusted(c)
	if e.Adjusted(c) {
		t.Error("ClearAdjusted should close the round")
	}
}

func TestAdjustLayoutDebounce(t *testing.T) {
	sched := &fakeScheduler{}
	e := New(WithScheduler(sched))
	c := &fakeChart{size: geom.Size{W: 100, H: 100}}

	overflowing := drawnEntries(t, e, c, newLabel(DisplayOn, 95, 50))
	e.AdjustLayout(c, overflowing, nil, 50*time.Millisecond)
	e.ClearAdjusted(c)

	fitting := drawnEntries(t, e, c, newLabel(DisplayOn, 50, 50))
	e.AdjustLayout(c, fitting, nil, 50*time.Millisecond)

	if !sched.tasks[0].stopped {
		t.Error("first timer should be cancelled by the second trigger")
	}
	if n := sched.run(); n != 1 {
		t.Errorf("ran %d timers, want 1", n)
	}
	if c.updates != 1 {
		t.Errorf("chart updated %d times, want 1", c.updates)
	}
	if c.opts.Padding.Any() {
		t.Errorf("Padding = %+v, want none (second trigger fits)", c.opts.Padding)
	}
}

func TestAdjustLayoutKeepsRightPadding(t *testing.T) {
	sched := &fakeScheduler{}
	e := New(WithScheduler(sched))
	c := &fakeChart{
		size: geom.Size{W: 100, H: 100},
		opts: ChartOptions{Padding: geom.Padding{Top: 2, Right: 3, Bottom: 9, Left: 4}},
	}
	entries := drawnEntries(t, e, c, newLabel(DisplayOn, 50, 50))

	e.AdjustLayout(c, entries, nil, 0)
	sched.run()

	if c.opts.Padding.Right != 3 {
		t.Errorf("Padding.Right = %v, want 3 (unchanged)", c.opts.Padding.Right)
	}
	if c.opts.Padding != (geom.Padding{Top: 2, Right: 3, Bottom: 9, Left: 4}) {
		t.Errorf("Padding = %+v, want unchanged", c.opts.Padding)
	}
}

func TestAdjustLayoutStall(t *testing.T) {
	sched := &fakeScheduler{}
	now := time.Unix(0, 0)
	e := New(WithScheduler(sched), WithStallAfter(time.Second))
	e.now = func() time.Time { return now }
	c := &fakeChart{size: geom.Size{W: 100, H: 100}}
	entries := drawnEntries(t, e, c, newLabel(DisplayOn, 50, 50))

	e.AdjustLayout(c, entries, nil, 0)
	now = now.Add(2 * time.Second)
	e.AdjustLayout(c, entries, nil, 0)

	st := e.paddingState(c.ID())
	if !st.stalled {
		t.Error("open round older than the threshold should be reported")
	}

	e.ClearAdjusted(c)
	if st.stalled {
		t.Error("ClearAdjusted should reset the stall report")
	}
}

func TestForgetCancelsTimer(t *testing.T) {
	sched := &fakeScheduler{}
	e := New(WithScheduler(sched))
	c := &fakeChart{size: geom.Size{W: 100, H: 100}}
	entries := drawnEntries(t, e, c, newLabel(DisplayOn, 95, 50))

	e.AdjustLayout(c, entries, nil, time.Second)
	e.Forget(c)

	if n := sched.run(); n != 0 {
		t.Errorf("ran %d timers after Forget, want 0", n)
	}
	if e.Adjusted(c) {
		t.Error("forgotten chart should start with a closed round")
	}
}

func TestExtremesMeasuresEveryLabel(t *testing.T) {
	e := New()
	c := &fakeChart{size: geom.Size{W: 100, H: 100}}
	a := newLabel(DisplayOn, 30, 2)
	b := newLabel(DisplayOn, 70, 50)
	off := newLabel(DisplayOff, 90, 90)
	// off sorts first and is never drawn, so it is measured at the origin
	// and replaced by the next label under the first-writer rule.
	entries := drawnEntries(t, e, c, a, b, off)

	data := Extremes(c, entries)
	if data.Highest != (positioner.Extreme{Pos: 2, Extent: 10}) || data.Lowest.Pos != 50 {
		t.Errorf("vertical extremes = %v/%v, want 2/50", data.Highest, data.Lowest)
	}
	if data.Leftest.Pos != 30 || data.Rightest.Pos != 70 || data.Rightest.Extent != 20 {
		t.Errorf("horizontal extremes = %v/%v", data.Leftest, data.Rightest)
	}

	for _, en := range entries {
		if en.Label() == a {
			en.Hide()
		}
	}
	if got := Extremes(c, entries); got.Highest != data.Highest || got.Leftest != data.Leftest {
		t.Errorf("hidden label should still be measured at its last center: %+v", got)
	}
}
