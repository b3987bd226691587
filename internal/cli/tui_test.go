package cli

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/chartlabels/pkg/geom"
	chartio "github.com/matzehuels/chartlabels/pkg/io"
)

// boxFinder looks labels up by their axis-aligned boxes.
type boxFinder struct {
	placements chartio.Placements
	calls      int
}

func (f *boxFinder) Lookup(p geom.Point) *chartio.Placement {
	f.calls++
	for i := len(f.placements.Labels) - 1; i >= 0; i-- {
		pl := &f.placements.Labels[i]
		if pl.Visible && pl.Box.Contains(p) {
			return pl
		}
	}
	return nil
}

func testPlacements() chartio.Placements {
	a := geom.Rect{X: 390, Y: 290, W: 20, H: 20}
	b := geom.Rect{X: 100, Y: 100, W: 40, H: 20}
	return chartio.Placements{
		Width:  640,
		Height: 400,
		Labels: []chartio.Placement{
			{Set: 0, Index: 0, Text: "12", Visible: true, Center: ptr(a.Center()), Box: &a},
			{Set: 0, Index: 1, Text: "7", Visible: false},
			{Set: 1, Index: 0, Text: "40", Visible: true, Center: ptr(b.Center()), Box: &b},
		},
	}
}

func ptr[T any](v T) *T { return &v }

func press(m InspectModel, keys ...string) InspectModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(InspectModel)
	}
	return m
}

func TestInspectModelStartsCentered(t *testing.T) {
	f := &boxFinder{placements: testPlacements()}
	m := NewInspectModel("revenue.yaml", f.placements, f)

	if m.Cursor != (geom.Point{X: 320, Y: 200}) {
		t.Errorf("Cursor = %v", m.Cursor)
	}
	if m.Hit != nil {
		t.Errorf("Hit = %+v, want none", m.Hit)
	}
}

func TestInspectModelMoves(t *testing.T) {
	f := &boxFinder{placements: testPlacements()}
	m := NewInspectModel("doc", f.placements, f)
	step := m.step()

	tests := []struct {
		name string
		keys []string
		want geom.Point
	}{
		{"right", []string{"l"}, geom.Point{X: 320 + step.W, Y: 200}},
		{"left arrow", []string{"left"}, geom.Point{X: 320 - step.W, Y: 200}},
		{"up arrow", []string{"up"}, geom.Point{X: 320, Y: 200 - step.H}},
		{"fast down", []string{"J"}, geom.Point{X: 320, Y: 200 + fastStep*step.H}},
		{"clamped", []string{"H", "H", "H", "H", "H", "H", "H", "H", "H"}, geom.Point{X: 0, Y: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := press(m, tt.keys...).Cursor
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Cursor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInspectModelTabCyclesVisibleLabels(t *testing.T) {
	f := &boxFinder{placements: testPlacements()}
	m := NewInspectModel("doc", f.placements, f)

	m = press(m, "tab")
	if m.Hit == nil || m.Hit.Text != "12" {
		t.Fatalf("first tab hit = %+v, want label 12", m.Hit)
	}
	m = press(m, "tab")
	if m.Hit == nil || m.Hit.Text != "40" {
		t.Fatalf("second tab hit = %+v, want label 40 (hidden label skipped)", m.Hit)
	}
	m = press(m, "tab")
	if m.Hit == nil || m.Hit.Text != "12" {
		t.Errorf("third tab hit = %+v, want wrap to label 12", m.Hit)
	}
}

func TestInspectModelQuit(t *testing.T) {
	f := &boxFinder{placements: testPlacements()}
	m := NewInspectModel("doc", f.placements, f)
	calls := f.calls

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
	if f.calls != calls {
		t.Error("quitting should not look anything up")
	}
}

func TestInspectModelView(t *testing.T) {
	f := &boxFinder{placements: testPlacements()}
	m := press(NewInspectModel("revenue.yaml", f.placements, f), "tab")
	view := m.View()

	for _, want := range []string{"revenue.yaml", "Text", "hidden", "visible", "█", "+", "cursor (400, 300)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
	if got := strings.Count(m.minimap(), "\n"); got != mapRows-1 {
		t.Errorf("minimap rows = %d, want %d", got+1, mapRows)
	}
}
