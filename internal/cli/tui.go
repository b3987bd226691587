package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartlabels/pkg/geom"
	chartio "github.com/matzehuels/chartlabels/pkg/io"
)

// Minimap resolution in terminal cells.
const (
	mapCols = 64
	mapRows = 20

	// fastStep is the multiplier of shifted movement keys.
	fastStep = 8

	// headerRow is the row index lipgloss tables pass for the header.
	headerRow = -1
)

var (
	mapFrameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	mapLabelStyle  = lipgloss.NewStyle().Foreground(colorGray)
	mapHitStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	mapCursorStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// labelFinder returns the placement drawn at a canvas point, or nil.
type labelFinder interface {
	Lookup(p geom.Point) *chartio.Placement
}

// =============================================================================
// InspectModel - cursor over the laid out chart
// =============================================================================

// InspectModel is the bubbletea model behind "chartlabels inspect". A
// cursor moves over a minimap of the canvas and the label under it is
// looked up after every move.
type InspectModel struct {
	Placements chartio.Placements
	Cursor     geom.Point
	Hit        *chartio.Placement

	finder labelFinder
	title  string
	next   int
}

// NewInspectModel starts with the cursor in the middle of the canvas.
func NewInspectModel(title string, placements chartio.Placements, finder labelFinder) InspectModel {
	m := InspectModel{
		Placements: placements,
		Cursor:     geom.Point{X: placements.Width / 2, Y: placements.Height / 2},
		finder:     finder,
		title:      title,
	}
	m.Hit = finder.Lookup(m.Cursor)
	return m
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

// step is the canvas distance of one minimap cell.
func (m InspectModel) step() geom.Size {
	return geom.Size{W: m.Placements.Width / mapCols, H: m.Placements.Height / mapRows}
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	s := m.step()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.Cursor.X -= s.W
	case "right", "l":
		m.Cursor.X += s.W
	case "up", "k":
		m.Cursor.Y -= s.H
	case "down", "j":
		m.Cursor.Y += s.H
	case "H":
		m.Cursor.X -= fastStep * s.W
	case "L":
		m.Cursor.X += fastStep * s.W
	case "K":
		m.Cursor.Y -= fastStep * s.H
	case "J":
		m.Cursor.Y += fastStep * s.H
	case "tab":
		if p := m.nextVisible(); p != nil {
			m.Cursor = *p.Center
		}
	default:
		return m, nil
	}

	m.Cursor.X = math.Max(0, math.Min(m.Cursor.X, m.Placements.Width))
	m.Cursor.Y = math.Max(0, math.Min(m.Cursor.Y, m.Placements.Height))
	m.Hit = m.finder.Lookup(m.Cursor)
	return m, nil
}

// nextVisible cycles through visible placements in priority order.
func (m *InspectModel) nextVisible() *chartio.Placement {
	n := len(m.Placements.Labels)
	for i := 0; i < n; i++ {
		p := &m.Placements.Labels[(m.next+i)%n]
		if p.Visible && p.Center != nil {
			m.next = (m.next + i + 1) % n
			return p
		}
	}
	return nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←↑↓→/hjkl move  HJKL fast  tab next label  q quit"))
	b.WriteString("\n\n")
	b.WriteString(mapFrameStyle.Render(m.minimap()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  cursor (%.0f, %.0f)", m.Cursor.X, m.Cursor.Y)))
	b.WriteString("\n\n")
	b.WriteString(m.table())
	b.WriteString("\n")
	return b.String()
}

// minimap draws visible label boxes on a character grid, highlighting the
// label under the cursor.
func (m InspectModel) minimap() string {
	s := m.step()
	cursorCol := min(int(m.Cursor.X/s.W), mapCols-1)
	cursorRow := min(int(m.Cursor.Y/s.H), mapRows-1)

	var b strings.Builder
	for row := 0; row < mapRows; row++ {
		for col := 0; col < mapCols; col++ {
			cell := geom.Point{X: (float64(col) + 0.5) * s.W, Y: (float64(row) + 0.5) * s.H}
			switch {
			case col == cursorCol && row == cursorRow:
				b.WriteString(mapCursorStyle.Render("+"))
			case m.Hit != nil && m.Hit.Box != nil && m.Hit.Box.Contains(cell):
				b.WriteString(mapHitStyle.Render("█"))
			case m.covered(cell):
				b.WriteString(mapLabelStyle.Render("▒"))
			default:
				b.WriteString(" ")
			}
		}
		if row < mapRows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m InspectModel) covered(p geom.Point) bool {
	for _, pl := range m.Placements.Labels {
		if pl.Visible && pl.Box != nil && pl.Box.Contains(p) {
			return true
		}
	}
	return false
}

// table lists every placement with the one under the cursor highlighted.
func (m InspectModel) table() string {
	rows := make([][]string, 0, len(m.Placements.Labels))
	for _, p := range m.Placements.Labels {
		state := "hidden"
		center := "—"
		if p.Visible {
			state = "visible"
			center = fmt.Sprintf("%.0f, %.0f", p.Center.X, p.Center.Y)
		}
		rows = append(rows, []string{fmt.Sprint(p.Set), fmt.Sprint(p.Index), p.Text, state, center})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Set", "Index", "Text", "State", "Center").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			p := m.Placements.Labels[row]
			switch {
			case m.Hit != nil && p.Set == m.Hit.Set && p.Index == m.Hit.Index:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case !p.Visible:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle()
			}
		}).
		Render()
}
