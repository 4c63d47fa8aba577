package view

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dongnecli/dongne/internal/geo"
	"github.com/dongnecli/dongne/internal/ui"
)

type mapStyles struct {
	box    lipgloss.Style
	title  lipgloss.Style
	marker lipgloss.Style
	center lipgloss.Style
	detail lipgloss.Style
	empty  lipgloss.Style
}

func newMapStyles() mapStyles {
	return mapStyles{
		box:    ui.HighlightBoxStyle(),
		title:  ui.TitleStyle(),
		marker: ui.DangerStyle(),
		center: ui.AccentStyle(),
		detail: ui.DimStyle(),
		empty:  ui.MutedStyle(),
	}
}

// MapView plots markers in a character grid fitted to their bounding box.
// Panels laid out while collapsed render a stale grid, so the owner calls
// Relayout after the rise animation finishes.
type MapView struct {
	data geo.MapData

	cursor int
	canvas string

	width  int
	height int
	styles mapStyles
}

func NewMapView() *MapView {
	return &MapView{styles: newMapStyles()}
}

func (m *MapView) Init() tea.Cmd { return nil }

// SetData replaces the plotted markers and refits the viewport.
func (m *MapView) SetData(data geo.MapData) {
	m.data = data
	m.cursor = 0
	m.Relayout()
}

// Relayout recomputes the drawable grid from the current size and data.
func (m *MapView) Relayout() {
	m.canvas = m.plot()
}

func (m *MapView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ThemeChangedMsg:
		m.styles = newMapStyles()
		m.Relayout()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "n":
			if len(m.data.Markers) > 0 {
				m.cursor = (m.cursor + 1) % len(m.data.Markers)
			}
			return m, nil
		case "q":
			return m, func() tea.Msg { return CloseMapMsg{} }
		}
		if IsEscKey(msg) {
			return m, func() tea.Msg { return CloseMapMsg{} }
		}
	}
	return m, nil
}

func (m *MapView) title() string {
	switch m.data.Kind {
	case geo.KindBus:
		return "🚌 버스 위치"
	default:
		return "💳 지역화폐 가맹점"
	}
}

func (m *MapView) plot() string {
	cols := m.width - 4
	rows := m.height - 6 // title, border, detail lines
	if cols < 10 || rows < 3 {
		return ""
	}

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, cols)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	minLat, minLng, maxLat, maxLng, ok := geo.BoundsOf(m.data.Markers)
	place := func(c geo.Coordinate) (row, col int) {
		if !ok || maxLat == minLat || maxLng == minLng {
			return rows / 2, cols / 2
		}
		col = int((c.Lng - minLng) / (maxLng - minLng) * float64(cols-1))
		// Latitude grows northward; grid rows grow downward.
		row = int((maxLat - c.Lat) / (maxLat - minLat) * float64(rows-1))
		return row, col
	}

	for i, marker := range m.data.Markers {
		row, col := place(marker.Coordinate)
		label := '●'
		if i == m.cursor {
			label = '◉'
		}
		grid[row][col] = label
	}

	if !ok {
		grid[rows/2][cols/2] = '+'
	}

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func (m *MapView) detailLine() string {
	if len(m.data.Markers) == 0 {
		return m.styles.empty.Render("표시할 항목이 없습니다")
	}
	if m.cursor >= len(m.data.Markers) {
		m.cursor = 0
	}

	marker := m.data.Markers[m.cursor]
	pos := fmt.Sprintf("(%d/%d)", m.cursor+1, len(m.data.Markers))

	switch {
	case marker.Bus != nil:
		full := ""
		if marker.Bus.IsFull {
			full = " 만차"
		}
		return m.styles.detail.Render(truncate(fmt.Sprintf(
			"%s %s · 혼잡도 %s%s · %s",
			pos, marker.Title, marker.Bus.Congestion, full, marker.Bus.DataTime,
		), m.width-2))
	case marker.Store != nil:
		return m.styles.detail.Render(truncate(fmt.Sprintf(
			"%s %s · %s · %s",
			pos, marker.Title, marker.Store.Industry, marker.Store.Address,
		), m.width-2))
	default:
		return m.styles.detail.Render(pos + " " + marker.Title)
	}
}

func (m *MapView) ViewString() string {
	var sb strings.Builder
	sb.WriteString(m.styles.title.Render(m.title()))
	sb.WriteString(m.styles.detail.Render(fmt.Sprintf("  중심 %.3f, %.3f", m.data.Center.Lat, m.data.Center.Lng)))
	sb.WriteString("\n")

	if m.canvas == "" {
		sb.WriteString(m.styles.empty.Render(LoadingMessage))
	} else {
		sb.WriteString(m.styles.box.Render(m.canvas))
	}
	sb.WriteString("\n")
	sb.WriteString(m.detailLine())
	return sb.String()
}

func (m *MapView) View() tea.View {
	return tea.NewView(m.ViewString())
}

func (m *MapView) SetSize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.Relayout()
	return nil
}

func (m *MapView) StatusLine() string {
	return "Tab:다음 항목 • Esc:닫기"
}
