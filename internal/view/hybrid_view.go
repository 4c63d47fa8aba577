package view

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dongnecli/dongne/internal/session"
	"github.com/dongnecli/dongne/internal/transition"
	"github.com/dongnecli/dongne/internal/ui"
)

type hybridStyles struct {
	strip   lipgloss.Style
	user    lipgloss.Style
	bot     lipgloss.Style
	waiting lipgloss.Style
}

func newHybridStyles() hybridStyles {
	return hybridStyles{
		strip:   ui.BoxStyle(),
		user:    ui.UserBubbleStyle(),
		bot:     ui.BotBubbleStyle(),
		waiting: ui.PendingStyle(),
	}
}

// HybridView combines a one-line summary of the latest exchange with the
// map panel. The panel's drawn height follows the transition phase so the
// rise and fall read as motion.
type HybridView struct {
	state   *session.State
	mapView *MapView
	phase   transition.Phase

	width  int
	height int
	styles hybridStyles
}

func NewHybridView(state *session.State, mapView *MapView) *HybridView {
	return &HybridView{
		state:   state,
		mapView: mapView,
		styles:  newHybridStyles(),
	}
}

func (h *HybridView) Init() tea.Cmd { return nil }

// SetPhase re-sizes the map panel for the current animation phase.
func (h *HybridView) SetPhase(p transition.Phase) {
	h.phase = p
	h.layoutMap()
}

func (h *HybridView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(ThemeChangedMsg); ok {
		h.styles = newHybridStyles()
	}

	model, cmd := h.mapView.Update(msg)
	if mv, ok := model.(*MapView); ok {
		h.mapView = mv
	}
	return h, cmd
}

func (h *HybridView) mapHeight() int {
	avail := h.height - 4 // summary strip
	if avail < 0 {
		avail = 0
	}
	switch h.phase {
	case transition.PhaseSettled:
		return avail
	case transition.PhaseRising, transition.PhaseFalling:
		return avail / 2
	default:
		return 0
	}
}

func (h *HybridView) layoutMap() {
	if mh := h.mapHeight(); mh > 0 {
		h.mapView.SetSize(h.width, mh)
	}
}

func (h *HybridView) summaryStrip() string {
	user, bot, waiting := h.state.LatestExchange()

	var lines []string
	if user != "" {
		lines = append(lines, h.styles.user.Render(truncate("나: "+user, h.width-6)))
	}
	switch {
	case waiting:
		lines = append(lines, h.styles.waiting.Render("⏳ 답변을 기다리는 중..."))
	case bot != "":
		lines = append(lines, h.styles.bot.Render(truncate("봇: "+bot, h.width-6)))
	}
	if len(lines) == 0 {
		lines = append(lines, h.styles.bot.Render(promptPlaceholder))
	}

	return h.styles.strip.Width(h.width - 2).Render(strings.Join(lines, "\n"))
}

func (h *HybridView) ViewString() string {
	var sb strings.Builder
	sb.WriteString(h.summaryStrip())

	if h.mapHeight() > 0 {
		sb.WriteString("\n")
		sb.WriteString(h.mapView.ViewString())
	}
	return sb.String()
}

func (h *HybridView) View() tea.View {
	return tea.NewView(h.ViewString())
}

func (h *HybridView) SetSize(width, height int) tea.Cmd {
	h.width = width
	h.height = height
	h.layoutMap()
	return nil
}

func (h *HybridView) StatusLine() string {
	return h.mapView.StatusLine()
}
