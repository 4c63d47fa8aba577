package view

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dongnecli/dongne/internal/session"
	"github.com/dongnecli/dongne/internal/ui"
)

const promptPlaceholder = "우리 동네 궁금증을 해소하세요!"

type chatStyles struct {
	userMsg lipgloss.Style
	botMsg  lipgloss.Style
	weather lipgloss.Style
	waiting lipgloss.Style
	input   lipgloss.Style
}

func newChatStyles() chatStyles {
	return chatStyles{
		userMsg: ui.UserBubbleStyle(),
		botMsg:  ui.BotBubbleStyle(),
		weather: ui.DimStyle(),
		waiting: ui.PendingStyle(),
		input:   ui.InputStyle(),
	}
}

// ChatView renders the full transcript with the question prompt. It never
// dispatches questions itself; submissions bubble up as SubmitQuestionMsg.
type ChatView struct {
	state *session.State

	vp    ViewportState
	input textinput.Model
	spin  spinner.Model

	waiting     bool
	weatherLine string

	width  int
	height int
	styles chatStyles
}

func NewChatView(state *session.State) *ChatView {
	ti := textinput.New()
	ti.Placeholder = promptPlaceholder
	ti.CharLimit = 200
	ti.Focus()

	return &ChatView{
		state:  state,
		input:  ti,
		spin:   ui.NewSpinner(),
		styles: newChatStyles(),
	}
}

func (c *ChatView) Init() tea.Cmd {
	return textinput.Blink
}

// Refresh re-renders the transcript after the session state changed.
func (c *ChatView) Refresh() {
	c.updateViewport()
}

// SetWaiting toggles the in-flight indicator and its spinner.
func (c *ChatView) SetWaiting(waiting bool) tea.Cmd {
	c.waiting = waiting
	c.updateViewport()
	if waiting {
		return c.spin.Tick
	}
	return nil
}

// SetWeather replaces the status strip above the transcript.
func (c *ChatView) SetWeather(line string) {
	c.weatherLine = line
}

func (c *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		c.updateViewport()
		return c, cmd

	case ThemeChangedMsg:
		c.styles = newChatStyles()
		c.spin = ui.NewSpinner()
		c.updateViewport()
		return c, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(c.input.Value())
			if text == "" || c.waiting {
				return c, nil
			}
			c.input.SetValue("")
			return c, func() tea.Msg { return SubmitQuestionMsg{Text: text} }
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			c.vp.Model, cmd = c.vp.Model.Update(msg)
			return c, cmd
		}

		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		c.vp.Model, cmd = c.vp.Model.Update(msg)
		return c, cmd
	}

	return c, nil
}

func (c *ChatView) updateViewport() {
	if !c.vp.Ready {
		return
	}
	c.vp.Model.SetContent(c.renderMessages())
	c.vp.Model.GotoBottom()
}

func (c *ChatView) renderMessages() string {
	var sb strings.Builder
	w := c.wrapWidth()

	for _, msg := range c.state.Messages() {
		switch msg.Role {
		case session.RoleUser:
			sb.WriteString(c.styles.userMsg.Render(wrapText("나: "+msg.Text, w)))
		case session.RoleBot:
			sb.WriteString(c.styles.botMsg.Render(wrapText("봇: "+msg.Text, w)))
		}
		sb.WriteString("\n\n")
	}

	if c.waiting {
		sb.WriteString(c.styles.waiting.Render(c.spin.View() + "답변을 기다리는 중..."))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (c *ChatView) wrapWidth() int {
	if c.width > 4 {
		return c.width - 4
	}
	return 76
}

func (c *ChatView) ViewString() string {
	var sb strings.Builder

	if c.weatherLine != "" {
		sb.WriteString(c.styles.weather.Render(truncate(c.weatherLine, c.width)))
		sb.WriteString("\n")
	}

	if c.vp.Ready {
		sb.WriteString(c.vp.Model.View())
	} else {
		sb.WriteString(LoadingMessage)
	}
	sb.WriteString("\n")

	inputWidth := c.width - 4
	if inputWidth < 10 {
		inputWidth = 10
	}
	sb.WriteString(c.styles.input.Width(inputWidth).Render(c.input.View()))

	return sb.String()
}

func (c *ChatView) View() tea.View {
	return tea.NewView(c.ViewString())
}

func (c *ChatView) SetSize(width, height int) tea.Cmd {
	c.width = width
	c.height = height

	vpHeight := height - 5 // weather strip + input box + spacing
	if c.weatherLine == "" {
		vpHeight++
	}
	c.vp.SetSize(width, vpHeight)
	c.updateViewport()
	return nil
}

func (c *ChatView) StatusLine() string {
	return "Enter:질문 • ^B:버스 안내 • ^G:지역화폐 • ^L:동네 설정 • ^C:종료"
}

func (c *ChatView) HasActiveInput() bool {
	return true
}
