package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/sparklabs/sparkchat/internal/model/chat"
)

// chromeHeight is the number of rows taken by the header, status line and
// input box around the viewport.
const chromeHeight = 5

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("135"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	return vp
}

// syncViewport re-renders the transcript and pins the view to the bottom.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTurns())
	m.viewport.GotoBottom()
}

// renderTurns renders the transcript. Assistant turns go through the
// markdown renderer; user turns are shown verbatim.
func (m *Model) renderTurns() string {
	if len(m.turns) == 0 {
		return helpStyle.Render("How can I help you today? Ask me anything.")
	}

	var b strings.Builder
	for i, turn := range m.turns {
		switch turn.Role.Normalize() {
		case chat.RoleAssistant:
			b.WriteString(assistantLabelStyle.Render("Assistant"))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(turn.Text))
		default:
			b.WriteString(userLabelStyle.Render("You"))
			b.WriteString("\n")
			if i == m.pendingIdx {
				// Optimistic turn the server has not confirmed yet.
				b.WriteString(pendingStyle.Render(turn.Text))
			} else {
				b.WriteString(turn.Text)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text + "\n"
	}
	rendered, err := m.renderer.Render(text)
	if err != nil {
		return text + "\n"
	}
	return rendered
}

// View assembles the frame.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var status string
	switch {
	case m.state == stateConfirmClear:
		status = statusStyle.Render("Delete all chat history? (y/n)")
	case m.state == stateBusy:
		status = m.spinner.View() + " Thinking..."
	case m.status != "":
		status = statusStyle.Render(m.status)
	default:
		status = helpStyle.Render("enter: send  ctrl+l: clear history  ctrl+c: quit")
	}

	return strings.Join([]string{
		headerStyle.Render("AI Assistant"),
		m.viewport.View(),
		status,
		m.input.View(),
	}, "\n")
}
