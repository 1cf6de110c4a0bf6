package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sparklabs/sparkchat/internal/client"
	"github.com/sparklabs/sparkchat/internal/model/chat"
)

// historyLoadedMsg carries the initial GET /api/history result.
type historyLoadedMsg struct {
	turns []chat.Turn
	err   error
}

// submitDoneMsg carries the POST /api/chat result.
type submitDoneMsg struct {
	result client.SubmitResult
	err    error
}

// clearDoneMsg carries the DELETE /api/history result.
type clearDoneMsg struct {
	err error
}

func fetchHistoryCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		turns, err := api.History(context.Background())
		return historyLoadedMsg{turns: turns, err: err}
	}
}

func submitCmd(api *client.Client, message string) tea.Cmd {
	return func() tea.Msg {
		result, err := api.Submit(context.Background(), message)
		return submitDoneMsg{result: result, err: err}
	}
}

func clearCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		return clearDoneMsg{err: api.Clear(context.Background())}
	}
}

// Update is the Bubble Tea state machine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			m.status = "error fetching history: " + msg.err.Error()
			return m, nil
		}
		m.turns = msg.turns
		m.status = ""
		m.syncViewport()
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(msg), nil

	case clearDoneMsg:
		m.state = stateReady
		if msg.err != nil {
			// Local state stays as-is; the log may now disagree with the
			// server until the next full fetch.
			m.status = "error clearing history: " + msg.err.Error()
			return m, nil
		}
		m.turns = nil
		m.pendingIdx = -1
		m.status = ""
		m.syncViewport()
		return m, nil

	default:
		var cmds []tea.Cmd
		if m.state == stateBusy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	viewportHeight := msg.Height - chromeHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = newViewport(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = msg.Width - 4
	m.syncViewport()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == stateConfirmClear {
		switch msg.String() {
		case "y", "Y":
			m.state = stateBusy
			m.status = "clearing history..."
			return m, tea.Batch(m.spinner.Tick, clearCmd(m.api))
		case "n", "N", "esc":
			m.state = stateReady
			m.status = ""
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+l":
		// Destructive, so ask first.
		if m.state == stateReady {
			m.state = stateConfirmClear
			m.status = ""
		}
		return m, nil

	case "enter":
		return m.handleSubmit()

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// handleSubmit performs the optimistic insert and kicks off the round trip.
// While one is outstanding the busy state swallows further submissions.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.state != stateReady {
		return m, nil
	}

	message := strings.TrimSpace(m.input.Value())
	if message == "" {
		return m, nil
	}

	m.turns = append(m.turns, chat.Turn{
		Role:      chat.RoleUser,
		Text:      message,
		Timestamp: time.Now(),
	})
	m.pendingIdx = len(m.turns) - 1
	m.input.Reset()
	m.state = stateBusy
	m.status = ""
	m.syncViewport()

	return m, tea.Batch(m.spinner.Tick, submitCmd(m.api, message))
}

// handleSubmitDone reconciles the optimistic turn with the server response.
// On success the placeholder is replaced in place by the confirmed user
// turn and the assistant turn appended; on failure the placeholder stays
// displayed with only the status line noting the error.
func (m Model) handleSubmitDone(msg submitDoneMsg) Model {
	m.state = stateReady

	if msg.err != nil {
		m.pendingIdx = -1
		m.status = "error sending message: " + msg.err.Error()
		return m
	}

	if m.pendingIdx >= 0 && m.pendingIdx < len(m.turns) {
		m.turns[m.pendingIdx] = msg.result.UserMsg
	}
	m.pendingIdx = -1
	m.turns = append(m.turns, msg.result.AIMsg)
	m.status = ""
	m.syncViewport()
	return m
}
