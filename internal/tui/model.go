// Package tui renders the conversation in the terminal and keeps the
// client-side session state in sync with the server.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sparklabs/sparkchat/internal/client"
	"github.com/sparklabs/sparkchat/internal/model/chat"
)

// state tracks what the UI is currently allowed to do.
type state int

const (
	stateReady        state = iota // accepting input
	stateBusy                      // a submit round trip is outstanding
	stateConfirmClear              // waiting for y/n before clearing
)

// Model is the Bubble Tea model for the chat view. The turns slice mirrors
// the server log, except that while a submission is in flight it holds one
// optimistic user turn at pendingIdx that the server has not confirmed yet.
type Model struct {
	api *client.Client

	turns      []chat.Turn
	pendingIdx int // index of the optimistic turn, -1 when none

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	state  state
	status string // one-line diagnostic; errors land here, never a banner

	width  int
	height int
	ready  bool
}

// New builds the chat model around an API client.
func New(api *client.Client) Model {
	input := textinput.New()
	input.Placeholder = "Ask anything..."
	input.Focus()
	input.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Rendering falls back to raw text when glamour cannot start.
		renderer = nil
	}

	return Model{
		api:        api,
		pendingIdx: -1,
		input:      input,
		spinner:    sp,
		renderer:   renderer,
		state:      stateReady,
	}
}

// Init fetches the history once; local state is replaced wholesale when it
// arrives.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, fetchHistoryCmd(m.api))
}
