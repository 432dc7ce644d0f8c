package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"samsara/internal/debug"
	"samsara/internal/game/session"
)

const loadingMarker = "LOADING_ANIMATION"

type Model struct {
	messages       []string
	textInput      textinput.Model
	viewport       viewport.Model
	ready          bool
	width          int
	height         int
	loading        bool
	animationFrame int

	orchestrator *session.Orchestrator
	active       *session.Session
	draft        *draft
	debug        *debug.Logger
}

func NewModel(o *session.Orchestrator, debugLogger *debug.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "/puzzles, /start <id>, /help"
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256

	messages := []string{text(msgWelcome, o.Player().Name), ""}
	if debugLogger.IsEnabled() {
		messages = append(messages, "[DEBUG] Debug logging active", "")
	}

	return Model{
		messages:     messages,
		textInput:    ti,
		orchestrator: o,
		draft:        newDraft(time.Now()),
		debug:        debugLogger,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

type animationTickMsg struct{}

type sessionStartedMsg struct {
	session *session.Session
	err     error
}

type outcomeMsg struct {
	outcome session.Outcome
	err     error
}

type hintMsg struct {
	hint string
	err  error
}

type abandonedMsg struct {
	puzzleID string
	err      error
}

func (m *Model) addLines(lines ...string) {
	m.messages = append(m.messages, lines...)
}

func (m *Model) startLoading() {
	m.loading = true
	m.animationFrame = 0
	m.messages = append(m.messages, loadingMarker)
}

func (m *Model) stopLoading() {
	m.loading = false
	if n := len(m.messages); n > 0 && m.messages[n-1] == loadingMarker {
		m.messages = m.messages[:n-1]
	}
}

func (m *Model) puzzleName() string {
	if m.active == nil {
		return ""
	}
	if def, err := m.orchestrator.Registry().Get(m.active.PuzzleID); err == nil {
		return def.Name
	}
	return m.active.PuzzleID
}
