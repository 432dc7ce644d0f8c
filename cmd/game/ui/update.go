package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"samsara/internal/game/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	before := len(m.messages)

	switch msg := msg.(type) {
	case sessionStartedMsg:
		m, cmd = m.handleSessionStarted(msg)
	case outcomeMsg:
		m, cmd = m.handleOutcome(msg)
	case hintMsg:
		m, cmd = m.handleHint(msg)
	case abandonedMsg:
		m, cmd = m.handleAbandoned(msg)

	case tea.WindowSizeMsg:
		m, cmd = m.handleWindowResize(msg)
	case animationTickMsg:
		m, cmd = m.handleAnimation(msg)
	case tea.KeyMsg:
		m, cmd = m.handleKeyPress(msg)
	default:
		m.textInput, cmd = m.textInput.Update(msg)
	}

	if m.ready && (len(m.messages) != before || m.loading) {
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
	}
	return m, cmd
}

func (m Model) handleSessionStarted(msg sessionStartedMsg) (Model, tea.Cmd) {
	m.stopLoading()
	if msg.err != nil {
		m.debug.Printf("Start failed: %v", msg.err)
		m.addLines(errorNotice(msg.err, ""), "")
		return m, nil
	}

	def, err := m.orchestrator.Registry().Get(msg.session.PuzzleID)
	if err != nil {
		m.addLines(errorNotice(err, ""), "")
		return m, nil
	}
	completed := m.orchestrator.Player().IsCompleted(def.ID)
	m.addLines(startedLines(def, msg.session, completed)...)

	if msg.session.Status == session.AttemptsExhausted {
		m.addLines(notice(msgExhausted, def.Name), "")
		m.active = nil
		return m, nil
	}
	m.active = msg.session
	m.draft = newDraft(time.Now())
	m.addLines("")
	return m, nil
}

func (m Model) handleOutcome(msg outcomeMsg) (Model, tea.Cmd) {
	m.stopLoading()
	if msg.err != nil {
		m.debug.Printf("Submit failed: %v", msg.err)
		m.addLines(errorNotice(msg.err, m.puzzleName()), "")
		if errors.Is(msg.err, session.ErrAttemptsExhausted) || errors.Is(msg.err, session.ErrSessionClosed) {
			m.active = nil
		}
		return m, nil
	}

	def, err := m.orchestrator.Registry().Get(msg.outcome.PuzzleID)
	if err != nil {
		m.addLines(errorNotice(err, ""), "")
		return m, nil
	}
	m.addLines(outcomeLines(def, msg.outcome)...)
	m.addLines("")

	if m.active != nil && m.active.ID == msg.outcome.SessionID {
		m.active.Attempts = msg.outcome.Attempts
		m.active.CurrentStage = msg.outcome.Stage
		m.active.Status = msg.outcome.Status
		if msg.outcome.Status.Terminal() {
			m.active = nil
		}
	}
	return m, nil
}

func (m Model) handleHint(msg hintMsg) (Model, tea.Cmd) {
	m.stopLoading()
	if msg.err != nil {
		m.debug.Printf("Hint failed: %v", msg.err)
		m.addLines(errorNotice(msg.err, m.puzzleName()), "")
		return m, nil
	}
	m.addLines(text(msgHint, msg.hint), "")
	return m, nil
}

func (m Model) handleAbandoned(msg abandonedMsg) (Model, tea.Cmd) {
	m.stopLoading()
	if msg.err != nil {
		m.addLines(errorNotice(msg.err, ""), "")
		return m, nil
	}
	name := msg.puzzleID
	if def, err := m.orchestrator.Registry().Get(msg.puzzleID); err == nil {
		name = def.Name
	}
	m.active = nil
	m.draft = newDraft(time.Now())
	m.addLines(text(msgAbandoned, name), "")
	return m, nil
}

func (m Model) handleWindowResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	chatWidth, chatHeight := m.chatSize()
	if !m.ready {
		m.viewport = viewport.New(chatWidth, chatHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = chatHeight
	}
	m.textInput.Width = max(msg.Width-8, 10)
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleAnimation(msg animationTickMsg) (Model, tea.Cmd) {
	if m.loading {
		m.animationFrame++
		return m, animationTimer()
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyEnter:
		line := strings.TrimSpace(m.textInput.Value())
		if line == "" || m.loading {
			return m, nil
		}
		m.textInput.Reset()
		m.addLines("> " + line)
		return m.handleCommand(line)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleCommand(line string) (Model, tea.Cmd) {
	c, err := parseCommand(line, m.draft)
	if err != nil {
		m.addLines(errorNotice(err, m.puzzleName()), "")
		return m, nil
	}

	switch c.kind {
	case cmdPuzzles:
		m.addLines(puzzleListLines(m.orchestrator.Registry().List(), m.orchestrator.Player())...)
		m.addLines("")
		return m, nil

	case cmdState:
		m.addLines(stateLines(m.orchestrator.Player())...)
		m.addLines("")
		return m, nil

	case cmdHelp:
		m.addLines(helpLines()...)
		m.addLines("")
		return m, nil

	case cmdStart:
		m.startLoading()
		return m, tea.Batch(startPuzzleCmd(m.orchestrator, c.arg), animationTimer())
	}

	if m.active == nil {
		m.draft = newDraft(time.Now())
		m.addLines(notice(msgNoActivePuzzle), "")
		return m, nil
	}

	switch c.kind {
	case cmdHint:
		m.startLoading()
		return m, tea.Batch(hintCmd(m.orchestrator, m.active.ID), animationTimer())

	case cmdAbandon:
		m.startLoading()
		return m, tea.Batch(abandonCmd(m.orchestrator, m.active), animationTimer())

	case cmdDraft:
		m.addLines(text(msgNoted))
		if m.debug.IsEnabled() {
			m.addLines(fmt.Sprintf("[DEBUG] Draft: %v", m.draft.fields))
		}
		return m, nil

	case cmdSubmit:
		if m.draft.empty() {
			m.addLines(notice(msgNothingToSubmit), "")
			return m, nil
		}
		def, err := m.orchestrator.Registry().Get(m.active.PuzzleID)
		if err != nil {
			m.addLines(errorNotice(err, ""), "")
			return m, nil
		}
		in := fillLists(def.Type, m.draft.take(time.Now()))
		m.debug.Printf("Submitting %s input: %v", def.ID, in)
		m.startLoading()
		return m, tea.Batch(submitCmd(m.orchestrator, m.active.ID, in), animationTimer())
	}
	return m, nil
}
