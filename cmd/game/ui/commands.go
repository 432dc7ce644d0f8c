package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"samsara/internal/game/evaluator"
	"samsara/internal/game/session"
)

// hintTimeout bounds a hint request that falls through to the LLM oracle.
const hintTimeout = 30 * time.Second

func animationTimer() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

func startPuzzleCmd(o *session.Orchestrator, puzzleID string) tea.Cmd {
	return func() tea.Msg {
		s, err := o.Start(context.Background(), puzzleID)
		return sessionStartedMsg{session: s, err: err}
	}
}

func submitCmd(o *session.Orchestrator, sessionID string, in evaluator.Input) tea.Cmd {
	return func() tea.Msg {
		out, err := o.Submit(context.Background(), sessionID, in)
		return outcomeMsg{outcome: out, err: err}
	}
}

func hintCmd(o *session.Orchestrator, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), hintTimeout)
		defer cancel()
		hint, err := o.Hint(ctx, sessionID)
		return hintMsg{hint: hint, err: err}
	}
}

func abandonCmd(o *session.Orchestrator, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		err := o.Abandon(context.Background(), s.ID)
		return abandonedMsg{puzzleID: s.PuzzleID, err: err}
	}
}
