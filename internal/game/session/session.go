package session

import (
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"

	"samsara/internal/game/player"
	"samsara/internal/game/puzzle"
)

var (
	ErrUnknownSession    = errors.New("unknown session")
	ErrSessionClosed     = errors.New("session is closed")
	ErrAttemptsExhausted = errors.New("attempts exhausted")
	ErrNoMoreHints       = errors.New("no more hints")
)

type Status string

const (
	NotStarted        Status = "not_started"
	InProgress        Status = "in_progress"
	Completed         Status = "completed"
	AttemptsExhausted Status = "attempts_exhausted"
	Abandoned         Status = "abandoned"
)

// Terminal reports whether the status accepts no further evaluations.
func (s Status) Terminal() bool {
	return s == Completed || s == AttemptsExhausted || s == Abandoned
}

// Session is the runtime record of one attempt at a puzzle.
type Session struct {
	ID           string         `json:"id"`
	PuzzleID     string         `json:"puzzle_id"`
	Attempts     int            `json:"attempts"`
	CurrentStage int            `json:"current_stage"`
	Mechanic     map[string]any `json:"mechanic,omitempty"`
	HintsShown   int            `json:"hints_shown"`
	Status       Status         `json:"status"`
	StartedAt    time.Time      `json:"started_at"`
}

func newSession(puzzleID string) *Session {
	return &Session{
		ID:           uuid.New().String(),
		PuzzleID:     puzzleID,
		CurrentStage: 1,
		Mechanic:     make(map[string]any),
		Status:       NotStarted,
		StartedAt:    time.Now(),
	}
}

func (s *Session) resume(snap player.Snapshot) {
	s.Attempts = snap.Attempts
	if snap.Stage > 0 {
		s.CurrentStage = snap.Stage
	}
	if snap.Mechanic != nil {
		s.Mechanic = maps.Clone(snap.Mechanic)
	}
}

func (s *Session) snapshot() player.Snapshot {
	return player.Snapshot{
		Version:   player.SnapshotVersion,
		PuzzleID:  s.PuzzleID,
		Stage:     s.CurrentStage,
		Attempts:  s.Attempts,
		Mechanic:  maps.Clone(s.Mechanic),
		UpdatedAt: time.Now(),
	}
}

func (s *Session) clone() *Session {
	c := *s
	c.Mechanic = maps.Clone(s.Mechanic)
	return &c
}

// AttemptsLeft is -1 for unbounded puzzles.
func (s *Session) AttemptsLeft(def puzzle.Definition) int {
	if !def.Bounded() {
		return -1
	}
	return max(def.MaxAttempts-s.Attempts, 0)
}

func closedError(s *Session) error {
	if s.Status == AttemptsExhausted {
		return ErrAttemptsExhausted
	}
	return ErrSessionClosed
}
