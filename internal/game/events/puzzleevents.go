package events

import (
	"fmt"
	"time"
)

// PuzzleEventType is the canonical type of something that happened to a puzzle session.
type PuzzleEventType string

const (
	EventStarted   PuzzleEventType = "started"
	EventResumed   PuzzleEventType = "resumed"
	EventAttempt   PuzzleEventType = "attempt"
	EventMalformed PuzzleEventType = "malformed"
	EventCompleted PuzzleEventType = "completed"
	EventExhausted PuzzleEventType = "exhausted"
	EventHint      PuzzleEventType = "hint"
	EventAbandoned PuzzleEventType = "abandoned"
	EventRewarded  PuzzleEventType = "rewarded"
)

// PuzzleEvent is the record of one step in a puzzle's lifecycle.
type PuzzleEvent struct {
	ID        string                 `json:"id" db:"id"`
	Type      PuzzleEventType        `json:"type" db:"type"`
	Player    string                 `json:"player" db:"player"`
	PuzzleID  string                 `json:"puzzle_id" db:"puzzle_id"`
	SessionID string                 `json:"session_id,omitempty" db:"session_id"`
	Attempt   int                    `json:"attempt,omitempty" db:"attempt"`
	Content   string                 `json:"content,omitempty" db:"content"`
	Meta      map[string]interface{} `json:"meta,omitempty" db:"-"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
}

// New builds an event stamped with the current time.
func New(t PuzzleEventType, player, puzzleID, sessionID string, attempt int) PuzzleEvent {
	ts := time.Now()
	return PuzzleEvent{
		ID:        fmt.Sprintf("ev_%d", ts.UnixNano()),
		Type:      t,
		Player:    player,
		PuzzleID:  puzzleID,
		SessionID: sessionID,
		Attempt:   attempt,
		Content:   describe(t, player, puzzleID, attempt),
		Timestamp: ts,
	}
}

func describe(t PuzzleEventType, player, puzzleID string, attempt int) string {
	switch t {
	case EventStarted:
		return fmt.Sprintf("%s began %s", player, puzzleID)
	case EventResumed:
		return fmt.Sprintf("%s resumed %s", player, puzzleID)
	case EventAttempt:
		return fmt.Sprintf("%s made attempt %d at %s", player, attempt, puzzleID)
	case EventMalformed:
		return fmt.Sprintf("%s sent unreadable input to %s", player, puzzleID)
	case EventCompleted:
		return fmt.Sprintf("%s solved %s on attempt %d", player, puzzleID, attempt)
	case EventExhausted:
		return fmt.Sprintf("%s ran out of attempts at %s", player, puzzleID)
	case EventHint:
		return fmt.Sprintf("%s asked for a hint on %s", player, puzzleID)
	case EventAbandoned:
		return fmt.Sprintf("%s walked away from %s", player, puzzleID)
	case EventRewarded:
		return fmt.Sprintf("%s was rewarded for %s", player, puzzleID)
	}
	return fmt.Sprintf("%s: %s %s", player, t, puzzleID)
}

// WithMeta returns a copy of e carrying an extra metadata entry.
func (e PuzzleEvent) WithMeta(key string, value interface{}) PuzzleEvent {
	meta := make(map[string]interface{}, len(e.Meta)+1)
	for k, v := range e.Meta {
		meta[k] = v
	}
	meta[key] = value
	e.Meta = meta
	return e
}
