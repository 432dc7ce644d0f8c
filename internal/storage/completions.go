package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"samsara/internal/llm"
)

// LogCompletion stores one generated hint with its prompt and timing.
func (s *Store) LogCompletion(ctx context.Context, puzzleID, userInput, systemPrompt, response string, metadata llm.CompletionMetadata) error {
	metadataJson, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO completions (timestamp, puzzle_id, user_input, system_prompt, response, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`, time.Now().UTC(), puzzleID, userInput, systemPrompt, response, string(metadataJson))
	return err
}

// RecentCompletions returns up to limit logged hints, newest first.
func (s *Store) RecentCompletions(ctx context.Context, limit int) ([]llm.CompletionLog, error) {
	var out []llm.CompletionLog
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, timestamp, puzzle_id, user_input, system_prompt, response, metadata
		FROM completions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get completions: %w", err)
	}
	return out, nil
}
