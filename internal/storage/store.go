package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"samsara/internal/game/events"
	"samsara/internal/game/player"
)

const DefaultPath = "./samsara.db"

// Store keeps player records, world-state snapshots and the puzzle event log
// in SQLite.
type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps snapshot upserts strictly ordered
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		name TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_state (
		player TEXT NOT NULL,
		key TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (player, key)
	);

	CREATE TABLE IF NOT EXISTS puzzle_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		type TEXT NOT NULL,
		player TEXT NOT NULL,
		puzzle_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		attempt INTEGER NOT NULL,
		content TEXT NOT NULL,
		meta TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS abilities (
		player TEXT NOT NULL,
		ability TEXT NOT NULL,
		unlocked_at DATETIME NOT NULL,
		PRIMARY KEY (player, ability)
	);

	CREATE TABLE IF NOT EXISTS completions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		puzzle_id TEXT NOT NULL,
		user_input TEXT NOT NULL,
		system_prompt TEXT NOT NULL,
		response TEXT NOT NULL,
		metadata TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_completions_timestamp ON completions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_puzzle_events_player ON puzzle_events(player);
	CREATE INDEX IF NOT EXISTS idx_puzzle_events_puzzle ON puzzle_events(puzzle_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SavePlayer writes the player's record. World-state snapshots live in their
// own table and are not duplicated here.
func (s *Store) SavePlayer(ctx context.Context, state *player.State) error {
	record := *state
	record.World = nil
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal player state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO players (name, state, updated_at) VALUES (?, ?, ?)",
		state.Name, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save player %s: %w", state.Name, err)
	}
	return nil
}

// LoadPlayer returns the stored player with its snapshots, or a fresh player
// when none exists yet.
func (s *Store) LoadPlayer(ctx context.Context, name string) (*player.State, error) {
	var data string
	err := s.db.GetContext(ctx, &data, "SELECT state FROM players WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		state := player.New(name)
		return state, s.loadSnapshots(ctx, state)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", name, err)
	}

	state := &player.State{}
	if err := json.Unmarshal([]byte(data), state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player %s: %w", name, err)
	}
	state.Name = name
	state.Normalize()
	return state, s.loadSnapshots(ctx, state)
}

func (s *Store) loadSnapshots(ctx context.Context, state *player.State) error {
	snaps, err := s.Snapshots(ctx, state.Name)
	if err != nil {
		return err
	}
	for key, snap := range snaps {
		state.PutSnapshot(key, snap)
	}
	return nil
}

// SaveSnapshot overwrites the snapshot stored under key.
func (s *Store) SaveSnapshot(ctx context.Context, playerName, key string, snap player.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO world_state (player, key, snapshot, updated_at) VALUES (?, ?, ?, ?)",
		playerName, key, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Store) Snapshots(ctx context.Context, playerName string) (map[string]player.Snapshot, error) {
	var rows []struct {
		Key      string `db:"key"`
		Snapshot string `db:"snapshot"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT key, snapshot FROM world_state WHERE player = ? ORDER BY key", playerName)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	out := make(map[string]player.Snapshot, len(rows))
	for _, row := range rows {
		var snap player.Snapshot
		if err := json.Unmarshal([]byte(row.Snapshot), &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", row.Key, err)
		}
		out[row.Key] = snap
	}
	return out, nil
}

func (s *Store) RecordEvent(ctx context.Context, ev events.PuzzleEvent) error {
	meta := "{}"
	if len(ev.Meta) > 0 {
		data, err := json.Marshal(ev.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal event meta: %w", err)
		}
		meta = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO puzzle_events (id, type, player, puzzle_id, session_id, attempt, content, meta, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, string(ev.Type), ev.Player, ev.PuzzleID, ev.SessionID, ev.Attempt, ev.Content, meta, ev.Timestamp.UTC())
	return err
}

// RecentEvents returns up to limit events, newest first. An empty player
// matches every player.
func (s *Store) RecentEvents(ctx context.Context, playerName string, limit int) ([]events.PuzzleEvent, error) {
	var out []events.PuzzleEvent
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, type, player, puzzle_id, session_id, attempt, content, timestamp
		FROM puzzle_events
		WHERE ? = '' OR player = ?
		ORDER BY seq DESC
		LIMIT ?
	`, playerName, playerName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return out, nil
}

// UnlockAbility records an ability the first time it is granted.
func (s *Store) UnlockAbility(ctx context.Context, playerName, ability string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO abilities (player, ability, unlocked_at) VALUES (?, ?, ?)",
		playerName, ability, time.Now().UTC(),
	)
	return err
}

func (s *Store) Abilities(ctx context.Context, playerName string) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out,
		"SELECT ability FROM abilities WHERE player = ? ORDER BY unlocked_at, ability", playerName)
	return out, err
}
