package store

import (
	"context"
	"fmt"
)

// CurrentSchemaVersion is the current database schema version.
const CurrentSchemaVersion = 1

// migrate runs database migrations.
func (s *Store) migrate(ctx context.Context) error {
	if err := s.createGamesTable(ctx); err != nil {
		return err
	}
	if err := s.createRoundsTable(ctx); err != nil {
		return err
	}
	if err := s.createEventsTable(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Store) createGamesTable(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS games (
		id             TEXT PRIMARY KEY,
		creator_pseudo TEXT NOT NULL,
		creator_token  TEXT NOT NULL,
		created_at     TEXT NOT NULL
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create games table: %w", err)
	}
	return nil
}

func (s *Store) createRoundsTable(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS rounds (
		id           TEXT PRIMARY KEY,
		game_id      TEXT NOT NULL REFERENCES games(id),
		ord          INTEGER NOT NULL,
		words_json   TEXT NOT NULL,
		results_json TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		UNIQUE(game_id, ord)
	);

	CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create rounds table: %w", err)
	}
	return nil
}

func (s *Store) createEventsTable(ctx context.Context) error {
	// seq is a per-game monotonic sequence assigned at append time; it is
	// the replay order and, with created_at, the timeline cursor.
	const schema = `
	CREATE TABLE IF NOT EXISTS events (
		id           TEXT PRIMARY KEY,
		game_id      TEXT NOT NULL REFERENCES games(id),
		round_id     TEXT REFERENCES rounds(id),
		event_type   TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		triggered_by TEXT,
		seq          INTEGER NOT NULL,
		created_at   TEXT NOT NULL,
		UNIQUE(game_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_events_game_seq ON events(game_id, seq);
	CREATE INDEX IF NOT EXISTS idx_events_round ON events(round_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}
