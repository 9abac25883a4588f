package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soliade/codenames/internal/event"
)

// Round is one grid-and-turn-cycle row. The grid is immutable once
// created; only a later round supersedes it.
type Round struct {
	ID        string
	GameID    string
	Order     int
	Words     []string
	Results   []event.CardType
	CreatedAt time.Time
}

// CreateRound inserts a new round row. CreatedAt is set if zero.
func (s *Store) CreateRound(ctx context.Context, r *Round) error {
	if r.ID == "" || r.GameID == "" || r.Order < 1 {
		return fmt.Errorf("%w: round id, game id, and positive order are required", ErrInvalidEvent)
	}
	if len(r.Words) != len(r.Results) {
		return fmt.Errorf("%w: words and results must be parallel lists", ErrInvalidEvent)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	wordsJSON, err := json.Marshal(r.Words)
	if err != nil {
		return fmt.Errorf("marshal words: %w", err)
	}
	resultsJSON, err := json.Marshal(r.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	const query = `
	INSERT INTO rounds (id, game_id, ord, words_json, results_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		r.ID, r.GameID, r.Order, string(wordsJSON), string(resultsJSON),
		r.CreatedAt.UTC().Format(TimeFormat))
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// GetRound loads a round by id. Returns ErrRoundNotFound if absent.
func (s *Store) GetRound(ctx context.Context, id string) (*Round, error) {
	const query = `
	SELECT id, game_id, ord, words_json, results_json, created_at
	FROM rounds WHERE id = ?
	`

	var r Round
	var wordsJSON, resultsJSON, createdAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.GameID, &r.Order, &wordsJSON, &resultsJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get round: %w", err)
	}

	if err := json.Unmarshal([]byte(wordsJSON), &r.Words); err != nil {
		return nil, fmt.Errorf("unmarshal words: %w", err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &r.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	r.CreatedAt, err = time.Parse(TimeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return &r, nil
}
