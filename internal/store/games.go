package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Game is the aggregate-root row. CreatorToken is the capability secret
// compared at the orchestration boundary; it never appears in derived state
// or broadcasts.
type Game struct {
	ID            string
	CreatorPseudo string
	CreatorToken  string
	CreatedAt     time.Time
}

// CreateGame inserts a new game row. CreatedAt is set if zero.
func (s *Store) CreateGame(ctx context.Context, g *Game) error {
	if g.ID == "" || g.CreatorToken == "" {
		return fmt.Errorf("%w: game id and creator token are required", ErrInvalidEvent)
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	const query = `
	INSERT INTO games (id, creator_pseudo, creator_token, created_at)
	VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.CreatorPseudo, g.CreatorToken, g.CreatedAt.UTC().Format(TimeFormat))
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// GetGame loads a game by id. Returns ErrGameNotFound if absent.
func (s *Store) GetGame(ctx context.Context, id string) (*Game, error) {
	const query = `
	SELECT id, creator_pseudo, creator_token, created_at
	FROM games WHERE id = ?
	`

	var g Game
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.CreatorPseudo, &g.CreatorToken, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}

	g.CreatedAt, err = time.Parse(TimeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return &g, nil
}
