package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/soliade/codenames/internal/event"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// AppendEvent appends an event to its game's log, assigning the next
// per-game sequence number atomically within the insert. On success the
// event's ID, Seq, and CreatedAt are filled in.
//
// The UNIQUE(game_id, seq) constraint rejects a concurrent writer that
// raced to the same sequence number; that surfaces as ErrSeqConflict so the
// caller can re-load state and re-decide rather than retry a stale write.
func (s *Store) AppendEvent(ctx context.Context, e *event.Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	const query = `
	INSERT INTO events (id, game_id, round_id, event_type, payload_json, triggered_by, seq, created_at)
	VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE game_id = ?), ?)
	RETURNING seq
	`

	row := eventToRow(e)
	err := s.db.QueryRowContext(ctx, query,
		row.ID,
		row.GameID,
		row.RoundID,
		row.EventType,
		row.PayloadJSON,
		row.TriggeredBy,
		e.GameID,
		row.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return fmt.Errorf("append event: %w", ErrSeqConflict)
		}
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}

// LoadEvents returns a game's full event log in replay order.
func (s *Store) LoadEvents(ctx context.Context, gameID string) ([]*event.Event, error) {
	const query = `
	SELECT id, game_id, round_id, event_type, payload_json, triggered_by, seq, created_at
	FROM events
	WHERE game_id = ?
	ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		var r eventRow
		if err := rows.Scan(
			&r.ID, &r.GameID, &r.RoundID, &r.EventType,
			&r.PayloadJSON, &r.TriggeredBy, &r.Seq, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := r.toEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}

// TimelineFilter contains filter options for the timeline query.
type TimelineFilter struct {
	GameID  string
	RoundID *string
	Limit   int
	Cursor  *string
}

// TimelineResult contains one page of timeline events.
type TimelineResult struct {
	Items      []event.Event
	NextCursor *string
}

// QueryTimeline returns a game's events with optional round filtering and
// cursor-based pagination, oldest first.
func (s *Store) QueryTimeline(ctx context.Context, f TimelineFilter) (TimelineResult, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`
SELECT id, game_id, round_id, event_type, payload_json, triggered_by, seq, created_at
FROM events
WHERE game_id = ?
`)
	args = append(args, f.GameID)

	if f.RoundID != nil && *f.RoundID != "" {
		sb.WriteString(" AND round_id = ?")
		args = append(args, *f.RoundID)
	}

	// Cursor handling (composite cursor: created_at|seq)
	if f.Cursor != nil && *f.Cursor != "" {
		cursorTime, cursorSeq, err := decodeCursor(*f.Cursor)
		if err != nil {
			return TimelineResult{}, fmt.Errorf("decode cursor: %w", err)
		}
		sb.WriteString(" AND (created_at > ? OR (created_at = ? AND seq > ?))")
		cursorTimeStr := cursorTime.UTC().Format(TimeFormat)
		args = append(args, cursorTimeStr, cursorTimeStr, cursorSeq)
	}

	sb.WriteString(" ORDER BY created_at ASC, seq ASC")
	sb.WriteString(" LIMIT ?")
	args = append(args, limit+1) // fetch one extra to detect next page

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return TimelineResult{}, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	items := make([]event.Event, 0, limit+1)
	for rows.Next() {
		var r eventRow
		if err := rows.Scan(
			&r.ID, &r.GameID, &r.RoundID, &r.EventType,
			&r.PayloadJSON, &r.TriggeredBy, &r.Seq, &r.CreatedAt,
		); err != nil {
			return TimelineResult{}, fmt.Errorf("scan event: %w", err)
		}
		e, err := r.toEvent()
		if err != nil {
			return TimelineResult{}, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return TimelineResult{}, fmt.Errorf("rows error: %w", err)
	}

	var nextCursor *string
	if len(items) > limit {
		last := items[limit-1]
		items = items[:limit]
		c := EncodeCursor(last.CreatedAt, last.Seq)
		nextCursor = &c
	}

	return TimelineResult{Items: items, NextCursor: nextCursor}, nil
}

// CountEvents returns the number of events recorded for a game.
func (s *Store) CountEvents(ctx context.Context, gameID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM events WHERE game_id = ?`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, gameID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
