package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soliade/codenames/internal/event"
)

// eventRow is the internal type representing a database row.
type eventRow struct {
	ID          string
	GameID      string
	RoundID     sql.NullString
	EventType   string
	PayloadJSON string
	TriggeredBy sql.NullString
	Seq         int64
	CreatedAt   string
}

// toEvent converts a database row to an Event.
func (r *eventRow) toEvent() (*event.Event, error) {
	createdAt, err := time.Parse(TimeFormat, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", r.CreatedAt, err)
	}

	e := &event.Event{
		ID:        r.ID,
		GameID:    r.GameID,
		Type:      r.EventType,
		Payload:   json.RawMessage(r.PayloadJSON),
		Seq:       r.Seq,
		CreatedAt: createdAt,
	}

	if r.RoundID.Valid {
		e.RoundID = &r.RoundID.String
	}
	if r.TriggeredBy.Valid {
		e.TriggeredBy = &r.TriggeredBy.String
	}

	return e, nil
}

// eventToRow converts an Event to a database row.
func eventToRow(e *event.Event) *eventRow {
	r := &eventRow{
		ID:          e.ID,
		GameID:      e.GameID,
		EventType:   e.Type,
		PayloadJSON: string(e.Payload),
		Seq:         e.Seq,
		CreatedAt:   e.CreatedAt.UTC().Format(TimeFormat),
	}

	if r.PayloadJSON == "" {
		r.PayloadJSON = "{}"
	}
	if e.RoundID != nil {
		r.RoundID = sql.NullString{String: *e.RoundID, Valid: true}
	}
	if e.TriggeredBy != nil {
		r.TriggeredBy = sql.NullString{String: *e.TriggeredBy, Valid: true}
	}

	return r
}

// validateEvent checks that required fields are set.
func validateEvent(e *event.Event) error {
	if e == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}
	if e.GameID == "" {
		return fmt.Errorf("%w: game id is required", ErrInvalidEvent)
	}
	if e.Type == "" {
		return fmt.Errorf("%w: event type is required", ErrInvalidEvent)
	}
	return nil
}
