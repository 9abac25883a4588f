package store

import "errors"

// Sentinel errors for the store package.
var (
	// ErrGameNotFound is returned when a game id has no row.
	ErrGameNotFound = errors.New("game not found")

	// ErrRoundNotFound is returned when a round id has no row.
	ErrRoundNotFound = errors.New("round not found")

	// ErrInvalidCursor is returned when a cursor cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor format")

	// ErrInvalidEvent is returned when an event fails validation.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrSeqConflict is returned when a concurrent writer claimed the same
	// per-game sequence number. Callers re-load state and retry.
	ErrSeqConflict = errors.New("event sequence conflict")
)
