package app

import "errors"

// Command error taxonomy. The API layer maps these to status codes with
// errors.Is; everything else surfaces as an internal error.
var (
	// ErrNotFound means the referenced game or round does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor may not perform the action. This is the
	// normal outcome of a client racing ahead of server state and is not
	// logged as an error.
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest means the input is structurally invalid.
	ErrBadRequest = errors.New("bad request")

	// ErrConflict means concurrent writers exhausted the append retries.
	// The client should refetch state and retry.
	ErrConflict = errors.New("conflict")
)
