package model

import "errors"

var (
	// ErrInvalidInput marks a malformed answer set or an answer for a
	// question that does not exist in the catalog.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a session id that does not resolve in the store.
	ErrNotFound = errors.New("session not found")

	// ErrStoreUnavailable marks a transient store failure. A failed write
	// must not be assumed to have partially applied.
	ErrStoreUnavailable = errors.New("store unavailable")
)
