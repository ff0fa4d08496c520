// Package common defines sentinel errors shared by the compiler core, the
// repositories and the transport layer. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrMissingConfiguration aborts a run: there is nothing to compile.
	ErrMissingConfiguration = errors.New("no configuration found")

	// Entry-level errors. These never abort a run; the entry is skipped and
	// reported as a diagnostic.
	ErrMalformedEntry   = errors.New("malformed entry")
	ErrMalformedInstant = errors.New("malformed instant")
	ErrInvalidClock     = errors.New("invalid clock time")
	ErrInvalidDate      = errors.New("invalid date")

	// Request validation.
	ErrInvalidKey = errors.New("event and year are required")
)
