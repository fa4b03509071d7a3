// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across storage/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyRoster indicates a rotation was attempted against a household
	// with no members. Rotation must fail on an empty ring, never wrap.
	ErrEmptyRoster = errors.New("empty roster")

	// ErrAssigneeNotFound indicates a chore's current assignee is not present
	// in the resolved roster (stale or foreign reference).
	ErrAssigneeNotFound = errors.New("assignee not in roster")

	// ErrConflict indicates optimistic concurrency failure: the entity changed
	// between read and conditional write.
	ErrConflict = errors.New("concurrent modification")

	// ErrValidation indicates malformed or rejected input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates the caller may not perform the operation
	// (e.g., confirming a payment on someone else's expense).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorageUnavailable indicates a transport/backend failure talking to
	// the record store. Surfaced, never silently retried more than once.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
