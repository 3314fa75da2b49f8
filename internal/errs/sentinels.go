// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across api/store/registration layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTimeConflict indicates the proposed date/time range overlaps an
	// existing event (HTTP 409 on event create/update).
	ErrTimeConflict = errors.New("time conflict")

	// ErrEventFull indicates the event has no remaining capacity.
	ErrEventFull = errors.New("event full")

	// ErrAlreadyRegistered indicates a duplicate participant registration
	// (HTTP 409 on the registration endpoint).
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates the server or the form rejected the input.
	ErrValidation = errors.New("validation failed")
)
