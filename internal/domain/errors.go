package domain

import "errors"

// Sentinel errors for cross-backend error classification.
// Providers wrap these so commands and the TUI can react to error
// categories without knowing which backend produced them.
//
//	return fmt.Errorf("failed to set text record: %w", domain.ErrUnauthorized)
var (
	// ErrNotFound indicates the requested name or record does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials, or because the caller
	// does not control the name.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the backend throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state conflict, such as a pending
	// transaction for the same name.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates a value was rejected before it reached
	// the backend.
	ErrInvalidInput = errors.New("invalid input")
)
