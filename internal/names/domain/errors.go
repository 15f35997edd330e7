package domain

import "nathanbeddoewebdev/namectl/internal/domain"

// Re-export shared sentinel errors so name-service callers do not need to
// import the cross-domain package directly.
var (
	// ErrNotFound indicates the requested name or record does not exist.
	ErrNotFound = domain.ErrNotFound

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = domain.ErrUnauthorized

	// ErrRateLimited indicates the backend throttled the request.
	ErrRateLimited = domain.ErrRateLimited

	// ErrConflict indicates a state conflict.
	ErrConflict = domain.ErrConflict

	// ErrInvalidInput indicates a value failed local validation.
	ErrInvalidInput = domain.ErrInvalidInput
)
