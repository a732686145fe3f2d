package usecase

import "errors"

// Sentinel errors returned by use cases. The HTTP layer maps them to status
// codes with errors.Is, so wrap them with %w instead of replacing them.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
