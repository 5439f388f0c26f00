package usecase

import "errors"

// Sentinels wrapped by usecase errors. The HTTP layer maps them to status
// codes with errors.Is.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrDataIntegrity marks stored data that cannot be used as is, such as
	// a game without a final score or a pick that changed mid write.
	ErrDataIntegrity = errors.New("data integrity violation")
)
