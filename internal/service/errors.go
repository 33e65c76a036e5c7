package service

import "errors"

// Shared error taxonomy. Per-entity not-found and access errors live next to
// the service that owns them; these two cut across all of them.
var (
	// ErrInvalidTransition rejects a status change from or to an illegal
	// state, including the loser of a race between two concurrent
	// transitions.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports malformed input: negative loads, day numbers
// outside 1-7, duplicate sort orders, and the like.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
