package scenarios

import "errors"

// ErrNotFound is returned for lookups and deletions targeting a scenario the
// caller does not own or that does not exist. The two cases are deliberately
// indistinguishable so record existence never leaks across users.
var ErrNotFound = errors.New("scenario not found or not authorized")

// ValidationError rejects a submission before anything is persisted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}
