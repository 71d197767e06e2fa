package chat

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUserNotFound         = errors.New("user not found")
)

// ValidationError is a malformed chat request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PersistenceError means the turn could not be stored. Nothing of the turn
// was written.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "failed to save chat turn: " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }
