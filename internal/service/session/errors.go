package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every lookup failure returned by the store.
	ErrNotFound = errors.New("not found")

	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrTodoNotFound    = fmt.Errorf("todo %w", ErrNotFound)
)

// NotFoundError names the entity that could not be resolved.
type NotFoundError struct {
	Kind error
	ID   string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case ErrTodoNotFound:
		return fmt.Sprintf("todo %q not found", e.ID)
	default:
		return fmt.Sprintf("session %q not found", e.ID)
	}
}

func (e *NotFoundError) Unwrap() error { return e.Kind }

func sessionNotFound(id string) error {
	return &NotFoundError{Kind: ErrSessionNotFound, ID: id}
}

func todoNotFound(id string) error {
	return &NotFoundError{Kind: ErrTodoNotFound, ID: id}
}
