package traversal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the start identity is not in the collection.
	ErrNotFound = errors.New("traversal: start point not found")

	// ErrExhausted signals that every point has been visited.
	ErrExhausted = errors.New("traversal: all points visited")

	// ErrInvalidBatch indicates a non-positive batch size.
	ErrInvalidBatch = errors.New("traversal: batch size must be positive")
)

// NotFoundError names the identity that could not be resolved.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("traversal: start point %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
