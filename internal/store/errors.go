package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document or record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique key is already taken.
var ErrDuplicate = errors.New("already exists")

// StorageError wraps a failed storage operation with the document path
// it was acting on.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the target does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
