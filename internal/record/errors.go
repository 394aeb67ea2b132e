package record

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every not-found outcome of a record store.
var ErrNotFound = errors.New("record not found")

// NotFoundError reports that a record does not exist in the store.
// Stores return it instead of a sentinel so callers can log what was missing.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound returns a NotFoundError for the given kind and id.
func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err is a not-found outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// MalformedError reports a record that lacks the system metadata the crawler
// depends on. It indicates corrupt upstream data and is never recovered from.
type MalformedError struct {
	Kind   string
	ID     string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("malformed %s record: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("malformed %s record %q: %s", e.Kind, e.ID, e.Reason)
}
