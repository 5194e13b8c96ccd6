package service

import (
	"errors"
	"fmt"

	"dafoerum/internal/storage"
)

// Validation and lookup errors returned by the services. The HTTP layer maps
// each of them to a stable error code.
var (
	ErrEmptyContent   = errors.New("content cannot be empty")
	ErrEmptySubject   = errors.New("subject cannot be empty")
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrContentTooLong = errors.New("content is too long")
	ErrSubjectTooLong = errors.New("subject is too long")
	ErrIDRequired     = errors.New("id is required")
	ErrReaderNil      = errors.New("reader is nil")
	ErrNotFound       = errors.New("not found")

	// ErrAttachmentsDisabled is returned when no object store is configured.
	ErrAttachmentsDisabled = storage.ErrDisabled
)

// NotFoundError reports a missing entity. It matches ErrNotFound.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s doesn't exist in the database", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: fmt.Sprint(id)}
}
