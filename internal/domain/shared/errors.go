// Package shared contains the domain types shared by the group, course and student
// packages: error kinds and the generic CRUD contract. This package has zero
// external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds used for error checking with errors.Is().
//
// A "not found" outcome is never an error: repositories return a nil entity
// for an absent row and reserve errors for failed queries.
var (
	// ErrStorage marks every failure coming from the connection or the backend.
	ErrStorage = errors.New("storage error")

	// ErrInvalidArgument marks a missing or malformed input detected before any
	// storage access (nil input collections, malformed seed lines, nil dependencies).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoConnection is wrapped into a storage error when a repository has no
	// connection to work with.
	ErrNoConnection = errors.New("connection is not available")

	// ErrNilEntity is wrapped into a storage error when Save receives nil.
	ErrNilEntity = errors.New("entity is nil")

	// ErrNotPersisted is wrapped into a storage error when an operation needs a
	// storage-assigned identifier that the entity does not have yet.
	ErrNotPersisted = errors.New("entity has no identifier")

	// ErrInvalidFormat is used for values that break a naming pattern.
	ErrInvalidFormat = errors.New("invalid format")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "group", "course"
	Op      string // Operation that failed, e.g., "Save", "FindByID"
	Kind    error  // Base error kind for errors.Is() checking
	Message string // Human-readable message with the attempted id/name
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both the kind and the cause.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// StorageError wraps a connection or query failure of a repository operation.
func StorageError(domain, op, message string, err error) *DomainError {
	return WrapError(domain, op, ErrStorage, message, err)
}

// InvalidArgument reports a missing or malformed input.
func InvalidArgument(domain, op, message string) *DomainError {
	return NewDomainError(domain, op, ErrInvalidArgument, message)
}

// IsStorage checks if the error came from the storage layer.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsInvalidArgument checks if the error is an invalid-argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
