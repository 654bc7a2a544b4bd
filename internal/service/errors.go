package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrAuthorNotFound indicates that the author does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrBookNotFound indicates that the author has no such book.
	// API layer should map this to HTTP 404 Not Found.
	ErrBookNotFound = errors.New("book not found")

	// ErrConflict indicates that a resource with the same identity already
	// exists.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("resource already exists")

	// ErrAuthorExists indicates an attempt to create an author at an ID
	// that is already taken.
	ErrAuthorExists = fmt.Errorf("%w: author", ErrConflict)
)

// ServiceError wraps unexpected errors from a service with context.
type ServiceError struct {
	// Service is the service that failed, e.g. "author" or "book".
	Service string
	// Operation is the operation that failed, e.g. "list_authors".
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError wraps err, translating store not-found and duplicate
// errors into the service sentinels. Sentinels are returned unwrapped.
func newServiceError(service, operation, message string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrValidation):
		return err
	case errors.Is(err, ErrAuthorNotFound), errors.Is(err, store.ErrAuthorNotFound):
		return ErrAuthorNotFound
	case errors.Is(err, ErrBookNotFound), errors.Is(err, store.ErrBookNotFound):
		return ErrBookNotFound
	case store.IsNotFoundError(err):
		return err
	case errors.Is(err, ErrConflict):
		return err
	case store.IsDuplicateError(err):
		return ErrConflict
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
