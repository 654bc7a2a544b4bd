package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/resource/paging"
	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/resource/shaping"
	"github.com/phrazzld/library-api/internal/service"
	"github.com/phrazzld/library-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Not found errors
	case errors.Is(err, service.ErrAuthorNotFound),
		errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, propmap.ErrUnknownSortKey),
		errors.Is(err, propmap.ErrInvalidSortClause),
		errors.Is(err, paging.ErrInvalidPage),
		errors.Is(err, shaping.ErrFieldNotFound),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	var fieldErr *shaping.FieldNotFoundError
	var validationErrs validator.ValidationErrors

	switch {
	// Not found errors
	case errors.Is(err, service.ErrAuthorNotFound):
		return "Author not found"
	case errors.Is(err, service.ErrBookNotFound):
		return "Book not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, service.ErrAuthorExists):
		return "Author already exists"
	case errors.Is(err, service.ErrConflict), errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Field %q does not exist on the resource", fieldErr.Field)
	case errors.Is(err, shaping.ErrFieldNotFound):
		return "Invalid fields parameter"
	case errors.Is(err, propmap.ErrUnknownSortKey), errors.Is(err, propmap.ErrInvalidSortClause):
		return "Invalid orderBy parameter"
	case errors.Is(err, paging.ErrInvalidPage):
		return "Invalid paging parameters"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"
	case errors.Is(err, domain.ErrInvalidFormat):
		return "Invalid request format"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and sanitized message for err. For
// errors that map to 500, defaultMsg is sent instead when it is set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field and rule, without the struct internals.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	field := fe.Field()
	// Keep the element path of nested fields, e.g. "Books[0].Title".
	if ns := fe.Namespace(); ns != "" {
		if i := strings.Index(ns, "."); i >= 0 {
			field = ns[i+1:]
		}
	}
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "dive":
		return "invalid element"
	default:
		return "validation failed"
	}
}
