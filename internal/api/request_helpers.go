package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// parseIDList parses a collection key of the form "(id1,id2,...)". The
// parentheses are optional; whitespace around ids is ignored.
func parseIDList(raw string) ([]uuid.UUID, error) {
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return nil, domain.NewValidationError("ids", "has invalid format", domain.ErrInvalidID)
	}

	trimmed := strings.TrimSpace(unescaped)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	if strings.TrimSpace(trimmed) == "" {
		return nil, domain.NewValidationError("ids", "is required", domain.ErrValidation)
	}

	parts := strings.Split(trimmed, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, domain.NewValidationError("ids",
				fmt.Sprintf("contains malformed id %q", strings.TrimSpace(part)), domain.ErrInvalidID)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formatIDList renders ids as a collection key, the inverse of parseIDList.
func formatIDList(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}
