package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/resource/links"
	"github.com/phrazzld/library-api/internal/service"
)

// AuthorCollectionHandler handles bulk author requests
type AuthorCollectionHandler struct {
	authorService service.AuthorService
	links         *links.Builder
	logger        *slog.Logger
	now           func() time.Time
}

// NewAuthorCollectionHandler creates a new AuthorCollectionHandler
func NewAuthorCollectionHandler(
	authorService service.AuthorService,
	linkBuilder *links.Builder,
	logger *slog.Logger,
) *AuthorCollectionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorCollectionHandler{
		authorService: authorService,
		links:         linkBuilder,
		logger:        logger.With(slog.String("component", "author_collection_handler")),
		now:           time.Now,
	}
}

// CreateAuthorCollection handles POST /api/authorcollections requests. All
// authors are created in one transaction.
func (h *AuthorCollectionHandler) CreateAuthorCollection(w http.ResponseWriter, r *http.Request) {
	var req []AuthorForCreation
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if len(req) == 0 {
		HandleAPIError(w, r, domain.NewValidationError("authors", "must not be empty", nil), "")
		return
	}

	inputs := make([]service.AuthorInput, 0, len(req))
	for i := range req {
		if err := shared.ValidateRequest(&req[i]); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		input, err := req[i].ToInput()
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		inputs = append(inputs, input)
	}

	authors, err := h.authorService.CreateAuthorCollection(r.Context(), inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create authors")
		return
	}

	ids := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("author collection created", slog.Int("count", len(ids)))
	w.Header().Set("Location", h.links.Href(routeAuthorCollections+"/"+formatIDList(ids), nil, nil))
	shared.RespondWithJSON(w, r, http.StatusCreated, h.toDTOs(authors))
}

// GetAuthorCollection handles GET /api/authorcollections/({ids}) requests
func (h *AuthorCollectionHandler) GetAuthorCollection(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(chi.URLParam(r, paramIDs))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	authors, err := h.authorService.GetAuthorCollection(r.Context(), ids)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get authors")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.toDTOs(authors))
}

func (h *AuthorCollectionHandler) toDTOs(authors []domain.Author) []AuthorDTO {
	now := h.now()
	dtos := make([]AuthorDTO, 0, len(authors))
	for _, a := range authors {
		dtos = append(dtos, NewAuthorDTO(a, now))
	}
	return dtos
}
