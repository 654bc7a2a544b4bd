package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/resource/links"
	"github.com/phrazzld/library-api/internal/resource/paging"
	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/resource/shaping"
	"github.com/phrazzld/library-api/internal/service"
)

// linksField is the key of the links slot of a shaped item.
const linksField = "links"

// AuthorHandler handles author-related HTTP requests
type AuthorHandler struct {
	authorService service.AuthorService
	mappings      *propmap.Registry
	links         *links.Builder
	paging        config.PagingConfig
	logger        *slog.Logger
	now           func() time.Time
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(
	authorService service.AuthorService,
	mappings *propmap.Registry,
	linkBuilder *links.Builder,
	pagingCfg config.PagingConfig,
	logger *slog.Logger,
) *AuthorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorHandler{
		authorService: authorService,
		mappings:      mappings,
		links:         linkBuilder,
		paging:        pagingCfg,
		logger:        logger.With(slog.String("component", "author_handler")),
		now:           time.Now,
	}
}

// ListAuthors handles GET /api/authors requests
func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	params, err := parseAuthorsParameters(r.URL.Query(), h.paging)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.mappings.IsValidSortExpression(service.AuthorResource, service.AuthorEntity, params.OrderBy) {
		log.Debug("rejected author sort expression", slog.String("order_by", params.OrderBy))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid orderBy parameter")
		return
	}
	if !shaping.TypeHasProperties(AuthorDTO{}, params.Fields) {
		log.Debug("rejected author fields", slog.String("fields", params.Fields))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid fields parameter")
		return
	}

	page, err := h.authorService.ListAuthors(r.Context(), service.AuthorListParams{
		PageNumber:  params.PageNumber,
		PageSize:    params.PageSize,
		Genre:       params.Genre,
		SearchQuery: params.SearchQuery,
		OrderBy:     params.OrderBy,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list authors")
		return
	}

	now := h.now()
	dtos := paging.Map(page, func(a domain.Author) AuthorDTO { return NewAuthorDTO(a, now) })

	items, err := h.shapeAuthors(dtos.Items(), params.Fields)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list authors")
		return
	}

	state := params.QueryState()
	h.setPaginationHeader(w, log, page, state)

	shared.RespondWithJSON(w, r, http.StatusOK, LinkedCollection{
		Value: items,
		Links: h.links.ForCollection(routeAuthors, state, page.HasNext(), page.HasPrevious()),
	})
}

func (h *AuthorHandler) setPaginationHeader(
	w http.ResponseWriter,
	log *slog.Logger,
	page *paging.Page[domain.Author],
	state links.QueryState,
) {
	md := page.Metadata()
	if page.HasPrevious() {
		md.PreviousPageLink = h.links.PageURL(routeAuthors, state, links.PreviousPage)
	}
	if page.HasNext() {
		md.NextPageLink = h.links.PageURL(routeAuthors, state, links.NextPage)
	}

	value, err := md.HeaderValue()
	if err != nil {
		log.Error("failed to encode pagination header", slog.String("error", err.Error()))
		return
	}
	w.Header().Set(paging.HeaderName, value)
}

// GetAuthor handles GET /api/authors/{authorId} requests
func (h *AuthorHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, paramAuthorID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	fields := itemFields(r)
	if !shaping.TypeHasProperties(AuthorDTO{}, fields) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid fields parameter")
		return
	}

	author, err := h.authorService.GetAuthor(r.Context(), authorID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get author")
		return
	}

	entity, err := h.shapeAuthor(NewAuthorDTO(*author, h.now()), fields)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get author")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entity)
}

// CreateAuthor handles POST /api/authors requests
func (h *AuthorHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req AuthorForCreation
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	input, err := req.ToInput()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	author, err := h.authorService.CreateAuthor(r.Context(), input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create author")
		return
	}

	entity, err := h.shapeAuthor(NewAuthorDTO(*author, h.now()), "")
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create author")
		return
	}

	w.Header().Set("Location", h.links.Href(routeAuthor, map[string]string{links.IDParam: author.ID.String()}, nil))
	shared.RespondWithJSON(w, r, http.StatusCreated, entity)
}

// BlockAuthorCreation handles POST /api/authors/{authorId} requests. Authors
// cannot be created at a client-chosen ID.
func (h *AuthorHandler) BlockAuthorCreation(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, paramAuthorID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	exists, err := h.authorService.AuthorExists(r.Context(), authorID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check author")
		return
	}
	if exists {
		HandleAPIError(w, r, service.ErrAuthorExists, "")
		return
	}
	HandleAPIError(w, r, service.ErrAuthorNotFound, "")
}

// DeleteAuthor handles DELETE /api/authors/{authorId} requests
func (h *AuthorHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, paramAuthorID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.authorService.DeleteAuthor(r.Context(), authorID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete author")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("author deleted",
		slog.String("author_id", authorID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// authorLinks returns the links of one author.
func (h *AuthorHandler) authorLinks(id uuid.UUID, fields string) []links.Link {
	return h.links.ForItem(routeAuthor, id.String(), fields,
		links.Action{Rel: "delete_author", Template: routeAuthor, Method: http.MethodDelete},
		links.Action{Rel: "create_book_for_author", Template: routeAuthorBooksOf, Method: http.MethodPost},
		links.Action{Rel: "books", Template: routeAuthorBooksOf, Method: http.MethodGet},
	)
}

func (h *AuthorHandler) shapeAuthor(dto AuthorDTO, fields string) (*shaping.Entity, error) {
	entity, err := shaping.Shape(dto, fields)
	if err != nil {
		return nil, err
	}
	entity.Set(linksField, h.authorLinks(dto.ID, fields))
	return entity, nil
}

func (h *AuthorHandler) shapeAuthors(dtos []AuthorDTO, fields string) ([]*shaping.Entity, error) {
	entities, err := shaping.ShapeMany(dtos, fields)
	if err != nil {
		return nil, err
	}
	for i, entity := range entities {
		entity.Set(linksField, h.authorLinks(dtos[i].ID, fields))
	}
	return entities, nil
}

// respondDecodeError answers a body that could not be decoded.
func respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, shared.ErrEmptyBody) {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
}
