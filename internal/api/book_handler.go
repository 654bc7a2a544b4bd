package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/resource/links"
	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/resource/shaping"
	"github.com/phrazzld/library-api/internal/service"
)

// BookHandler handles requests on the books of an author
type BookHandler struct {
	bookService service.BookService
	mappings    *propmap.Registry
	links       *links.Builder
	logger      *slog.Logger
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(
	bookService service.BookService,
	mappings *propmap.Registry,
	linkBuilder *links.Builder,
	logger *slog.Logger,
) *BookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookHandler{
		bookService: bookService,
		mappings:    mappings,
		links:       linkBuilder,
		logger:      logger.With(slog.String("component", "book_handler")),
	}
}

// ListBooks handles GET /api/authors/{authorId}/books requests
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, paramAuthorID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	params := parseBooksParameters(r.URL.Query())
	if !h.mappings.IsValidSortExpression(service.BookResource, service.BookEntity, params.OrderBy) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid orderBy parameter")
		return
	}
	if !shaping.TypeHasProperties(BookDTO{}, params.Fields) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid fields parameter")
		return
	}

	books, err := h.bookService.ListBooks(r.Context(), authorID, params.OrderBy)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	dtos := make([]BookDTO, 0, len(books))
	for _, b := range books {
		dtos = append(dtos, NewBookDTO(b))
	}

	builder := h.linksFor(authorID)
	items, err := shaping.ShapeMany(dtos, params.Fields)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}
	for i, item := range items {
		item.Set(linksField, bookLinks(builder, dtos[i].ID, params.Fields))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LinkedCollection{
		Value: items,
		Links: []links.Link{{
			Href:   builder.Href(routeAuthorBooks, nil, params.Query()),
			Rel:    links.RelSelf,
			Method: http.MethodGet,
		}},
	})
}

// GetBook handles GET /api/authors/{authorId}/books/{bookId} requests
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	authorID, bookID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	fields := itemFields(r)
	if !shaping.TypeHasProperties(BookDTO{}, fields) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid fields parameter")
		return
	}

	book, err := h.bookService.GetBook(r.Context(), authorID, bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return
	}

	h.respondWithBook(w, r, http.StatusOK, book, fields)
}

// CreateBook handles POST /api/authors/{authorId}/books requests
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, paramAuthorID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req BookForCreation
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	book, err := h.bookService.CreateBook(r.Context(), authorID, req.ToInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create book")
		return
	}

	h.setLocation(w, book)
	h.respondWithBook(w, r, http.StatusCreated, book, "")
}

// UpsertBook handles PUT /api/authors/{authorId}/books/{bookId} requests.
// A missing book is created at the given ID.
func (h *BookHandler) UpsertBook(w http.ResponseWriter, r *http.Request) {
	authorID, bookID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	var req BookForUpdate
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	book, created, err := h.bookService.UpsertBook(r.Context(), authorID, bookID, req.ToInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update book")
		return
	}

	if !created {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("book created by upsert",
		slog.String("author_id", authorID.String()),
		slog.String("book_id", bookID.String()))
	h.setLocation(w, book)
	h.respondWithBook(w, r, http.StatusCreated, book, "")
}

// DeleteBook handles DELETE /api/authors/{authorId}/books/{bookId} requests
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	authorID, bookID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(r.Context(), authorID, bookID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete book")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathIDs extracts the author and book IDs. It writes an error response and
// returns false if either is invalid.
func (h *BookHandler) pathIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	authorID, err := getPathUUID(r, paramAuthorID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	bookID, err := getPathUUID(r, paramBookID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	return authorID, bookID, true
}

func (h *BookHandler) linksFor(authorID uuid.UUID) *links.Builder {
	return h.links.WithParam(paramAuthorID, authorID.String())
}

func (h *BookHandler) setLocation(w http.ResponseWriter, book *domain.Book) {
	w.Header().Set("Location", h.linksFor(book.AuthorID).Href(routeAuthorBook,
		map[string]string{links.IDParam: book.ID.String()}, nil))
}

func (h *BookHandler) respondWithBook(w http.ResponseWriter, r *http.Request, status int, book *domain.Book, fields string) {
	dto := NewBookDTO(*book)
	entity, err := shaping.Shape(dto, fields)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to render book")
		return
	}
	entity.Set(linksField, bookLinks(h.linksFor(book.AuthorID), dto.ID, fields))
	shared.RespondWithJSON(w, r, status, entity)
}

// bookLinks returns the links of one book. builder must interpolate the
// author ID.
func bookLinks(builder *links.Builder, id uuid.UUID, fields string) []links.Link {
	return builder.ForItem(routeAuthorBook, id.String(), fields,
		links.Action{Rel: "delete_book", Template: routeAuthorBook, Method: http.MethodDelete},
		links.Action{Rel: "update_book", Template: routeAuthorBook, Method: http.MethodPut},
	)
}
