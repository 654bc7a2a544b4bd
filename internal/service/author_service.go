package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/resource/paging"
	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/store"
)

// AuthorListParams selects a page of authors. OrderBy is a client sort
// expression over AuthorResource fields, e.g. "genre, age desc".
type AuthorListParams struct {
	PageNumber  int
	PageSize    int
	Genre       string
	SearchQuery string
	OrderBy     string
}

// AuthorInput carries the fields of a new author and their initial books.
type AuthorInput struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Genre       string
	Books       []BookInput
}

// BookInput carries the client-editable fields of a book.
type BookInput struct {
	Title       string
	Description string
}

// AuthorService provides author-related operations.
type AuthorService interface {
	// ListAuthors returns one page of authors matching params.
	ListAuthors(ctx context.Context, params AuthorListParams) (*paging.Page[domain.Author], error)

	// GetAuthor retrieves an author by ID.
	GetAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error)

	// CreateAuthor creates an author together with its books.
	CreateAuthor(ctx context.Context, input AuthorInput) (*domain.Author, error)

	// CreateAuthorCollection creates several authors atomically.
	CreateAuthorCollection(ctx context.Context, inputs []AuthorInput) ([]domain.Author, error)

	// GetAuthorCollection returns exactly the authors with the given IDs, in
	// order. It fails with ErrAuthorNotFound if any of them is missing.
	GetAuthorCollection(ctx context.Context, ids []uuid.UUID) ([]domain.Author, error)

	// DeleteAuthor removes an author and their books.
	DeleteAuthor(ctx context.Context, id uuid.UUID) error

	// AuthorExists reports whether an author exists.
	AuthorExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type authorServiceImpl struct {
	db       *sql.DB
	authors  store.AuthorStore
	mappings *propmap.Registry
	logger   *slog.Logger
}

// NewAuthorService creates a new AuthorService.
// It returns an error if any of the required dependencies are nil.
func NewAuthorService(
	db *sql.DB,
	authors store.AuthorStore,
	mappings *propmap.Registry,
	logger *slog.Logger,
) (AuthorService, error) {
	if db == nil {
		return nil, &ServiceError{Service: "author", Operation: "create_service", Message: "db cannot be nil"}
	}
	if authors == nil {
		return nil, &ServiceError{Service: "author", Operation: "create_service", Message: "authors cannot be nil"}
	}
	if mappings == nil {
		return nil, &ServiceError{Service: "author", Operation: "create_service", Message: "mappings cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authorServiceImpl{
		db:       db,
		authors:  authors,
		mappings: mappings,
		logger:   logger.With(slog.String("component", "author_service")),
	}, nil
}

func (s *authorServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// ListAuthors implements AuthorService.ListAuthors
func (s *authorServiceImpl) ListAuthors(
	ctx context.Context,
	params AuthorListParams,
) (*paging.Page[domain.Author], error) {
	log := s.log(ctx)

	sort, err := s.mappings.Resolve(AuthorResource, AuthorEntity, params.OrderBy)
	if err != nil {
		log.Debug("rejected sort expression",
			slog.String("order_by", params.OrderBy),
			slog.String("error", err.Error()))
		return nil, err
	}

	authors, total, err := s.authors.List(ctx, store.AuthorQuery{
		PageNumber:  params.PageNumber,
		PageSize:    params.PageSize,
		Genre:       params.Genre,
		SearchQuery: params.SearchQuery,
		Sort:        sort,
	})
	if err != nil {
		log.Error("failed to list authors", slog.String("error", err.Error()))
		return nil, newServiceError("author", "list_authors", "failed to list authors", err)
	}

	page, err := paging.New(authors, total, params.PageNumber, params.PageSize)
	if err != nil {
		log.Error("store returned an inconsistent page",
			slog.Int("items", len(authors)),
			slog.Int("total", total),
			slog.String("error", err.Error()))
		return nil, newServiceError("author", "list_authors", "failed to build page", err)
	}
	return page, nil
}

// GetAuthor implements AuthorService.GetAuthor
func (s *authorServiceImpl) GetAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("author", "get_author", "failed to retrieve author", err)
	}
	return author, nil
}

// CreateAuthor implements AuthorService.CreateAuthor
func (s *authorServiceImpl) CreateAuthor(ctx context.Context, input AuthorInput) (*domain.Author, error) {
	authors, err := s.CreateAuthorCollection(ctx, []AuthorInput{input})
	if err != nil {
		return nil, err
	}
	return &authors[0], nil
}

// CreateAuthorCollection implements AuthorService.CreateAuthorCollection.
// Every author is validated before the transaction starts.
func (s *authorServiceImpl) CreateAuthorCollection(
	ctx context.Context,
	inputs []AuthorInput,
) ([]domain.Author, error) {
	log := s.log(ctx)

	if len(inputs) == 0 {
		return nil, domain.NewValidationError("authors", "must not be empty", nil)
	}

	authors := make([]domain.Author, 0, len(inputs))
	for i, input := range inputs {
		author, err := newAuthorFromInput(input)
		if err != nil {
			if len(inputs) > 1 {
				return nil, fmt.Errorf("author %d: %w", i, err)
			}
			return nil, err
		}
		authors = append(authors, *author)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txAuthors := s.authors.WithTx(tx)
		for i := range authors {
			if err := txAuthors.Create(ctx, &authors[i]); err != nil {
				log.Error("failed to create author in transaction",
					slog.String("author_id", authors[i].ID.String()),
					slog.String("error", err.Error()))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, newServiceError("author", "create_authors", "failed to save authors", err)
	}

	log.Info("created authors", slog.Int("count", len(authors)))
	return authors, nil
}

func newAuthorFromInput(input AuthorInput) (*domain.Author, error) {
	author, err := domain.NewAuthor(input.FirstName, input.LastName, input.Genre, input.DateOfBirth)
	if err != nil {
		return nil, err
	}
	for _, b := range input.Books {
		book, err := domain.NewBook(author.ID, b.Title, b.Description)
		if err != nil {
			return nil, err
		}
		author.Books = append(author.Books, *book)
	}
	return author, nil
}

// GetAuthorCollection implements AuthorService.GetAuthorCollection
func (s *authorServiceImpl) GetAuthorCollection(ctx context.Context, ids []uuid.UUID) ([]domain.Author, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("ids", "must not be empty", nil)
	}

	authors, err := s.authors.GetByIDs(ctx, ids)
	if err != nil {
		return nil, newServiceError("author", "get_author_collection", "failed to retrieve authors", err)
	}
	if len(authors) != len(ids) {
		s.log(ctx).Debug("author collection incomplete",
			slog.Int("requested", len(ids)),
			slog.Int("found", len(authors)),
			slog.String("ids", joinIDs(ids)))
		return nil, ErrAuthorNotFound
	}
	return authors, nil
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// DeleteAuthor implements AuthorService.DeleteAuthor
func (s *authorServiceImpl) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	if err := s.authors.Delete(ctx, id); err != nil {
		return newServiceError("author", "delete_author", "failed to delete author", err)
	}
	s.log(ctx).Info("deleted author", slog.String("author_id", id.String()))
	return nil
}

// AuthorExists implements AuthorService.AuthorExists
func (s *authorServiceImpl) AuthorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := s.authors.Exists(ctx, id)
	if err != nil {
		return false, newServiceError("author", "author_exists", "failed to check author", err)
	}
	return exists, nil
}
