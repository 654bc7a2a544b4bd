package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/store"
)

// BookService provides operations on the books of an author. Every
// operation fails with ErrAuthorNotFound when the author does not exist.
type BookService interface {
	// ListBooks returns the author's books ordered by orderBy, a client sort
	// expression over BookResource fields.
	ListBooks(ctx context.Context, authorID uuid.UUID, orderBy string) ([]domain.Book, error)

	// GetBook retrieves one book of an author.
	GetBook(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error)

	// CreateBook creates a book for an author.
	CreateBook(ctx context.Context, authorID uuid.UUID, input BookInput) (*domain.Book, error)

	// UpsertBook replaces title and description of a book, creating the book
	// at bookID when it does not exist. created reports which happened.
	UpsertBook(
		ctx context.Context,
		authorID, bookID uuid.UUID,
		input BookInput,
	) (book *domain.Book, created bool, err error)

	// DeleteBook removes one book of an author.
	DeleteBook(ctx context.Context, authorID, bookID uuid.UUID) error
}

type bookServiceImpl struct {
	db       *sql.DB
	authors  store.AuthorStore
	books    store.BookStore
	mappings *propmap.Registry
	logger   *slog.Logger
}

// NewBookService creates a new BookService.
// It returns an error if any of the required dependencies are nil.
func NewBookService(
	db *sql.DB,
	authors store.AuthorStore,
	books store.BookStore,
	mappings *propmap.Registry,
	logger *slog.Logger,
) (BookService, error) {
	if db == nil {
		return nil, &ServiceError{Service: "book", Operation: "create_service", Message: "db cannot be nil"}
	}
	if authors == nil || books == nil {
		return nil, &ServiceError{Service: "book", Operation: "create_service", Message: "stores cannot be nil"}
	}
	if mappings == nil {
		return nil, &ServiceError{Service: "book", Operation: "create_service", Message: "mappings cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bookServiceImpl{
		db:       db,
		authors:  authors,
		books:    books,
		mappings: mappings,
		logger:   logger.With(slog.String("component", "book_service")),
	}, nil
}

func (s *bookServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func (s *bookServiceImpl) requireAuthor(ctx context.Context, authors store.AuthorStore, authorID uuid.UUID, op string) error {
	exists, err := authors.Exists(ctx, authorID)
	if err != nil {
		return newServiceError("book", op, "failed to check author", err)
	}
	if !exists {
		return ErrAuthorNotFound
	}
	return nil
}

// ListBooks implements BookService.ListBooks
func (s *bookServiceImpl) ListBooks(ctx context.Context, authorID uuid.UUID, orderBy string) ([]domain.Book, error) {
	sort, err := s.mappings.Resolve(BookResource, BookEntity, orderBy)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, s.authors, authorID, "list_books"); err != nil {
		return nil, err
	}

	books, err := s.books.ListByAuthor(ctx, authorID, sort)
	if err != nil {
		s.log(ctx).Error("failed to list books",
			slog.String("author_id", authorID.String()),
			slog.String("error", err.Error()))
		return nil, newServiceError("book", "list_books", "failed to list books", err)
	}
	return books, nil
}

// GetBook implements BookService.GetBook
func (s *bookServiceImpl) GetBook(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error) {
	if err := s.requireAuthor(ctx, s.authors, authorID, "get_book"); err != nil {
		return nil, err
	}

	book, err := s.books.GetForAuthor(ctx, authorID, bookID)
	if err != nil {
		return nil, newServiceError("book", "get_book", "failed to retrieve book", err)
	}
	return book, nil
}

// CreateBook implements BookService.CreateBook
func (s *bookServiceImpl) CreateBook(ctx context.Context, authorID uuid.UUID, input BookInput) (*domain.Book, error) {
	book, err := domain.NewBook(authorID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, s.authors, authorID, "create_book"); err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		s.log(ctx).Error("failed to create book",
			slog.String("author_id", authorID.String()),
			slog.String("error", err.Error()))
		return nil, newServiceError("book", "create_book", "failed to save book", err)
	}

	s.log(ctx).Info("created book",
		slog.String("author_id", authorID.String()),
		slog.String("book_id", book.ID.String()))
	return book, nil
}

// UpsertBook implements BookService.UpsertBook.
// The lookup and the write share one transaction so a concurrent delete
// cannot turn an update into a lost write.
func (s *bookServiceImpl) UpsertBook(
	ctx context.Context,
	authorID, bookID uuid.UUID,
	input BookInput,
) (*domain.Book, bool, error) {
	book, err := domain.NewBook(authorID, input.Title, input.Description)
	if err != nil {
		return nil, false, err
	}
	book.ID = bookID

	created := false
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.requireAuthor(ctx, s.authors.WithTx(tx), authorID, "upsert_book"); err != nil {
			return err
		}

		txBooks := s.books.WithTx(tx)
		_, err := txBooks.GetForAuthor(ctx, authorID, bookID)
		switch {
		case errors.Is(err, store.ErrBookNotFound):
			created = true
			return txBooks.Create(ctx, book)
		case err != nil:
			return err
		default:
			return txBooks.Update(ctx, book)
		}
	})
	if err != nil {
		s.log(ctx).Error("failed to upsert book",
			slog.String("author_id", authorID.String()),
			slog.String("book_id", bookID.String()),
			slog.String("error", err.Error()))
		return nil, false, newServiceError("book", "upsert_book", "failed to save book", err)
	}

	s.log(ctx).Info("saved book",
		slog.String("book_id", bookID.String()),
		slog.Bool("created", created))
	return book, created, nil
}

// DeleteBook implements BookService.DeleteBook
func (s *bookServiceImpl) DeleteBook(ctx context.Context, authorID, bookID uuid.UUID) error {
	if err := s.requireAuthor(ctx, s.authors, authorID, "delete_book"); err != nil {
		return err
	}
	if err := s.books.Delete(ctx, authorID, bookID); err != nil {
		return newServiceError("book", "delete_book", "failed to delete book", err)
	}
	return nil
}
