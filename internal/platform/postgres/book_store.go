package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/store"
)

var bookSortColumns = sortColumns{
	"ID":          "id",
	"Title":       "title",
	"Description": "description",
	"AuthorID":    "author_id",
}

const bookColumns = "id, title, description, author_id"

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// WithTx implements store.BookStore.WithTx
func (s *PostgresBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &PostgresBookStore{db: tx, logger: s.logger}
}

func (s *PostgresBookStore) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// ListByAuthor implements store.BookStore.ListByAuthor
func (s *PostgresBookStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	sort []propmap.SortInstruction,
) ([]domain.Book, error) {
	orderBy, err := bookSortColumns.orderBy(sort, []string{"title"}, "id")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE author_id = $1 "+orderBy, authorID)
	if err != nil {
		s.log(ctx).Error("failed to list books",
			slog.String("author_id", authorID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("book", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.AuthorID); err != nil {
			return nil, store.NewStoreError("book", "list", "scan failed", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("book", "list", "row iteration failed", err)
	}
	return books, nil
}

// GetForAuthor implements store.BookStore.GetForAuthor
func (s *PostgresBookStore) GetForAuthor(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error) {
	var b domain.Book
	err := s.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id = $1 AND author_id = $2", bookID, authorID,
	).Scan(&b.ID, &b.Title, &b.Description, &b.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("book", "get", "query failed", MapError(err))
	}
	return &b, nil
}

// Create implements store.BookStore.Create
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	if err := insertBook(ctx, s.db, book); err != nil {
		s.log(ctx).Error("failed to create book",
			slog.String("book_id", book.ID.String()),
			slog.String("author_id", book.AuthorID.String()),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Update implements store.BookStore.Update
func (s *PostgresBookStore) Update(ctx context.Context, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE books SET title = $1, description = $2 WHERE id = $3 AND author_id = $4",
		book.Title, book.Description, book.ID, book.AuthorID)
	if err != nil {
		s.log(ctx).Error("failed to update book",
			slog.String("book_id", book.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("book", "update", "exec failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrBookNotFound)
}

// Delete implements store.BookStore.Delete
func (s *PostgresBookStore) Delete(ctx context.Context, authorID, bookID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM books WHERE id = $1 AND author_id = $2", bookID, authorID)
	if err != nil {
		return store.NewStoreError("book", "delete", "exec failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrBookNotFound)
}

func insertBook(ctx context.Context, db store.DBTX, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	_, err := db.ExecContext(ctx,
		"INSERT INTO books ("+bookColumns+") VALUES ($1, $2, $3, $4)",
		book.ID, book.Title, book.Description, book.AuthorID)
	if IsForeignKeyViolation(err) {
		// The author was deleted after the caller checked it.
		return fmt.Errorf("%w: %v", store.ErrAuthorNotFound, err)
	}
	return MapError(err)
}
