package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/resource/paging"
	"github.com/phrazzld/library-api/internal/store"
)

var authorSortColumns = sortColumns{
	"ID":          "id",
	"FirstName":   "first_name",
	"LastName":    "last_name",
	"DateOfBirth": "date_of_birth",
	"Genre":       "genre",
}

const authorColumns = "id, first_name, last_name, date_of_birth, genre"

// PostgresAuthorStore implements the store.AuthorStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAuthorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuthorStore creates a new PostgreSQL implementation of the AuthorStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAuthorStore(db store.DBTX, logger *slog.Logger) *PostgresAuthorStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAuthorStore{
		db:     db,
		logger: logger.With(slog.String("component", "author_store")),
	}
}

// Ensure PostgresAuthorStore implements store.AuthorStore interface
var _ store.AuthorStore = (*PostgresAuthorStore)(nil)

// WithTx implements store.AuthorStore.WithTx
func (s *PostgresAuthorStore) WithTx(tx *sql.Tx) store.AuthorStore {
	return &PostgresAuthorStore{db: tx, logger: s.logger}
}

func (s *PostgresAuthorStore) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// List implements store.AuthorStore.List.
// Matching rows and the total count come from one query through a window
// function; a page past the end falls back to a separate count.
func (s *PostgresAuthorStore) List(ctx context.Context, q store.AuthorQuery) ([]domain.Author, int, error) {
	offset, err := paging.Offset(q.PageNumber, q.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	orderBy, err := authorSortColumns.orderBy(q.Sort, []string{"first_name", "last_name"}, "id")
	if err != nil {
		return nil, 0, err
	}

	where, args := authorFilter(q)
	limitArg := strconv.Itoa(len(args) + 1)
	offsetArg := strconv.Itoa(len(args) + 2)

	query := "SELECT " + authorColumns + ", COUNT(*) OVER() AS total_count FROM authors" +
		where + " " + orderBy + " LIMIT $" + limitArg + " OFFSET $" + offsetArg

	rows, err := s.db.QueryContext(ctx, query, append(args, q.PageSize, offset)...)
	if err != nil {
		s.log(ctx).Error("failed to list authors", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("author", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	authors := make([]domain.Author, 0, q.PageSize)
	total := 0
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.Genre, &total); err != nil {
			return nil, 0, store.NewStoreError("author", "list", "scan failed", err)
		}
		a.DateOfBirth = a.DateOfBirth.UTC()
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("author", "list", "row iteration failed", err)
	}

	if len(authors) == 0 && offset > 0 {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM authors"+where, args...).Scan(&total); err != nil {
			return nil, 0, store.NewStoreError("author", "count", "query failed", MapError(err))
		}
	}

	s.log(ctx).Debug("listed authors",
		slog.Int("count", len(authors)),
		slog.Int("total", total),
		slog.Int("page", q.PageNumber))
	return authors, total, nil
}

func authorFilter(q store.AuthorQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if genre := strings.TrimSpace(q.Genre); genre != "" {
		args = append(args, genre)
		conds = append(conds, "lower(genre) = lower($"+strconv.Itoa(len(args))+")")
	}
	if search := strings.TrimSpace(q.SearchQuery); search != "" {
		args = append(args, likePattern(search))
		n := "$" + strconv.Itoa(len(args))
		conds = append(conds, "(genre ILIKE "+n+" OR first_name ILIKE "+n+" OR last_name ILIKE "+n+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// GetByID implements store.AuthorStore.GetByID
func (s *PostgresAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	var a domain.Author
	err := s.db.QueryRowContext(ctx,
		"SELECT "+authorColumns+" FROM authors WHERE id = $1", id,
	).Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.Genre)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrAuthorNotFound
	}
	if err != nil {
		s.log(ctx).Error("failed to get author",
			slog.String("author_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("author", "get", "query failed", MapError(err))
	}
	a.DateOfBirth = a.DateOfBirth.UTC()
	return &a, nil
}

// GetByIDs implements store.AuthorStore.GetByIDs
func (s *PostgresAuthorStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Author, error) {
	if len(ids) == 0 {
		return []domain.Author{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+authorColumns+" FROM authors WHERE id IN ("+strings.Join(placeholders, ", ")+")",
		args...)
	if err != nil {
		return nil, store.NewStoreError("author", "get_many", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[uuid.UUID]domain.Author, len(ids))
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.Genre); err != nil {
			return nil, store.NewStoreError("author", "get_many", "scan failed", err)
		}
		a.DateOfBirth = a.DateOfBirth.UTC()
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("author", "get_many", "row iteration failed", err)
	}

	authors := make([]domain.Author, 0, len(byID))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			authors = append(authors, a)
		}
	}
	return authors, nil
}

// Create implements store.AuthorStore.Create
func (s *PostgresAuthorStore) Create(ctx context.Context, author *domain.Author) error {
	if err := author.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO authors ("+authorColumns+") VALUES ($1, $2, $3, $4, $5)",
		author.ID, author.FirstName, author.LastName, author.DateOfBirth, author.Genre)
	if err != nil {
		s.log(ctx).Error("failed to create author",
			slog.String("author_id", author.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	for i := range author.Books {
		book := &author.Books[i]
		book.AuthorID = author.ID
		if err := insertBook(ctx, s.db, book); err != nil {
			s.log(ctx).Error("failed to create book for new author",
				slog.String("author_id", author.ID.String()),
				slog.String("book_id", book.ID.String()),
				slog.String("error", err.Error()))
			return err
		}
	}

	s.log(ctx).Debug("created author",
		slog.String("author_id", author.ID.String()),
		slog.Int("books", len(author.Books)))
	return nil
}

// Delete implements store.AuthorStore.Delete
func (s *PostgresAuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM authors WHERE id = $1", id)
	if err != nil {
		s.log(ctx).Error("failed to delete author",
			slog.String("author_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("author", "delete", "exec failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrAuthorNotFound)
}

// Exists implements store.AuthorStore.Exists
func (s *PostgresAuthorStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, store.NewStoreError("author", "exists", "query failed", MapError(err))
	}
	return exists, nil
}
