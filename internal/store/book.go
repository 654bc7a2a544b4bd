package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/resource/propmap"
)

// BookStore defines the interface for book data persistence.
// Every operation is scoped to the owning author.
type BookStore interface {
	// ListByAuthor returns all books of an author ordered by sort, or by
	// title when sort is empty.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, sort []propmap.SortInstruction) ([]domain.Book, error)

	// GetForAuthor retrieves one book of an author.
	// Returns ErrBookNotFound if the author has no such book.
	GetForAuthor(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error)

	// Create saves a new book. Returns ErrInvalidEntity when the author
	// does not exist.
	Create(ctx context.Context, book *domain.Book) error

	// Update replaces title and description of a book.
	// Returns ErrBookNotFound if the book does not exist.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes a book of an author.
	// Returns ErrBookNotFound if the author has no such book.
	Delete(ctx context.Context, authorID, bookID uuid.UUID) error

	// WithTx returns a BookStore bound to tx.
	WithTx(tx *sql.Tx) BookStore
}
