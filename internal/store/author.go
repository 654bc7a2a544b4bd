package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/resource/propmap"
)

// AuthorQuery selects one page of authors.
type AuthorQuery struct {
	PageNumber int
	PageSize   int

	// Genre filters on an exact, case-insensitive genre match when non-empty.
	Genre string

	// SearchQuery matches genre, first name or last name containing the
	// text, case-insensitively, when non-empty.
	SearchQuery string

	// Sort holds resolved instructions over domain.Author field names.
	// An empty Sort orders by name.
	Sort []propmap.SortInstruction
}

// AuthorStore defines the interface for author data persistence.
type AuthorStore interface {
	// List returns the requested page of matching authors and the total
	// number of matching authors. Books are not loaded.
	List(ctx context.Context, q AuthorQuery) ([]domain.Author, int, error)

	// GetByID retrieves an author by ID.
	// Returns ErrAuthorNotFound if the author does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error)

	// GetByIDs returns the authors with the given IDs in the order of ids.
	// Missing IDs are skipped; callers compare lengths to detect them.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Author, error)

	// Create saves a new author together with any books it carries.
	// Callers creating several authors atomically must use WithTx.
	Create(ctx context.Context, author *domain.Author) error

	// Delete removes an author. Books are removed by ON DELETE CASCADE.
	// Returns ErrAuthorNotFound if the author does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists reports whether an author with the ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// WithTx returns an AuthorStore bound to tx.
	WithTx(tx *sql.Tx) AuthorStore
}
