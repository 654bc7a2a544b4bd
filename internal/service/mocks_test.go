package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthorStore mocks the store.AuthorStore interface.
// WithTx returns the mock itself so expectations hold inside transactions.
type MockAuthorStore struct {
	mock.Mock
}

func (m *MockAuthorStore) List(ctx context.Context, q store.AuthorQuery) ([]domain.Author, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Author), args.Int(1), args.Error(2)
}

func (m *MockAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Author), args.Error(1)
}

func (m *MockAuthorStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Author, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Author), args.Error(1)
}

func (m *MockAuthorStore) Create(ctx context.Context, author *domain.Author) error {
	return m.Called(ctx, author).Error(0)
}

func (m *MockAuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAuthorStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorStore) WithTx(tx *sql.Tx) store.AuthorStore {
	return m
}

// MockBookStore mocks the store.BookStore interface.
type MockBookStore struct {
	mock.Mock
}

func (m *MockBookStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	sort []propmap.SortInstruction,
) ([]domain.Book, error) {
	args := m.Called(ctx, authorID, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookStore) GetForAuthor(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, authorID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookStore) Create(ctx context.Context, book *domain.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockBookStore) Update(ctx context.Context, book *domain.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockBookStore) Delete(ctx context.Context, authorID, bookID uuid.UUID) error {
	return m.Called(ctx, authorID, bookID).Error(0)
}

func (m *MockBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return m
}

func newTestMappings(t *testing.T) *propmap.Registry {
	t.Helper()
	r, err := NewPropertyMappings()
	require.NoError(t, err)
	return r
}

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}
