package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/resource/links"
	"github.com/phrazzld/library-api/internal/resource/paging"
	"github.com/phrazzld/library-api/internal/service"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:8080"

var testNow = time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC)

// MockAuthorService is a testify mock of service.AuthorService.
type MockAuthorService struct {
	mock.Mock
}

func (m *MockAuthorService) ListAuthors(ctx context.Context, params service.AuthorListParams) (*paging.Page[domain.Author], error) {
	args := m.Called(ctx, params)
	page, _ := args.Get(0).(*paging.Page[domain.Author])
	return page, args.Error(1)
}

func (m *MockAuthorService) GetAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	args := m.Called(ctx, id)
	author, _ := args.Get(0).(*domain.Author)
	return author, args.Error(1)
}

func (m *MockAuthorService) CreateAuthor(ctx context.Context, input service.AuthorInput) (*domain.Author, error) {
	args := m.Called(ctx, input)
	author, _ := args.Get(0).(*domain.Author)
	return author, args.Error(1)
}

func (m *MockAuthorService) CreateAuthorCollection(ctx context.Context, inputs []service.AuthorInput) ([]domain.Author, error) {
	args := m.Called(ctx, inputs)
	authors, _ := args.Get(0).([]domain.Author)
	return authors, args.Error(1)
}

func (m *MockAuthorService) GetAuthorCollection(ctx context.Context, ids []uuid.UUID) ([]domain.Author, error) {
	args := m.Called(ctx, ids)
	authors, _ := args.Get(0).([]domain.Author)
	return authors, args.Error(1)
}

func (m *MockAuthorService) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAuthorService) AuthorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockBookService is a testify mock of service.BookService.
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) ListBooks(ctx context.Context, authorID uuid.UUID, orderBy string) ([]domain.Book, error) {
	args := m.Called(ctx, authorID, orderBy)
	books, _ := args.Get(0).([]domain.Book)
	return books, args.Error(1)
}

func (m *MockBookService) GetBook(ctx context.Context, authorID, bookID uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, authorID, bookID)
	book, _ := args.Get(0).(*domain.Book)
	return book, args.Error(1)
}

func (m *MockBookService) CreateBook(ctx context.Context, authorID uuid.UUID, input service.BookInput) (*domain.Book, error) {
	args := m.Called(ctx, authorID, input)
	book, _ := args.Get(0).(*domain.Book)
	return book, args.Error(1)
}

func (m *MockBookService) UpsertBook(
	ctx context.Context,
	authorID, bookID uuid.UUID,
	input service.BookInput,
) (*domain.Book, bool, error) {
	args := m.Called(ctx, authorID, bookID, input)
	book, _ := args.Get(0).(*domain.Book)
	return book, args.Bool(1), args.Error(2)
}

func (m *MockBookService) DeleteBook(ctx context.Context, authorID, bookID uuid.UUID) error {
	return m.Called(ctx, authorID, bookID).Error(0)
}

// testAPI bundles a router wired to mocked services.
type testAPI struct {
	router  http.Handler
	authors *MockAuthorService
	books   *MockBookService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mappings, err := service.NewPropertyMappings()
	require.NoError(t, err)
	builder, err := links.NewBuilder(testBaseURL)
	require.NoError(t, err)
	log, _ := logger.NewTestLogger(t)

	authors := &MockAuthorService{}
	books := &MockBookService{}
	t.Cleanup(func() {
		authors.AssertExpectations(t)
		books.AssertExpectations(t)
	})

	authorHandler := NewAuthorHandler(authors, mappings, builder,
		config.PagingConfig{DefaultPageSize: 10, MaxPageSize: 20}, log)
	authorHandler.now = func() time.Time { return testNow }
	bookHandler := NewBookHandler(books, mappings, builder, log)
	collectionHandler := NewAuthorCollectionHandler(authors, builder, log)
	collectionHandler.now = func() time.Time { return testNow }

	r := chi.NewRouter()
	RegisterRoutes(r, authorHandler, bookHandler, collectionHandler)

	return &testAPI{router: r, authors: authors, books: books}
}

func testAuthor(first, last, genre string, born time.Time) domain.Author {
	return domain.Author{
		ID:          uuid.New(),
		FirstName:   first,
		LastName:    last,
		Genre:       genre,
		DateOfBirth: born,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
