package service

import (
	"context"
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

type bookFixture struct {
	svc     BookService
	authors *MockAuthorStore
	books   *MockBookStore
	db      sqlmock.Sqlmock
}

func newBookFixture(t *testing.T) *bookFixture {
	t.Helper()
	db, sqlMock := newTestDB(t)
	authors := &MockAuthorStore{}
	books := &MockBookStore{}
	t.Cleanup(func() {
		authors.AssertExpectations(t)
		books.AssertExpectations(t)
	})

	svc, err := NewBookService(db, authors, books, newTestMappings(t), nil)
	require.NoError(t, err)
	return &bookFixture{svc: svc, authors: authors, books: books, db: sqlMock}
}

func TestListBooks(t *testing.T) {
	f := newBookFixture(t)
	authorID := uuid.New()
	books := []domain.Book{{ID: uuid.New(), Title: "The Stand", AuthorID: authorID}}

	f.authors.On("Exists", mock.Anything, authorID).Return(true, nil)
	f.books.On("ListByAuthor", mock.Anything, authorID,
		[]propmap.SortInstruction{{Field: "Title", Descending: true}}).Return(books, nil)

	got, err := f.svc.ListBooks(context.Background(), authorID, "title desc")

	require.NoError(t, err)
	assert.Equal(t, books, got)
}

func TestListBooksUnknownAuthorOrSortKey(t *testing.T) {
	f := newBookFixture(t)
	authorID := uuid.New()

	_, err := f.svc.ListBooks(context.Background(), authorID, "pages")
	assert.ErrorIs(t, err, propmap.ErrUnknownSortKey)

	f.authors.On("Exists", mock.Anything, authorID).Return(false, nil)
	_, err = f.svc.ListBooks(context.Background(), authorID, "")
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestGetBook(t *testing.T) {
	f := newBookFixture(t)
	authorID, bookID := uuid.New(), uuid.New()

	f.authors.On("Exists", mock.Anything, authorID).Return(true, nil)
	f.books.On("GetForAuthor", mock.Anything, authorID, bookID).Return(nil, store.ErrBookNotFound)

	_, err := f.svc.GetBook(context.Background(), authorID, bookID)

	assert.Equal(t, ErrBookNotFound, err)
}

func TestCreateBook(t *testing.T) {
	f := newBookFixture(t)
	authorID := uuid.New()

	f.authors.On("Exists", mock.Anything, authorID).Return(true, nil)
	f.books.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Book) bool {
		return b.AuthorID == authorID && b.Title == "Misery"
	})).Return(nil)

	book, err := f.svc.CreateBook(context.Background(), authorID, BookInput{Title: " Misery ", Description: "Horror"})

	require.NoError(t, err)
	assert.Equal(t, "Misery", book.Title)
	assert.NotEqual(t, uuid.Nil, book.ID)

	_, err = f.svc.CreateBook(context.Background(), authorID, BookInput{Title: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpsertBookUpdatesExisting(t *testing.T) {
	f := newBookFixture(t)
	authorID, bookID := uuid.New(), uuid.New()
	f.db.ExpectBegin()
	f.db.ExpectCommit()

	f.authors.On("Exists", mock.Anything, authorID).Return(true, nil)
	f.books.On("GetForAuthor", mock.Anything, authorID, bookID).
		Return(&domain.Book{ID: bookID, AuthorID: authorID, Title: "Old"}, nil)
	f.books.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Book) bool {
		return b.ID == bookID && b.Title == "New" && b.Description == "Updated"
	})).Return(nil)

	book, created, err := f.svc.UpsertBook(context.Background(), authorID, bookID,
		BookInput{Title: "New", Description: "Updated"})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, bookID, book.ID)
}

func TestUpsertBookCreatesMissing(t *testing.T) {
	f := newBookFixture(t)
	authorID, bookID := uuid.New(), uuid.New()
	f.db.ExpectBegin()
	f.db.ExpectCommit()

	f.authors.On("Exists", mock.Anything, authorID).Return(true, nil)
	f.books.On("GetForAuthor", mock.Anything, authorID, bookID).Return(nil, store.ErrBookNotFound)
	f.books.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Book) bool {
		return b.ID == bookID
	})).Return(nil)

	book, created, err := f.svc.UpsertBook(context.Background(), authorID, bookID,
		BookInput{Title: "Fresh", Description: "Brand new"})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, bookID, book.ID)
}

func TestUpsertBookMissingAuthorRollsBack(t *testing.T) {
	f := newBookFixture(t)
	authorID := uuid.New()
	f.db.ExpectBegin()
	f.db.ExpectRollback()

	f.authors.On("Exists", mock.Anything, authorID).Return(false, nil)

	_, _, err := f.svc.UpsertBook(context.Background(), authorID, uuid.New(),
		BookInput{Title: "T", Description: "D"})

	assert.Equal(t, ErrAuthorNotFound, err)
}

func TestDeleteBook(t *testing.T) {
	f := newBookFixture(t)
	authorID, bookID := uuid.New(), uuid.New()

	f.authors.On("Exists", mock.Anything, authorID).Return(true, nil)
	f.books.On("Delete", mock.Anything, authorID, bookID).Return(store.ErrBookNotFound)

	assert.Equal(t, ErrBookNotFound, f.svc.DeleteBook(context.Background(), authorID, bookID))
}

func TestPropertyMappings(t *testing.T) {
	r := newTestMappings(t)

	for _, key := range []string{"id", "Name", "AGE desc", "genre asc"} {
		assert.True(t, r.IsValidSortExpression(AuthorResource, AuthorEntity, key), key)
	}
	for _, key := range []string{"title", "authorId desc", "Description"} {
		assert.True(t, r.IsValidSortExpression(BookResource, BookEntity, key), key)
	}
	assert.False(t, r.IsValidSortExpression(AuthorResource, AuthorEntity, "firstName"))
	assert.False(t, r.IsValidSortExpression(BookResource, AuthorEntity, "title"))
}
