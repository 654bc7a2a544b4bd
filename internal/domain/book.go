package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Book-specific validation errors.
var (
	ErrBookIDEmpty       = fmt.Errorf("%w: book ID cannot be empty", ErrValidation)
	ErrBookAuthorIDEmpty = fmt.Errorf("%w: book author ID cannot be empty", ErrValidation)
	ErrBookTitleEmpty    = fmt.Errorf("%w: book title cannot be empty", ErrValidation)
	ErrBookSameTitle     = fmt.Errorf("%w: book description should differ from the title", ErrValidation)
)

// Maximum field lengths, matching the database schema.
const (
	MaxBookTitleLength       = 100
	MaxBookDescriptionLength = 500
)

// Book belongs to exactly one Author.
type Book struct {
	ID          uuid.UUID
	Title       string
	Description string
	AuthorID    uuid.UUID
}

// NewBook creates a Book with a fresh ID for the given author.
func NewBook(authorID uuid.UUID, title, description string) (*Book, error) {
	book := &Book{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		AuthorID:    authorID,
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrBookIDEmpty
	}
	if b.AuthorID == uuid.Nil {
		return ErrBookAuthorIDEmpty
	}
	if b.Title == "" {
		return ErrBookTitleEmpty
	}
	if len(b.Title) > MaxBookTitleLength {
		return NewValidationError("title", "is too long", nil)
	}
	if len(b.Description) > MaxBookDescriptionLength {
		return NewValidationError("description", "is too long", nil)
	}
	if b.Description != "" && strings.EqualFold(b.Title, b.Description) {
		return ErrBookSameTitle
	}
	return nil
}
