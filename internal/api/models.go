package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/resource/links"
	"github.com/phrazzld/library-api/internal/resource/shaping"
	"github.com/phrazzld/library-api/internal/service"
)

// DateLayout is the wire format of dates in request bodies.
const DateLayout = "2006-01-02"

// AuthorDTO is the public representation of an author.
type AuthorDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Age   int       `json:"age"`
	Genre string    `json:"genre"`
}

// ShapeFields implements shaping.Shapeable.
func (a AuthorDTO) ShapeFields() []shaping.Field {
	return []shaping.Field{
		shaping.Value("id", a.ID),
		shaping.Value("name", a.Name),
		shaping.Value("age", a.Age),
		shaping.Value("genre", a.Genre),
	}
}

// NewAuthorDTO converts a domain author. The age is computed at now.
func NewAuthorDTO(a domain.Author, now time.Time) AuthorDTO {
	return AuthorDTO{
		ID:    a.ID,
		Name:  a.Name(),
		Age:   a.AgeAt(now),
		Genre: a.Genre,
	}
}

// BookDTO is the public representation of a book.
type BookDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorID    uuid.UUID `json:"authorId"`
}

// ShapeFields implements shaping.Shapeable.
func (b BookDTO) ShapeFields() []shaping.Field {
	return []shaping.Field{
		shaping.Value("id", b.ID),
		shaping.Value("title", b.Title),
		shaping.Value("description", b.Description),
		shaping.Value("authorId", b.AuthorID),
	}
}

// NewBookDTO converts a domain book.
func NewBookDTO(b domain.Book) BookDTO {
	return BookDTO{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		AuthorID:    b.AuthorID,
	}
}

// AuthorForCreation is the payload of POST /api/authors.
type AuthorForCreation struct {
	FirstName   string            `json:"firstName"   validate:"required,max=50"`
	LastName    string            `json:"lastName"    validate:"required,max=50"`
	DateOfBirth string            `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Genre       string            `json:"genre"       validate:"required,max=50"`
	Books       []BookForCreation `json:"books"       validate:"omitempty,dive"`
}

// ToInput converts the validated payload into service input.
func (a AuthorForCreation) ToInput() (service.AuthorInput, error) {
	dob, err := time.Parse(DateLayout, strings.TrimSpace(a.DateOfBirth))
	if err != nil {
		return service.AuthorInput{}, domain.NewValidationError("dateOfBirth", "must be a date in YYYY-MM-DD format", domain.ErrInvalidFormat)
	}

	books := make([]service.BookInput, 0, len(a.Books))
	for _, b := range a.Books {
		books = append(books, b.ToInput())
	}

	return service.AuthorInput{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: dob,
		Genre:       a.Genre,
		Books:       books,
	}, nil
}

// BookForCreation is the payload of POST /api/authors/{authorId}/books and
// of the books nested in AuthorForCreation.
type BookForCreation struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// ToInput converts the payload into service input.
func (b BookForCreation) ToInput() service.BookInput {
	return service.BookInput{Title: b.Title, Description: b.Description}
}

// BookForUpdate is the payload of PUT /api/authors/{authorId}/books/{id}.
// A full update requires the description.
type BookForUpdate struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=500"`
}

// ToInput converts the payload into service input.
func (b BookForUpdate) ToInput() service.BookInput {
	return service.BookInput{Title: b.Title, Description: b.Description}
}

// LinkedCollection is the envelope of shaped collections.
type LinkedCollection struct {
	Value []*shaping.Entity `json:"value"`
	Links []links.Link      `json:"links"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
