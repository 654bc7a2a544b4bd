package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Author-specific validation errors.
var (
	ErrAuthorIDEmpty        = fmt.Errorf("%w: author ID cannot be empty", ErrValidation)
	ErrAuthorFirstNameEmpty = fmt.Errorf("%w: author first name cannot be empty", ErrValidation)
	ErrAuthorLastNameEmpty  = fmt.Errorf("%w: author last name cannot be empty", ErrValidation)
	ErrAuthorGenreEmpty     = fmt.Errorf("%w: author genre cannot be empty", ErrValidation)
	ErrAuthorBirthDate      = fmt.Errorf("%w: author date of birth must be set and not in the future", ErrValidation)
)

// Maximum field lengths, matching the database schema.
const (
	MaxAuthorNameLength  = 50
	MaxAuthorGenreLength = 50
)

// Author is a writer in the library catalogue.
type Author struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Genre       string
	Books       []Book
}

// NewAuthor creates an Author with a fresh ID. Returns an error if
// validation fails.
func NewAuthor(firstName, lastName, genre string, dateOfBirth time.Time) (*Author, error) {
	author := &Author{
		ID:          uuid.New(),
		FirstName:   strings.TrimSpace(firstName),
		LastName:    strings.TrimSpace(lastName),
		DateOfBirth: dateOfBirth.UTC(),
		Genre:       strings.TrimSpace(genre),
	}

	if err := author.Validate(); err != nil {
		return nil, err
	}

	return author, nil
}

// Validate checks if the Author has valid data.
func (a *Author) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAuthorIDEmpty
	}
	if a.FirstName == "" {
		return ErrAuthorFirstNameEmpty
	}
	if a.LastName == "" {
		return ErrAuthorLastNameEmpty
	}
	if a.Genre == "" {
		return ErrAuthorGenreEmpty
	}
	if len(a.FirstName) > MaxAuthorNameLength {
		return NewValidationError("firstName", "is too long", nil)
	}
	if len(a.LastName) > MaxAuthorNameLength {
		return NewValidationError("lastName", "is too long", nil)
	}
	if len(a.Genre) > MaxAuthorGenreLength {
		return NewValidationError("genre", "is too long", nil)
	}
	if a.DateOfBirth.IsZero() || a.DateOfBirth.After(time.Now()) {
		return ErrAuthorBirthDate
	}
	return nil
}

// Name returns the author's full name.
func (a *Author) Name() string {
	return a.FirstName + " " + a.LastName
}

// AgeAt returns the author's age in whole years at the given instant.
func (a *Author) AgeAt(now time.Time) int {
	dob := a.DateOfBirth.UTC()
	now = now.UTC()

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
