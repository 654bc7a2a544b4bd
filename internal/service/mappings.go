package service

import "github.com/phrazzld/library-api/internal/resource/propmap"

// Shapes registered in the property mapping registry. The resource shapes
// name the fields clients see; the entity shapes name domain fields.
const (
	AuthorResource propmap.Shape = "AuthorDto"
	AuthorEntity   propmap.Shape = "Author"
	BookResource   propmap.Shape = "BookDto"
	BookEntity     propmap.Shape = "Book"
)

// NewPropertyMappings builds the registry used to validate and resolve
// orderBy expressions. It is built once at startup; an error here is a
// programming mistake and aborts the process.
func NewPropertyMappings() (*propmap.Registry, error) {
	authors, err := propmap.NewMapping(AuthorResource, AuthorEntity, map[string]propmap.Value{
		"id":    propmap.NewValue(false, "ID"),
		"genre": propmap.NewValue(false, "Genre"),
		// Older authors have earlier birth dates.
		"age":  propmap.NewValue(true, "DateOfBirth"),
		"name": propmap.NewValue(false, "FirstName", "LastName"),
	})
	if err != nil {
		return nil, err
	}

	books, err := propmap.NewMapping(BookResource, BookEntity, map[string]propmap.Value{
		"id":          propmap.NewValue(false, "ID"),
		"title":       propmap.NewValue(false, "Title"),
		"description": propmap.NewValue(false, "Description"),
		"authorId":    propmap.NewValue(false, "AuthorID"),
	})
	if err != nil {
		return nil, err
	}

	return propmap.NewRegistry(authors, books)
}
