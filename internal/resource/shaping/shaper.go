package shaping

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultIdentityField is the identity field name used when a Shapeable does
// not implement Identifiable.
const DefaultIdentityField = "id"

// ErrFieldNotFound is matched by every *FieldNotFoundError.
var ErrFieldNotFound = errors.New("field not found")

// FieldNotFoundError reports a requested field that the resource does not have.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found", e.Field)
}

// Is makes errors.Is(err, ErrFieldNotFound) true.
func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}

// Field is a named accessor on a shapeable resource.
type Field struct {
	Name string
	Get  func() any
}

// Value returns a Field that always yields v.
func Value(name string, v any) Field {
	return Field{Name: name, Get: func() any { return v }}
}

// Shapeable is implemented by types that can be projected. ShapeFields lists
// every publicly exposed field in declaration order.
type Shapeable interface {
	ShapeFields() []Field
}

// Identifiable lets a Shapeable name its identity field when it is not
// DefaultIdentityField.
type Identifiable interface {
	IdentityField() string
}

func identityField(source Shapeable) string {
	if id, ok := source.(Identifiable); ok {
		return id.IdentityField()
	}
	return DefaultIdentityField
}

// splitFields splits a comma separated field list, dropping empty tokens.
func splitFields(fields string) []string {
	var tokens []string
	for _, raw := range strings.Split(fields, ",") {
		if token := strings.TrimSpace(raw); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// selectFields resolves the requested tokens against the fields of source.
// The identity field is prepended when it was not requested.
func selectFields(source Shapeable, fields string) ([]Field, error) {
	all := source.ShapeFields()
	id := identityField(source)

	index := make(map[string]Field, len(all))
	for _, f := range all {
		key := strings.ToLower(f.Name)
		if _, exists := index[key]; !exists {
			index[key] = f
		}
	}

	idField, ok := index[strings.ToLower(id)]
	if !ok {
		return nil, &FieldNotFoundError{Field: id}
	}

	tokens := splitFields(fields)
	if len(tokens) == 0 {
		return all, nil
	}

	selected := make([]Field, 0, len(tokens)+1)
	seen := make(map[string]bool, len(tokens)+1)
	for _, token := range tokens {
		key := strings.ToLower(token)
		f, ok := index[key]
		if !ok {
			return nil, &FieldNotFoundError{Field: token}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, f)
	}

	if !seen[strings.ToLower(idField.Name)] {
		selected = append([]Field{idField}, selected...)
	}
	return selected, nil
}

// Shape projects source onto fields, a comma separated, case-insensitive
// field list. An empty list selects every field in declaration order.
// Values are stored under the field's declared name. It returns a
// *FieldNotFoundError when a requested field does not exist.
func Shape(source Shapeable, fields string) (*Entity, error) {
	selected, err := selectFields(source, fields)
	if err != nil {
		return nil, err
	}

	entity := NewEntity(len(selected))
	for _, f := range selected {
		entity.Set(f.Name, f.Get())
	}
	return entity, nil
}

// ShapeMany shapes every source with the same field list, keeping order.
// The first failure aborts the whole projection.
func ShapeMany[T Shapeable](sources []T, fields string) ([]*Entity, error) {
	entities := make([]*Entity, 0, len(sources))
	for i, source := range sources {
		entity, err := Shape(source, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to shape item %d: %w", i, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// TypeHasProperties reports whether every field in fields exists on source.
// It is true for an empty field list and never fails. It only checks the
// requested names; a missing identity field is reported by Shape.
func TypeHasProperties(source Shapeable, fields string) bool {
	tokens := splitFields(fields)
	if len(tokens) == 0 {
		return true
	}

	names := make(map[string]bool)
	for _, f := range source.ShapeFields() {
		names[strings.ToLower(f.Name)] = true
	}
	for _, token := range tokens {
		if !names[strings.ToLower(token)] {
			return false
		}
	}
	return true
}
