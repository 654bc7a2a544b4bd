package propmap

import (
	"fmt"
	"strings"
)

// Shape tags a resource representation, e.g. the wire DTO or the stored entity.
type Shape string

// Value is the target of a single client sort key.
type Value struct {
	destinationFields []string
	revert            bool
}

// NewValue creates a Value sorting by fields in order. When revert is true,
// the fields are sorted in the opposite direction of the requested one.
func NewValue(revert bool, fields ...string) Value {
	return Value{
		destinationFields: append([]string(nil), fields...),
		revert:            revert,
	}
}

// DestinationFields returns a copy of the underlying field names.
func (v Value) DestinationFields() []string {
	return append([]string(nil), v.destinationFields...)
}

// Revert reports whether the sort direction is inverted for this key.
func (v Value) Revert() bool {
	return v.revert
}

// Mapping holds the sort-key table for one (source, destination) pair.
// Keys are matched case-insensitively.
type Mapping struct {
	source      Shape
	destination Shape
	entries     map[string]Value
}

// NewMapping builds a Mapping from client key to Value. It fails with
// ErrConfiguration if a value has no destination fields or two keys differ
// only by case.
func NewMapping(source, destination Shape, entries map[string]Value) (*Mapping, error) {
	if source == "" || destination == "" {
		return nil, fmt.Errorf("%w: mapping shapes must be named", ErrConfiguration)
	}

	m := &Mapping{
		source:      source,
		destination: destination,
		entries:     make(map[string]Value, len(entries)),
	}
	for key, value := range entries {
		normalized := normalizeKey(key)
		if normalized == "" {
			return nil, fmt.Errorf("%w: empty sort key in <%s, %s>", ErrConfiguration, source, destination)
		}
		if len(value.destinationFields) == 0 {
			return nil, fmt.Errorf("%w: sort key %q in <%s, %s> has no destination fields",
				ErrConfiguration, key, source, destination)
		}
		for _, field := range value.destinationFields {
			if strings.TrimSpace(field) == "" {
				return nil, fmt.Errorf("%w: sort key %q in <%s, %s> has an empty destination field",
					ErrConfiguration, key, source, destination)
			}
		}
		if _, exists := m.entries[normalized]; exists {
			return nil, fmt.Errorf("%w: sort key %q declared twice in <%s, %s>",
				ErrConfiguration, key, source, destination)
		}
		m.entries[normalized] = value
	}

	return m, nil
}

// Source returns the shape clients sort by.
func (m *Mapping) Source() Shape { return m.source }

// Destination returns the shape the mapping resolves to.
func (m *Mapping) Destination() Shape { return m.destination }

// Lookup returns the Value for key, ignoring case.
func (m *Mapping) Lookup(key string) (Value, bool) {
	v, ok := m.entries[normalizeKey(key)]
	return v, ok
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
