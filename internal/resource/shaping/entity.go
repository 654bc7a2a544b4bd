package shaping

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entity is an ordered mapping from field name to value.
// The zero value is ready to use.
type Entity struct {
	keys   []string
	values map[string]any
}

// NewEntity returns an empty Entity with room for n fields.
func NewEntity(n int) *Entity {
	return &Entity{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Set stores value under name. A new name is appended after the existing
// fields; an existing name keeps its position.
func (e *Entity) Set(name string, value any) {
	if e.values == nil {
		e.values = make(map[string]any)
	}
	if _, exists := e.values[name]; !exists {
		e.keys = append(e.keys, name)
	}
	e.values[name] = value
}

// Get returns the value stored under name.
func (e *Entity) Get(name string) (any, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Keys returns the field names in order.
func (e *Entity) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Len returns the number of fields.
func (e *Entity) Len() int {
	return len(e.keys)
}

// ShapeFields implements Shapeable.
func (e *Entity) ShapeFields() []Field {
	fields := make([]Field, 0, len(e.keys))
	for _, key := range e.keys {
		value := e.values[key]
		fields = append(fields, Value(key, value))
	}
	return fields
}

// MarshalJSON writes the fields as a JSON object, preserving their order.
func (e *Entity) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		value, err := json.Marshal(e.values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
