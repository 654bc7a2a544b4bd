package propmap

import (
	"fmt"
	"strings"
)

type shapePair struct {
	source      Shape
	destination Shape
}

// Registry holds at most one Mapping per (source, destination) pair.
// Register is meant to be called during startup only; after that the
// Registry is safe for concurrent reads.
type Registry struct {
	mappings map[shapePair]*Mapping
}

// NewRegistry creates a Registry and registers every mapping given.
// It returns ErrConfiguration on the first duplicate pair.
func NewRegistry(mappings ...*Mapping) (*Registry, error) {
	r := &Registry{mappings: make(map[shapePair]*Mapping, len(mappings))}
	for _, m := range mappings {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds m to the registry. A second mapping for the same pair is
// rejected with ErrConfiguration.
func (r *Registry) Register(m *Mapping) error {
	if m == nil {
		return fmt.Errorf("%w: nil mapping", ErrConfiguration)
	}
	key := shapePair{source: m.source, destination: m.destination}
	if _, exists := r.mappings[key]; exists {
		return fmt.Errorf("%w: mapping for <%s, %s> already registered",
			ErrConfiguration, m.source, m.destination)
	}
	r.mappings[key] = m
	return nil
}

// GetMapping returns the single mapping registered for the pair, or
// ErrConfiguration when there is none.
func (r *Registry) GetMapping(source, destination Shape) (*Mapping, error) {
	m, ok := r.mappings[shapePair{source: source, destination: destination}]
	if !ok {
		return nil, fmt.Errorf("%w: cannot find exact property mapping instance for <%s, %s>",
			ErrConfiguration, source, destination)
	}
	return m, nil
}

// IsValidSortExpression reports whether every clause of expression names a
// key in the <source, destination> mapping. An empty expression is valid.
// It never returns an error; an unregistered pair makes any non-empty
// expression invalid.
func (r *Registry) IsValidSortExpression(source, destination Shape, expression string) bool {
	if strings.TrimSpace(expression) == "" {
		return true
	}
	m, err := r.GetMapping(source, destination)
	if err != nil {
		return false
	}
	_, err = m.Resolve(expression)
	return err == nil
}

// Resolve expands expression using the <source, destination> mapping.
func (r *Registry) Resolve(source, destination Shape, expression string) ([]SortInstruction, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	m, err := r.GetMapping(source, destination)
	if err != nil {
		return nil, err
	}
	return m.Resolve(expression)
}
