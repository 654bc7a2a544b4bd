package propmap

import (
	"fmt"
	"strings"
)

// SortInstruction orders results by a single destination field.
type SortInstruction struct {
	Field      string
	Descending bool
}

// String renders the instruction as "Field asc" or "Field desc".
func (s SortInstruction) String() string {
	if s.Descending {
		return s.Field + " desc"
	}
	return s.Field + " asc"
}

type sortClause struct {
	key        string
	descending bool
}

// parseSortExpression splits a comma separated expression such as
// "name, age desc" into clauses. Empty clauses are skipped.
func parseSortExpression(expression string) ([]sortClause, error) {
	var clauses []sortClause
	for _, raw := range strings.Split(expression, ",") {
		tokens := strings.Fields(raw)
		switch len(tokens) {
		case 0:
			continue
		case 1:
			clauses = append(clauses, sortClause{key: tokens[0]})
		case 2:
			switch strings.ToLower(tokens[1]) {
			case "desc":
				clauses = append(clauses, sortClause{key: tokens[0], descending: true})
			case "asc":
				clauses = append(clauses, sortClause{key: tokens[0]})
			default:
				return nil, fmt.Errorf("%w: %q", ErrInvalidSortClause, strings.TrimSpace(raw))
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortClause, strings.TrimSpace(raw))
		}
	}
	return clauses, nil
}

// Resolve turns expression into ordered sort instructions. Each clause
// expands to its destination fields in declaration order; a reverting key
// flips the requested direction.
func (m *Mapping) Resolve(expression string) ([]SortInstruction, error) {
	clauses, err := parseSortExpression(expression)
	if err != nil {
		return nil, err
	}

	var instructions []SortInstruction
	for _, clause := range clauses {
		value, ok := m.Lookup(clause.key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, clause.key)
		}
		descending := clause.descending != value.revert
		for _, field := range value.destinationFields {
			instructions = append(instructions, SortInstruction{Field: field, Descending: descending})
		}
	}
	return instructions, nil
}
