package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/store"
)

// sortColumns whitelists the domain field names a table can be ordered by
// and maps them to column names. Nothing else is ever interpolated into an
// ORDER BY clause.
type sortColumns map[string]string

// orderBy renders an ORDER BY clause for instructions. The fallback columns
// are used when instructions is empty, and tiebreak is always appended so
// that paging is stable.
func (c sortColumns) orderBy(instructions []propmap.SortInstruction, fallback []string, tiebreak string) (string, error) {
	terms := make([]string, 0, len(instructions)+1)
	seen := make(map[string]bool, len(instructions)+1)

	for _, in := range instructions {
		column, ok := c[in.Field]
		if !ok {
			return "", fmt.Errorf("%w: cannot sort by %q", store.ErrInvalidEntity, in.Field)
		}
		if seen[column] {
			continue
		}
		seen[column] = true

		direction := "ASC"
		if in.Descending {
			direction = "DESC"
		}
		terms = append(terms, column+" "+direction)
	}

	if len(terms) == 0 {
		for _, column := range fallback {
			seen[column] = true
			terms = append(terms, column+" ASC")
		}
	}
	if !seen[tiebreak] {
		terms = append(terms, tiebreak+" ASC")
	}

	return "ORDER BY " + strings.Join(terms, ", "), nil
}

// likePattern escapes the LIKE wildcards in s and wraps it for a
// "contains" match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
