package propmap

import "errors"

var (
	// ErrConfiguration is returned when mappings are registered or looked up
	// inconsistently. It indicates a programming error and should abort
	// startup rather than be handled per request.
	ErrConfiguration = errors.New("property mapping configuration error")

	// ErrUnknownSortKey is returned when a sort expression references a key
	// that is not present in the mapping. It is a client error.
	ErrUnknownSortKey = errors.New("unknown sort key")

	// ErrInvalidSortClause is returned when a sort clause has an unrecognised
	// direction token or too many tokens. It is a client error.
	ErrInvalidSortClause = errors.New("invalid sort clause")
)
