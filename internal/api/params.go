package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/resource/links"
)

// Query parameter names.
const (
	paramGenre       = "genre"
	paramSearchQuery = "searchQuery"
	paramOrderBy     = "orderBy"
)

// Default sort expressions.
const (
	defaultAuthorOrder = "name"
	defaultBookOrder   = "title"
)

// AuthorsResourceParameters are the query parameters of GET /api/authors.
type AuthorsResourceParameters struct {
	PageNumber  int
	PageSize    int
	Genre       string
	SearchQuery string
	OrderBy     string
	Fields      string
}

// parseAuthorsParameters reads the author list query. Missing values take
// their defaults and the page size is capped at limits.MaxPageSize.
func parseAuthorsParameters(q url.Values, limits config.PagingConfig) (AuthorsResourceParameters, error) {
	pageNumber, err := positiveInt(q, links.ParamPageNumber, 1)
	if err != nil {
		return AuthorsResourceParameters{}, err
	}
	pageSize, err := positiveInt(q, links.ParamPageSize, limits.DefaultPageSize)
	if err != nil {
		return AuthorsResourceParameters{}, err
	}
	if limits.MaxPageSize > 0 && pageSize > limits.MaxPageSize {
		pageSize = limits.MaxPageSize
	}

	return AuthorsResourceParameters{
		PageNumber:  pageNumber,
		PageSize:    pageSize,
		Genre:       strings.TrimSpace(q.Get(paramGenre)),
		SearchQuery: strings.TrimSpace(q.Get(paramSearchQuery)),
		OrderBy:     stringOr(q, paramOrderBy, defaultAuthorOrder),
		Fields:      strings.TrimSpace(q.Get(links.ParamFields)),
	}, nil
}

// QueryState snapshots p for link generation.
func (p AuthorsResourceParameters) QueryState() links.QueryState {
	return links.QueryState{
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		Params: url.Values{
			paramGenre:        {p.Genre},
			paramSearchQuery:  {p.SearchQuery},
			paramOrderBy:      {p.OrderBy},
			links.ParamFields: {p.Fields},
		},
	}
}

// BooksResourceParameters are the query parameters of the book list.
type BooksResourceParameters struct {
	OrderBy string
	Fields  string
}

func parseBooksParameters(q url.Values) BooksResourceParameters {
	return BooksResourceParameters{
		OrderBy: stringOr(q, paramOrderBy, defaultBookOrder),
		Fields:  strings.TrimSpace(q.Get(links.ParamFields)),
	}
}

// Query returns the parameters as they appear in self links.
func (p BooksResourceParameters) Query() url.Values {
	return url.Values{
		paramOrderBy:      {p.OrderBy},
		links.ParamFields: {p.Fields},
	}
}

// itemFields returns the trimmed fields parameter of a single-item request.
func itemFields(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get(links.ParamFields))
}

func positiveInt(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", domain.ErrInvalidFormat)
	}
	if n < 1 {
		return 0, domain.NewValidationError(name, "must be positive", nil)
	}
	return n, nil
}

func stringOr(q url.Values, name, def string) string {
	if v := strings.TrimSpace(q.Get(name)); v != "" {
		return v
	}
	return def
}
