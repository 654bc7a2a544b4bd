// Package links builds the hypermedia links attached to API responses.
//
// Link sets are derived only from their inputs: the route templates, the
// current query state and the paging flags computed by package paging. The
// same input always produces the same links in the same order.
package links

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Link relations used for navigation.
const (
	RelSelf         = "self"
	RelNextPage     = "nextPage"
	RelPreviousPage = "previousPage"
)

// Query parameter names owned by the link builder.
const (
	ParamFields     = "fields"
	ParamPageNumber = "pageNumber"
	ParamPageSize   = "pageSize"
)

// IDParam is the placeholder interpolated with the item id.
const IDParam = "id"

// ErrInvalidBaseURL is returned by NewBuilder for a base URL that is not
// absolute.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// Link advertises a related action or navigation target.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Action describes a link emitted for an item besides "self".
type Action struct {
	Rel      string
	Template string
	Method   string
	Params   url.Values
}

// QueryState is the snapshot of the query parameters of a collection request.
// Params holds everything besides the page number and size, e.g. filters,
// orderBy and fields.
type QueryState struct {
	PageNumber int
	PageSize   int
	Params     url.Values
}

// PageKind selects which page a collection URL points to.
type PageKind int

// Page kinds.
const (
	CurrentPage PageKind = iota
	NextPage
	PreviousPage
)

// Builder renders links relative to a base URL. It is immutable and safe
// for concurrent use.
type Builder struct {
	base       string
	pathParams map[string]string
}

// NewBuilder returns a Builder rendering absolute hrefs under baseURL, e.g.
// "https://api.example.com". An empty baseURL renders host-relative hrefs.
func NewBuilder(baseURL string) (*Builder, error) {
	base := strings.TrimRight(baseURL, "/")
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidBaseURL, baseURL)
		}
	}
	return &Builder{base: base}, nil
}

// WithParam returns a copy of b that also interpolates {name} with value in
// every template, e.g. the parent id of a nested resource.
func (b *Builder) WithParam(name, value string) *Builder {
	params := make(map[string]string, len(b.pathParams)+1)
	for k, v := range b.pathParams {
		params[k] = v
	}
	params[name] = value
	return &Builder{base: b.base, pathParams: params}
}

// Href renders template with the builder's path params plus extra, and
// appends the non-empty query values in sorted key order.
func (b *Builder) Href(template string, extra map[string]string, query url.Values) string {
	path := expand(template, b.pathParams, extra)
	if encoded := encodeQuery(query); encoded != "" {
		path += "?" + encoded
	}
	return b.base + path
}

// ForItem returns the links of a single resource: "self" first, then one
// link per action in order. The self link carries the fields parameter only
// when fields is non-empty, so unshaped and fully shaped requests share one
// canonical self link.
func (b *Builder) ForItem(selfTemplate, id, fields string, actions ...Action) []Link {
	idParam := map[string]string{IDParam: id}

	selfQuery := url.Values{}
	if strings.TrimSpace(fields) != "" {
		selfQuery.Set(ParamFields, fields)
	}

	out := make([]Link, 0, len(actions)+1)
	out = append(out, Link{
		Href:   b.Href(selfTemplate, idParam, selfQuery),
		Rel:    RelSelf,
		Method: http.MethodGet,
	})
	for _, action := range actions {
		method := action.Method
		if method == "" {
			method = http.MethodGet
		}
		out = append(out, Link{
			Href:   b.Href(action.Template, idParam, action.Params),
			Rel:    action.Rel,
			Method: method,
		})
	}
	return out
}

// ForCollection returns the navigation links of a collection page: "self",
// then "nextPage" when hasNext, then "previousPage" when hasPrevious.
func (b *Builder) ForCollection(route string, state QueryState, hasNext, hasPrevious bool) []Link {
	out := make([]Link, 0, 3)
	out = append(out, Link{Href: b.PageURL(route, state, CurrentPage), Rel: RelSelf, Method: http.MethodGet})
	if hasNext {
		out = append(out, Link{Href: b.PageURL(route, state, NextPage), Rel: RelNextPage, Method: http.MethodGet})
	}
	if hasPrevious {
		out = append(out, Link{Href: b.PageURL(route, state, PreviousPage), Rel: RelPreviousPage, Method: http.MethodGet})
	}
	return out
}

// PageURL renders the URL of the current, next or previous page. Only the
// page number changes; every other parameter is carried over as is.
func (b *Builder) PageURL(route string, state QueryState, kind PageKind) string {
	pageNumber := state.PageNumber
	switch kind {
	case NextPage:
		pageNumber++
	case PreviousPage:
		pageNumber--
	}

	query := make(url.Values, len(state.Params)+2)
	for k, v := range state.Params {
		query[k] = append([]string(nil), v...)
	}
	query.Set(ParamPageNumber, strconv.Itoa(pageNumber))
	query.Set(ParamPageSize, strconv.Itoa(state.PageSize))

	return b.Href(route, nil, query)
}

func expand(template string, params ...map[string]string) string {
	merged := make(map[string]string)
	for _, p := range params {
		for k, v := range p {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return template
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", url.PathEscape(merged[name]))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// encodeQuery is url.Values.Encode without empty values.
func encodeQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	filtered := make(url.Values, len(query))
	for k, values := range query {
		for _, v := range values {
			if v != "" {
				filtered.Add(k, v)
			}
		}
	}
	return filtered.Encode()
}
