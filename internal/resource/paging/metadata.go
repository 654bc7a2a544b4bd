package paging

import (
	"bytes"
	"encoding/json"
	"strings"
)

// HeaderName is the response header carrying pagination metadata.
const HeaderName = "X-Pagination"

// Metadata is the serialized form of a page's navigation data. The link
// fields are filled in by the HTTP layer.
type Metadata struct {
	TotalCount       int    `json:"totalCount"`
	PageSize         int    `json:"pageSize"`
	CurrentPage      int    `json:"currentPage"`
	TotalPages       int    `json:"totalPages"`
	PreviousPageLink string `json:"previousPageLink,omitempty"`
	NextPageLink     string `json:"nextPageLink,omitempty"`
}

// Metadata returns the navigation data of p without links.
func (p *Page[T]) Metadata() Metadata {
	return Metadata{
		TotalCount:  p.totalCount,
		PageSize:    p.pageSize,
		CurrentPage: p.currentPage,
		TotalPages:  p.TotalPages(),
	}
}

// HeaderValue renders m as the JSON value of the X-Pagination header.
func (m Metadata) HeaderValue() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
