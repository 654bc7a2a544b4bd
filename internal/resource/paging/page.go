// Package paging describes one page of an ordered result set together with
// the metadata clients need to navigate it.
package paging

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPage is returned when page parameters are out of range.
var ErrInvalidPage = errors.New("invalid page parameters")

// Page is an immutable page of items. Derived values are computed on demand.
type Page[T any] struct {
	items       []T
	totalCount  int
	pageSize    int
	currentPage int
}

// New wraps an already-sliced page. totalCount is the size of the whole
// result set, counted separately by the caller.
func New[T any](items []T, totalCount, pageNumber, pageSize int) (*Page[T], error) {
	if err := validate(pageNumber, pageSize); err != nil {
		return nil, err
	}
	if totalCount < 0 {
		return nil, fmt.Errorf("%w: total count must not be negative, got %d", ErrInvalidPage, totalCount)
	}
	if want := expectedLen(totalCount, pageNumber, pageSize); len(items) != want {
		return nil, fmt.Errorf("%w: page %d of size %d over %d items must hold %d items, got %d",
			ErrInvalidPage, pageNumber, pageSize, totalCount, want, len(items))
	}

	return &Page[T]{
		items:       append([]T(nil), items...),
		totalCount:  totalCount,
		pageSize:    pageSize,
		currentPage: pageNumber,
	}, nil
}

// FromSlice pages over a fully materialized, ordered source. A page past the
// end yields no items rather than an error.
func FromSlice[T any](source []T, pageNumber, pageSize int) (*Page[T], error) {
	if err := validate(pageNumber, pageSize); err != nil {
		return nil, err
	}

	start, end := Bounds(len(source), pageNumber, pageSize)
	return &Page[T]{
		items:       append([]T(nil), source[start:end]...),
		totalCount:  len(source),
		pageSize:    pageSize,
		currentPage: pageNumber,
	}, nil
}

// Map converts the items of p with fn, keeping the paging metadata.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, len(p.items))
	for i, item := range p.items {
		items[i] = fn(item)
	}
	return &Page[U]{
		items:       items,
		totalCount:  p.totalCount,
		pageSize:    p.pageSize,
		currentPage: p.currentPage,
	}
}

// Offset returns the number of items preceding the page, as used by
// LIMIT/OFFSET queries. It returns ErrInvalidPage for non-positive input.
// An offset that does not fit in an int is clamped to math.MaxInt, which
// still selects nothing.
func Offset(pageNumber, pageSize int) (int, error) {
	if err := validate(pageNumber, pageSize); err != nil {
		return 0, err
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		return math.MaxInt, nil
	}
	return (pageNumber - 1) * pageSize, nil
}

// Bounds returns the [start, end) slice bounds of a page over total items,
// clamped to the source.
func Bounds(total, pageNumber, pageSize int) (int, int) {
	total = max(total, 0)
	// Compare before multiplying so huge page numbers cannot overflow.
	if pageNumber < 1 || pageSize < 1 || pageNumber-1 > total/pageSize {
		return total, total
	}
	start := min((pageNumber-1)*pageSize, total)
	end := start + min(pageSize, total-start)
	return start, end
}

func expectedLen(total, pageNumber, pageSize int) int {
	start, end := Bounds(total, pageNumber, pageSize)
	return end - start
}

func validate(pageNumber, pageSize int) error {
	if pageNumber <= 0 {
		return fmt.Errorf("%w: page number must be positive, got %d", ErrInvalidPage, pageNumber)
	}
	if pageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidPage, pageSize)
	}
	return nil
}

// Items returns a copy of the items on the page.
func (p *Page[T]) Items() []T { return append([]T(nil), p.items...) }

// Len returns the number of items on the page.
func (p *Page[T]) Len() int { return len(p.items) }

// TotalCount returns the size of the whole result set.
func (p *Page[T]) TotalCount() int { return p.totalCount }

// PageSize returns the maximum number of items per page.
func (p *Page[T]) PageSize() int { return p.pageSize }

// CurrentPage returns the 1-based page number.
func (p *Page[T]) CurrentPage() int { return p.currentPage }

// TotalPages returns ceil(TotalCount / PageSize).
func (p *Page[T]) TotalPages() int {
	if p.totalCount == 0 {
		return 0
	}
	return (p.totalCount-1)/p.pageSize + 1
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool { return p.currentPage > 1 }

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool { return p.currentPage < p.TotalPages() }
