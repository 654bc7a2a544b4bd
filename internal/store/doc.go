// Package store defines the persistence interfaces for authors and books.
// Implementations receive already-validated sort instructions and return
// one page of results plus the total count, so paging and sorting happen in
// the database rather than in memory.
package store
