// Package service contains the application use cases for authors and books.
//
// Services coordinate the store interfaces, resolve client sort expressions
// through the property mapping registry and build pages with package paging.
// They never depend on a specific store implementation. Operations that span
// several writes run in a single database transaction via
// store.RunInTransaction.
//
// Errors follow one rule: expected conditions come back as the sentinels in
// errors.go (or domain validation errors), everything else is wrapped in a
// ServiceError that the API layer reports as an internal error.
package service
