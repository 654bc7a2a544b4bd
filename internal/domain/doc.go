// Package domain contains the library's core entities, authors and their
// books, together with their validation rules. It is independent of storage
// and of the HTTP representation of the entities.
package domain
