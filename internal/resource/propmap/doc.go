// Package propmap translates client-facing sort keys into the storage fields
// they are backed by.
//
// A Mapping is registered once per (source, destination) shape pair at
// startup. Each client key maps to one or more destination fields and may be
// flagged to sort in the opposite direction of what the client asked for,
// e.g. an "age" key backed by a date-of-birth column. The Registry is
// populated before the HTTP server starts and is read-only afterwards, so it
// needs no locking.
package propmap
