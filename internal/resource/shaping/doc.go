// Package shaping projects resources onto a client-requested subset of their
// fields ("sparse fieldsets").
//
// Types opt in by implementing Shapeable, which lists their fields in
// declaration order together with an accessor for each. The result of a
// projection is an Entity: an ordered field map that serializes to a JSON
// object in the same order and that is itself Shapeable, so projecting an
// Entity again with the same field list returns an equal Entity.
//
// The identity field of a resource is always part of a projection, whether or
// not the client asked for it.
package shaping
