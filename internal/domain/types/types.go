// Package types contains common types used across the engine.
package types

// EntityID is an opaque key identifying a team or participant. Entities are
// created lazily on first touch and persist for the process lifetime; there
// is no removal operation.
type EntityID string

func (id EntityID) String() string { return string(id) }
