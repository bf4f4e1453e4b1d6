// Package repository defines the sample history store interface and errors.
//
// The store keeps a bounded window of recent performance samples per entity,
// ordered oldest to newest, feeding the indicator computations.
package repository

import (
	"context"

	"github.com/okian/formguide/internal/domain/types"
)

// Store provides read/write access to per-entity sample history.
type Store interface {
	// Append records a new sample for the entity, evicting the oldest one
	// once the window is full.
	Append(ctx context.Context, id types.EntityID, value float64)

	// Series returns the entity's samples ordered oldest to newest.
	// Returns ErrNotFound if the entity has no recorded samples.
	Series(ctx context.Context, id types.EntityID) ([]float64, error)

	// Count returns the number of entities with recorded samples.
	Count(ctx context.Context) int

	// Reset drops all recorded samples.
	Reset(ctx context.Context)
}
