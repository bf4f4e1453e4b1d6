// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/formguide/internal/domain/rating"
	"github.com/okian/formguide/internal/domain/types"
)

// Topics published on the service buses after state changes.
const (
	TopicRatingUpdated = "rating.updated"
	TopicTrendUpdated  = "trend.updated"
)

// Event is the closed set of feed events flowing through the queue.
type Event interface {
	// ID returns the event's idempotency key.
	ID() string
}

// MatchEvent is a pairwise outcome between two entities.
type MatchEvent struct {
	EventID string         // unique id for idempotency
	EntityA types.EntityID // first participant
	EntityB types.EntityID // second participant
	Outcome rating.Outcome // result from A's perspective
	TS      time.Time      // event timestamp
}

func (e MatchEvent) ID() string { return e.EventID }

// SampleEvent is one numeric performance sample for an entity.
type SampleEvent struct {
	EventID  string
	EntityID types.EntityID
	Value    float64
	TS       time.Time
}

func (e SampleEvent) ID() string { return e.EventID }

// MatchResult is published on TopicRatingUpdated after a match is applied.
type MatchResult struct {
	Event   MatchEvent
	RatingA rating.Rating
	RatingB rating.Rating
}

// SampleResult is published on TopicTrendUpdated after a sample is applied.
type SampleResult struct {
	Event    SampleEvent
	Estimate float64
}
