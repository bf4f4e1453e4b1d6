// Package forecast composes ratings, filtered trend, and win rate into a
// bounded championship-probability estimate.
//
// The Engine reads the rating system's rankings and each entity's filter
// state; it never mutates the rating system. Per-entity filters are owned
// by the engine's tracker and fed through Observe.
package forecast

import (
	"github.com/okian/formguide/internal/domain/filter"
	"github.com/okian/formguide/internal/domain/rating"
	"github.com/okian/formguide/internal/domain/stat"
	"github.com/okian/formguide/internal/domain/types"
)

// Default forecast configuration constants. The weights are a fixed
// policy default, not derived; override them with WithWeights.
const (
	DefaultRankWeight    = 0.4
	DefaultWinRateWeight = 0.4
	DefaultTrendWeight   = 0.2

	DefaultTrendBaseline = 75.0
	DefaultTrendScale    = 10.0

	neutralTrendFactor = 0.5
)

// Weights balance the three forecast components.
type Weights struct {
	Rank    float64
	WinRate float64
	Trend   float64
}

// PowerEntry is one row of the power rankings: a ranking entry augmented
// with the championship probability and current trend estimate.
type PowerEntry struct {
	rating.Entry
	ChampionshipProbability float64 `json:"championship_probability"`
	Trend                   float64 `json:"trend,omitempty"`
	HasTrend                bool    `json:"has_trend"`
}

// Engine composes a rating system with per-entity trend filters.
type Engine struct {
	ratings       *rating.System
	trends        *filter.Tracker
	weights       Weights
	trendBaseline float64
	trendScale    float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights sets the rank/win-rate/trend combination weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if w.Rank >= 0 && w.WinRate >= 0 && w.Trend >= 0 && w.Rank+w.WinRate+w.Trend > 0 {
			e.weights = w
		}
	}
}

// WithTrendBaseline sets the estimate treated as neutral form.
func WithTrendBaseline(baseline float64) Option {
	return func(e *Engine) {
		e.trendBaseline = baseline
	}
}

// WithTracker replaces the engine-owned filter tracker, e.g. to share one
// with another component or to configure filter noise.
func WithTracker(t *filter.Tracker) Option {
	return func(e *Engine) {
		if t != nil {
			e.trends = t
		}
	}
}

// New constructs an engine reading from the given rating system.
func New(ratings *rating.System, opts ...Option) *Engine {
	e := &Engine{
		ratings:       ratings,
		trends:        filter.NewTracker(),
		weights:       Weights{Rank: DefaultRankWeight, WinRate: DefaultWinRateWeight, Trend: DefaultTrendWeight},
		trendBaseline: DefaultTrendBaseline,
		trendScale:    DefaultTrendScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Observe feeds a performance score into the entity's trend filter,
// creating it lazily, and returns the new estimate.
func (e *Engine) Observe(id types.EntityID, score float64) float64 {
	return e.trends.Observe(id, score)
}

// Trend returns the entity's current filter state.
func (e *Engine) Trend(id types.EntityID) (filter.State, error) {
	return e.trends.State(id)
}

// Predict returns the championship probability for an entity, 0 if it has
// never been rated. The estimate combines rank position, win rate, and
// trend with the configured weights, clamped to [0,1].
func (e *Engine) Predict(id types.EntityID) float64 {
	entries := e.ratings.Rankings(nil)
	for _, entry := range entries {
		if entry.EntityID == id {
			return e.predictAt(entry, len(entries))
		}
	}
	return 0
}

// PowerRankings returns the rankings augmented with championship
// probability and trend per entity, preserving ranking order. The filter
// narrows entities before ranking, like rating.System.Rankings.
func (e *Engine) PowerRankings(f rating.Filter) []PowerEntry {
	// probabilities always derive from the unfiltered field
	field := e.ratings.Rankings(nil)
	byID := make(map[types.EntityID]rating.Entry, len(field))
	for _, entry := range field {
		byID[entry.EntityID] = entry
	}

	entries := field
	if f != nil {
		entries = e.ratings.Rankings(f)
	}

	out := make([]PowerEntry, len(entries))
	for i, entry := range entries {
		pe := PowerEntry{
			Entry:                   entry,
			ChampionshipProbability: e.predictAt(byID[entry.EntityID], len(field)),
		}
		if st, err := e.trends.State(entry.EntityID); err == nil {
			pe.Trend = st.Estimate
			pe.HasTrend = true
		}
		out[i] = pe
	}
	return out
}

// predictAt computes the probability for an entry given its rank within a
// field of total entities.
func (e *Engine) predictAt(entry rating.Entry, total int) float64 {
	rankFactor := 1 - float64(entry.Rank-1)/float64(max(total, 1))
	winRate := float64(entry.Wins) / float64(max(entry.Games, 1))

	trendFactor := neutralTrendFactor
	if st, err := e.trends.State(entry.EntityID); err == nil {
		trendFactor = stat.Sigmoid((st.Estimate - e.trendBaseline) / e.trendScale)
	}

	p := e.weights.Rank*rankFactor + e.weights.WinRate*winRate + e.weights.Trend*trendFactor
	return stat.Clamp01(p)
}
