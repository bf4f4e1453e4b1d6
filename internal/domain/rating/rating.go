// Package rating implements an Elo-style relative skill tracker.
//
// A System owns one Rating per entity and updates the pair from pairwise
// match outcomes. State is explicit and instance-scoped so multiple
// independent systems can coexist in one process.
package rating

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/okian/formguide/internal/domain/types"
)

// Default rating configuration constants.
const (
	DefaultKFactor       = 32.0
	DefaultInitialRating = 1500.0

	// expectedScale is the Elo logistic scale: a gap of this many points
	// corresponds to 10:1 expected odds.
	expectedScale = 400.0
)

// Rating captures one entity's skill estimate and match record.
// Invariant: Games == Wins + Losses + Draws after every update.
type Rating struct {
	Rating float64 `json:"rating"`
	Games  int     `json:"games"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Draws  int     `json:"draws"`
}

// Entry is one row of the rankings, derived on demand and not stored.
type Entry struct {
	Rank     int            `json:"rank"`
	EntityID types.EntityID `json:"entity_id"`
	Rating
}

// Filter narrows rankings to entities matching the predicate. A nil Filter
// matches everything.
type Filter func(types.EntityID) bool

// System maintains relative skill ratings keyed by entity.
// All methods are safe for concurrent use.
type System struct {
	mu      sync.RWMutex
	k       float64
	initial float64
	ratings map[types.EntityID]Rating
}

// New constructs a rating system with configuration options.
func New(opts ...Option) *System {
	s := &System{
		k:       DefaultKFactor,
		initial: DefaultInitialRating,
		ratings: make(map[types.EntityID]Rating),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KFactor returns the configured update sensitivity.
func (s *System) KFactor() float64 { return s.k }

// ExpectedScore returns the probability-like expectation for the first
// rating against the second. ExpectedScore(a,b) + ExpectedScore(b,a) == 1.
func (s *System) ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/expectedScale))
}

// Update applies a pairwise outcome to both entities, lazily initializing
// unseen ones at the initial rating. It returns both updated records.
// Updating an entity against itself is rejected with ErrSameEntity.
func (s *System) Update(a, b types.EntityID, outcome Outcome) (Rating, Rating, error) {
	if a == b {
		return Rating{}, Rating{}, fmt.Errorf("%w: %q", ErrSameEntity, a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ra := s.getOrInit(a)
	rb := s.getOrInit(b)

	expectedA := s.ExpectedScore(ra.Rating, rb.Rating)
	expectedB := s.ExpectedScore(rb.Rating, ra.Rating)
	actualA, actualB := outcome.scores()

	ra.Rating += s.k * (actualA - expectedA)
	rb.Rating += s.k * (actualB - expectedB)
	ra.Games++
	rb.Games++

	switch outcome {
	case WinA:
		ra.Wins++
		rb.Losses++
	case WinB:
		ra.Losses++
		rb.Wins++
	case Draw:
		ra.Draws++
		rb.Draws++
	}

	s.ratings[a] = ra
	s.ratings[b] = rb
	return ra, rb, nil
}

// Get returns the current rating for id. It never creates an entry;
// unseen ids yield ErrNotFound.
func (s *System) Get(id types.EntityID) (Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ratings[id]
	if !ok {
		return Rating{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return r, nil
}

// Rankings returns all entities sorted by rating descending with 1-based
// ranks. Ties break by entity id ascending so the order is deterministic.
// The filter narrows the entry set before sorting, keeping ranks meaningful
// within the filtered set.
func (s *System) Rankings(filter Filter) []Entry {
	s.mu.RLock()
	entries := make([]Entry, 0, len(s.ratings))
	for id, r := range s.ratings {
		if filter != nil && !filter(id) {
			continue
		}
		entries = append(entries, Entry{EntityID: id, Rating: r})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating.Rating != entries[j].Rating.Rating {
			return entries[i].Rating.Rating > entries[j].Rating.Rating
		}
		return entries[i].EntityID < entries[j].EntityID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Count returns the number of rated entities.
func (s *System) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ratings)
}

// Reset clears all rating entries at once.
func (s *System) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings = make(map[types.EntityID]Rating)
}

// getOrInit must be called with the write lock held.
func (s *System) getOrInit(id types.EntityID) Rating {
	if r, ok := s.ratings[id]; ok {
		return r
	}
	return Rating{Rating: s.initial}
}
