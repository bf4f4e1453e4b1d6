package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/formguide/internal/domain/types"
)

// Default history configuration constants.
const (
	defaultWindow = 50
)

// WindowStore implements Store with a fixed-size ring buffer per entity.
type WindowStore struct {
	mu     sync.RWMutex
	window int
	series map[types.EntityID]*ring
}

// ring is a fixed-capacity circular buffer of samples.
type ring struct {
	buf   []float64
	start int
	count int
}

func (r *ring) push(v float64) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = v
		r.count++
		return
	}
	// full: overwrite the oldest slot
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ring) snapshot() []float64 {
	out := make([]float64, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// NewWindowStore creates a new history store with configuration options.
func NewWindowStore(opts ...Option) *WindowStore {
	s := &WindowStore{
		window: defaultWindow,
		series: make(map[types.EntityID]*ring),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records a sample, creating the entity's window on first touch.
func (s *WindowStore) Append(_ context.Context, id types.EntityID, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.series[id]
	if !ok {
		r = &ring{buf: make([]float64, s.window)}
		s.series[id] = r
	}
	r.push(value)
}

// Series returns the entity's samples ordered oldest to newest.
func (s *WindowStore) Series(_ context.Context, id types.EntityID) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.series[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return r.snapshot(), nil
}

// Count returns the number of entities with recorded samples.
func (s *WindowStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}

// Reset drops all recorded samples.
func (s *WindowStore) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = make(map[types.EntityID]*ring)
}
