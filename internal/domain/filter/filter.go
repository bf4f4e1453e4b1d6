// Package filter implements a scalar recursive state estimator used to
// smooth noisy per-entity performance signals.
//
// Each Filter is a one-dimensional Kalman filter with a random-walk state
// model: Predict inflates uncertainty by the process noise, Update fuses a
// measurement weighted by the Kalman gain. A Tracker keys independent
// filters by entity with no cross-entity coupling.
package filter

import (
	"fmt"
	"sync"

	"github.com/okian/formguide/internal/domain/types"
)

// Default filter configuration constants.
const (
	DefaultInitialEstimate   = 75.0
	DefaultInitialCovariance = 10.0
	DefaultProcessNoise      = 0.1
	DefaultMeasurementNoise  = 0.1
)

// State is a read-only snapshot of a filter.
type State struct {
	Estimate    float64 `json:"estimate"`
	Uncertainty float64 `json:"uncertainty"`
}

// Filter is a scalar Kalman filter. Invariant: covariance >= 0 at all
// times, which keeps the gain in [0,1].
type Filter struct {
	estimate         float64
	covariance       float64
	processNoise     float64
	measurementNoise float64
}

// New constructs a filter with configuration options.
func New(opts ...Option) *Filter {
	f := &Filter{
		estimate:         DefaultInitialEstimate,
		covariance:       DefaultInitialCovariance,
		processNoise:     DefaultProcessNoise,
		measurementNoise: DefaultMeasurementNoise,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Predict advances uncertainty by the process noise and returns the
// estimate unchanged; no control input is modeled.
func (f *Filter) Predict() float64 {
	f.covariance += f.processNoise
	return f.estimate
}

// Update fuses a measurement into the state and returns the new estimate.
// gain = P/(P+R) stays in [0,1] for non-negative covariances, so the
// estimate moves toward the measurement without overshoot.
func (f *Filter) Update(measurement float64) float64 {
	innovation := measurement - f.estimate
	innovationCovariance := f.covariance + f.measurementNoise
	gain := f.covariance / innovationCovariance

	f.estimate += gain * innovation
	f.covariance *= 1 - gain
	return f.estimate
}

// State returns the current estimate and its uncertainty.
func (f *Filter) State() State {
	return State{Estimate: f.estimate, Uncertainty: f.covariance}
}

// Tracker owns one independent Filter per entity, created lazily on first
// observation. All methods are safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	filters map[types.EntityID]*Filter
	opts    []Option
}

// NewTracker constructs a tracker; opts configure every filter it creates.
func NewTracker(opts ...Option) *Tracker {
	return &Tracker{
		filters: make(map[types.EntityID]*Filter),
		opts:    opts,
	}
}

// Observe feeds a measurement into the entity's filter, creating it on
// first touch, and returns the new estimate.
func (t *Tracker) Observe(id types.EntityID, measurement float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.filters[id]
	if !ok {
		f = New(t.opts...)
		t.filters[id] = f
	}
	f.Predict()
	return f.Update(measurement)
}

// State returns the snapshot for an entity, or ErrNotFound if it was never
// observed. It never creates a filter.
func (t *Tracker) State(id types.EntityID) (State, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	f, ok := t.filters[id]
	if !ok {
		return State{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return f.State(), nil
}

// Count returns the number of tracked entities.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.filters)
}

// Reset drops all per-entity filters at once.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filters = make(map[types.EntityID]*Filter)
}
