// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/formguide/internal/adapters/mq/queue"
	workerpool "github.com/okian/formguide/internal/adapters/mq/worker"
	"github.com/okian/formguide/internal/adapters/repository"
	"github.com/okian/formguide/internal/domain/dedupe"
	"github.com/okian/formguide/internal/domain/filter"
	"github.com/okian/formguide/internal/domain/forecast"
	"github.com/okian/formguide/internal/domain/indicator"
	"github.com/okian/formguide/internal/domain/model"
	"github.com/okian/formguide/internal/domain/rating"
	"github.com/okian/formguide/internal/domain/types"
	"github.com/okian/formguide/pkg/bus"
	"github.com/okian/formguide/pkg/logger"
	"github.com/okian/formguide/pkg/metrics"
)

// Service wires the rating system, trend filters, indicator registry, and
// forecast engine behind an asynchronous feed pipeline and a synchronous
// query surface.
type Service struct {
	mu sync.RWMutex

	// Core components
	ratings    *rating.System
	trends     *filter.Tracker
	engine     *forecast.Engine
	indicators *indicator.Registry
	history    repository.Store
	deduper    dedupe.Deduper
	eventQueue queue.Queue
	workerPool *workerpool.Pool

	// Notification buses
	matchUpdates *bus.Bus[model.MatchResult]
	trendUpdates *bus.Bus[model.SampleResult]

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	historyWindow    int
	kFactor          float64
	initialRating    float64
	initialEstimate  float64
	initialCov       float64
	processNoise     float64
	measurementNoise float64
	weights          forecast.Weights

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      4,
		queueSize:        100000,
		dedupeSize:       50000,
		historyWindow:    50,
		kFactor:          rating.DefaultKFactor,
		initialRating:    rating.DefaultInitialRating,
		initialEstimate:  filter.DefaultInitialEstimate,
		initialCov:       filter.DefaultInitialCovariance,
		processNoise:     filter.DefaultProcessNoise,
		measurementNoise: filter.DefaultMeasurementNoise,
		weights: forecast.Weights{
			Rank:    forecast.DefaultRankWeight,
			WinRate: forecast.DefaultWinRateWeight,
			Trend:   forecast.DefaultTrendWeight,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting forecast service...")

	s.ratings = rating.New(
		rating.WithKFactor(s.kFactor),
		rating.WithInitialRating(s.initialRating),
	)
	s.trends = filter.NewTracker(
		filter.WithInitialState(s.initialEstimate, s.initialCov),
		filter.WithProcessNoise(s.processNoise),
		filter.WithMeasurementNoise(s.measurementNoise),
	)
	s.engine = forecast.New(s.ratings,
		forecast.WithTracker(s.trends),
		forecast.WithWeights(s.weights),
		forecast.WithTrendBaseline(s.initialEstimate),
	)
	s.indicators = indicator.NewRegistry()
	s.history = repository.NewWindowStore(repository.WithWindow(s.historyWindow))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.matchUpdates = bus.New(bus.WithLogger[model.MatchResult](s.logger.Named("bus")))
	s.trendUpdates = bus.New(bus.WithLogger[model.SampleResult](s.logger.Named("bus")))

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "forecast service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("historyWindow", s.historyWindow),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping forecast service...")

	if s.eventQueue != nil {
		_ = s.eventQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "forecast service stopped")
}

// MatchUpdates exposes the bus publishing rating changes.
func (s *Service) MatchUpdates() *bus.Bus[model.MatchResult] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchUpdates
}

// TrendUpdates exposes the bus publishing trend changes.
func (s *Service) TrendUpdates() *bus.Bus[model.SampleResult] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trendUpdates
}

// SeenAndRecord atomically checks if an event id was seen and records it if
// not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a feed event for asynchronous processing. Returns false
// on backpressure.
func (s *Service) Enqueue(ctx context.Context, e model.Event) bool {
	ok := s.eventQueue.Enqueue(ctx, e)
	if !ok {
		s.logger.Warn(ctx, "feed queue rejected event", logger.String("eventID", e.ID()))
	}
	return ok
}

// Apply applies one dequeued feed event to the engine state. It implements
// the worker Applier contract.
func (s *Service) Apply(ctx context.Context, e model.Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	switch event := e.(type) {
	case model.MatchEvent:
		return s.applyMatch(ctx, event)
	case model.SampleEvent:
		s.applySample(ctx, event)
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, e)
	}
}

func (s *Service) applyMatch(ctx context.Context, event model.MatchEvent) error {
	ra, rb, err := s.ratings.Update(event.EntityA, event.EntityB, event.Outcome)
	if err != nil {
		metrics.RecordErrorByComponent("service", "match_rejected")
		return fmt.Errorf("apply match %s: %w", event.EventID, err)
	}

	metrics.RecordMatchProcessed()
	metrics.UpdateRatedEntities(s.ratings.Count())

	s.logger.Debug(ctx, "match applied",
		logger.String("eventID", event.EventID),
		logger.String("entityA", event.EntityA.String()),
		logger.String("entityB", event.EntityB.String()),
		logger.String("outcome", event.Outcome.String()),
	)

	s.matchUpdates.Publish(model.TopicRatingUpdated, model.MatchResult{
		Event:   event,
		RatingA: ra,
		RatingB: rb,
	})
	return nil
}

func (s *Service) applySample(ctx context.Context, event model.SampleEvent) {
	estimate := s.engine.Observe(event.EntityID, event.Value)
	s.history.Append(ctx, event.EntityID, event.Value)

	metrics.RecordSampleObserved()
	metrics.UpdateTrackedEntities(s.trends.Count())

	s.logger.Debug(ctx, "sample applied",
		logger.String("eventID", event.EventID),
		logger.String("entity", event.EntityID.String()),
		logger.Float64("value", event.Value),
		logger.Float64("estimate", estimate),
	)

	s.trendUpdates.Publish(model.TopicTrendUpdated, model.SampleResult{
		Event:    event,
		Estimate: estimate,
	})
}

// GetRating returns the current rating for an entity.
func (s *Service) GetRating(_ context.Context, id types.EntityID) (rating.Rating, error) {
	return s.ratings.Get(id)
}

// Rankings returns current rankings, optionally narrowed by a league
// filter before ranking. A limit above 0 truncates the result.
func (s *Service) Rankings(_ context.Context, league rating.Filter, limit int) []rating.Entry {
	entries := s.ratings.Rankings(league)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

// Indicator computes one named indicator over the entity's recorded
// sample history.
func (s *Service) Indicator(ctx context.Context, id types.EntityID, name string) (float64, error) {
	series, err := s.history.Series(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.indicators.ComputeOne(name, series)
}

// Indicators computes every registered indicator over the entity's
// recorded sample history.
func (s *Service) Indicators(ctx context.Context, id types.EntityID) (map[string]indicator.Result, error) {
	series, err := s.history.Series(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.indicators.ComputeAll(series), nil
}

// Predict returns the championship probability for an entity; 0 if it has
// never been rated.
func (s *Service) Predict(_ context.Context, id types.EntityID) float64 {
	metrics.RecordForecastComputed()
	return s.engine.Predict(id)
}

// Trend returns the entity's current filter state.
func (s *Service) Trend(_ context.Context, id types.EntityID) (filter.State, error) {
	return s.trends.State(id)
}

// PowerRankings returns rankings augmented with championship probability
// and trend, optionally narrowed by a league filter.
func (s *Service) PowerRankings(_ context.Context, league rating.Filter) []forecast.PowerEntry {
	metrics.RecordForecastComputed()
	return s.engine.PowerRankings(league)
}

// Reset clears all rating, trend, and history state at once.
func (s *Service) Reset(ctx context.Context) {
	s.ratings.Reset()
	s.trends.Reset()
	s.history.Reset(ctx)
	metrics.UpdateRatedEntities(0)
	metrics.UpdateTrackedEntities(0)
	s.logger.Info(ctx, "engine state reset")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"historyWindow": s.historyWindow,
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.eventQueue.Len(ctx)
		stats["ratedEntities"] = s.ratings.Count()
		stats["trackedEntities"] = s.trends.Count()
		stats["historiedEntities"] = s.history.Count(ctx)

		metrics.UpdateRatedEntities(s.ratings.Count())
		metrics.UpdateTrackedEntities(s.trends.Count())
	}
	return stats
}
