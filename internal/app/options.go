package service

import (
	"github.com/okian/formguide/internal/domain/forecast"
	"github.com/okian/formguide/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the feed queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistoryWindow sets how many recent samples are retained per entity
// for indicator computation.
func WithHistoryWindow(window int) Option {
	return func(s *Service) {
		if window > 0 {
			s.historyWindow = window
		}
	}
}

// WithKFactor sets the rating K-factor.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.kFactor = k
		}
	}
}

// WithInitialRating sets the rating assigned to unseen entities.
func WithInitialRating(r float64) Option {
	return func(s *Service) {
		s.initialRating = r
	}
}

// WithFilterState sets the initial estimate and covariance for new trend
// filters.
func WithFilterState(estimate, covariance float64) Option {
	return func(s *Service) {
		s.initialEstimate = estimate
		if covariance > 0 {
			s.initialCov = covariance
		}
	}
}

// WithFilterNoise sets the process and measurement noise for trend filters.
func WithFilterNoise(process, measurement float64) Option {
	return func(s *Service) {
		if process > 0 {
			s.processNoise = process
		}
		if measurement > 0 {
			s.measurementNoise = measurement
		}
	}
}

// WithForecastWeights sets the blend weights used by the forecast engine.
func WithForecastWeights(weights forecast.Weights) Option {
	return func(s *Service) {
		s.weights = weights
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}
