// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"

	"github.com/okian/formguide/internal/domain/filter"
	"github.com/okian/formguide/internal/domain/forecast"
	"github.com/okian/formguide/internal/domain/rating"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory feed queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of feed workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// HistoryWindow sets how many recent samples are retained per entity
	// for indicator computation.
	HistoryWindow int `koanf:"history_window"`

	// MaxRankingsLimit caps GET /rankings?limit.
	MaxRankingsLimit int `koanf:"max_rankings_limit"`

	// KFactor controls how far a single match moves a rating.
	KFactor float64 `koanf:"k_factor"`

	// InitialRating is assigned to entities on their first match.
	InitialRating float64 `koanf:"initial_rating"`

	// FilterInitialEstimate and FilterInitialCovariance seed new trend
	// filters.
	FilterInitialEstimate   float64 `koanf:"filter_initial_estimate"`
	FilterInitialCovariance float64 `koanf:"filter_initial_covariance"`

	// ProcessNoise and MeasurementNoise tune trend filter responsiveness.
	ProcessNoise     float64 `koanf:"process_noise"`
	MeasurementNoise float64 `koanf:"measurement_noise"`

	// RankWeight, WinRateWeight, and TrendWeight blend the forecast
	// components.
	RankWeight    float64 `koanf:"rank_weight"`
	WinRateWeight float64 `koanf:"win_rate_weight"`
	TrendWeight   float64 `koanf:"trend_weight"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9080",
		EventQueueSize:          100_000,
		WorkerCount:             runtime.NumCPU() * 2,
		DedupeSize:              50_000,
		HistoryWindow:           50,
		MaxRankingsLimit:        100,
		KFactor:                 rating.DefaultKFactor,
		InitialRating:           rating.DefaultInitialRating,
		FilterInitialEstimate:   filter.DefaultInitialEstimate,
		FilterInitialCovariance: filter.DefaultInitialCovariance,
		ProcessNoise:            filter.DefaultProcessNoise,
		MeasurementNoise:        filter.DefaultMeasurementNoise,
		RankWeight:              forecast.DefaultRankWeight,
		WinRateWeight:           forecast.DefaultWinRateWeight,
		TrendWeight:             forecast.DefaultTrendWeight,
	}
}
