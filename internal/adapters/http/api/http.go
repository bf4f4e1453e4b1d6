// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/formguide/internal/adapters/repository"
	"github.com/okian/formguide/internal/domain/filter"
	"github.com/okian/formguide/internal/domain/forecast"
	"github.com/okian/formguide/internal/domain/indicator"
	"github.com/okian/formguide/internal/domain/model"
	"github.com/okian/formguide/internal/domain/rating"
	"github.com/okian/formguide/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Idempotency surface.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	// Enqueue pushes a feed event for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, e model.Event) bool

	// Read operations expose engine state.
	GetRating(ctx context.Context, id types.EntityID) (rating.Rating, error)
	Rankings(ctx context.Context, league rating.Filter, limit int) []rating.Entry
	Indicator(ctx context.Context, id types.EntityID, name string) (float64, error)
	Indicators(ctx context.Context, id types.EntityID) (map[string]indicator.Result, error)
	Predict(ctx context.Context, id types.EntityID) float64
	PowerRankings(ctx context.Context, league rating.Filter) []forecast.PowerEntry
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	eventsHandler     *EventsHandler
	rankingsHandler   *RankingsHandler
	ratingsHandler    *RatingsHandler
	indicatorsHandler *IndicatorsHandler
	forecastHandler   *ForecastHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		eventsHandler:     NewEventsHandler(deps),
		rankingsHandler:   NewRankingsHandler(deps, maxLimit),
		ratingsHandler:    NewRatingsHandler(deps),
		indicatorsHandler: NewIndicatorsHandler(deps),
		forecastHandler:   NewForecastHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleHealth)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events/match", MetricsMiddleware(s.eventsHandler.HandlePostMatch, "events_match"))
	mux.HandleFunc("/events/sample", MetricsMiddleware(s.eventsHandler.HandlePostSample, "events_sample"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/power-rankings", MetricsMiddleware(s.forecastHandler.HandleGetPowerRankings, "power_rankings"))
	mux.HandleFunc("/ratings/", MetricsMiddleware(s.ratingsHandler.HandleGetRating, "ratings"))
	mux.HandleFunc("/indicators/", MetricsMiddleware(s.indicatorsHandler.HandleGetIndicators, "indicators"))
	mux.HandleFunc("/forecast/", MetricsMiddleware(s.forecastHandler.HandleGetForecast, "forecast"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, rating.ErrNotFound) ||
		errors.Is(err, filter.ErrNotFound) ||
		errors.Is(err, repository.ErrNotFound)
}

// pathParam extracts the single path segment after prefix, e.g. the entity
// id in /ratings/{id}.
func pathParam(path, prefix string) (string, bool) {
	p := strings.TrimPrefix(path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}

// leagueFilter narrows rankings to entities whose id carries the league
// prefix, e.g. league "nl" matches "nl.ajax". An empty league matches all.
func leagueFilter(league string) rating.Filter {
	if league == "" {
		return nil
	}
	prefix := league + "."
	return func(id types.EntityID) bool {
		return strings.HasPrefix(string(id), prefix)
	}
}
