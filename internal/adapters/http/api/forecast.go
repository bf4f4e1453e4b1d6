// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/formguide/internal/domain/types"
)

// ForecastHandler handles championship forecast requests.
type ForecastHandler struct {
	deps Dependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps Dependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

// forecastResponse is the shape returned by GET /forecast/{entity_id}.
type forecastResponse struct {
	EntityID                string  `json:"entity_id"`
	ChampionshipProbability float64 `json:"championship_probability"`
}

// HandleGetForecast handles GET /forecast/{entity_id} requests. Unknown
// entities get probability 0 rather than an error.
func (h *ForecastHandler) HandleGetForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_forecast"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathParam(r.URL.Path, "/forecast/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	probability := h.deps.Predict(r.Context(), types.EntityID(id))
	writeJSON(w, http.StatusOK, forecastResponse{
		EntityID:                id,
		ChampionshipProbability: probability,
	})
}

// HandleGetPowerRankings handles GET /power-rankings?league=X requests.
func (h *ForecastHandler) HandleGetPowerRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries := h.deps.PowerRankings(r.Context(), leagueFilter(r.URL.Query().Get("league")))
	writeJSON(w, http.StatusOK, entries)
}
