// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/okian/formguide/internal/domain/indicator"
	"github.com/okian/formguide/internal/domain/types"
)

// IndicatorsHandler handles per-entity indicator requests.
type IndicatorsHandler struct {
	deps Dependencies
}

// NewIndicatorsHandler creates a new indicators handler.
func NewIndicatorsHandler(deps Dependencies) *IndicatorsHandler {
	return &IndicatorsHandler{deps: deps}
}

// indicatorResponse is the single-indicator shape for ?name= queries.
type indicatorResponse struct {
	EntityID string  `json:"entity_id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
}

// HandleGetIndicators handles GET /indicators/{entity_id} requests. With a
// ?name= query only that indicator is computed; otherwise the full set is
// returned.
func (h *IndicatorsHandler) HandleGetIndicators(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_indicators"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathParam(r.URL.Path, "/indicators/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entity := types.EntityID(id)

	if name := r.URL.Query().Get("name"); name != "" {
		value, err := h.deps.Indicator(r.Context(), entity, name)
		if err != nil {
			h.writeLookupError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, indicatorResponse{EntityID: id, Name: name, Value: value})
		return
	}

	all, err := h.deps.Indicators(r.Context(), entity)
	if err != nil {
		h.writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *IndicatorsHandler) writeLookupError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, indicator.ErrUnknownIndicator):
		writeError(w, http.StatusBadRequest, "unknown_indicator", Wrap(op, err))
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
