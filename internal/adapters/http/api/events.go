// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/formguide/internal/domain/model"
	"github.com/okian/formguide/internal/domain/rating"
	"github.com/okian/formguide/internal/domain/types"
)

// EventsHandler handles feed event submissions.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// matchRequest mirrors the wire schema for POST /events/match.
type matchRequest struct {
	EventID string `json:"event_id"`
	EntityA string `json:"entity_a"`
	EntityB string `json:"entity_b"`
	Outcome string `json:"outcome"`
	TS      string `json:"ts"`
}

func (e matchRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(e.EntityA) == "":
		return errors.New("missing entity_a")
	case strings.TrimSpace(e.EntityB) == "":
		return errors.New("missing entity_b")
	case strings.TrimSpace(e.EntityA) == strings.TrimSpace(e.EntityB):
		return errors.New("entity_a and entity_b must differ")
	case strings.TrimSpace(e.Outcome) == "":
		return errors.New("missing outcome")
	case strings.TrimSpace(e.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := rating.ParseOutcome(e.Outcome); err != nil {
		return errors.New("invalid outcome; must be win_a, win_b, or draw")
	}
	if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

func (e matchRequest) toEvent() model.MatchEvent {
	outcome, _ := rating.ParseOutcome(e.Outcome)
	ts, _ := time.Parse(time.RFC3339, e.TS)
	return model.MatchEvent{
		EventID: e.EventID,
		EntityA: types.EntityID(e.EntityA),
		EntityB: types.EntityID(e.EntityB),
		Outcome: outcome,
		TS:      ts,
	}
}

// sampleRequest mirrors the wire schema for POST /events/sample.
type sampleRequest struct {
	EventID  string  `json:"event_id"`
	EntityID string  `json:"entity_id"`
	Value    float64 `json:"value"`
	TS       string  `json:"ts"`
}

func (e sampleRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(e.EntityID) == "":
		return errors.New("missing entity_id")
	case strings.TrimSpace(e.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

func (e sampleRequest) toEvent() model.SampleEvent {
	ts, _ := time.Parse(time.RFC3339, e.TS)
	return model.SampleEvent{
		EventID:  e.EventID,
		EntityID: types.EntityID(e.EntityID),
		Value:    e.Value,
		TS:       ts,
	}
}

// HandlePostMatch handles POST /events/match requests.
func (h *EventsHandler) HandlePostMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.accept(w, r, op, req.EventID, req.toEvent())
}

// HandlePostSample handles POST /events/sample requests.
func (h *EventsHandler) HandlePostSample(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_sample"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.accept(w, r, op, req.EventID, req.toEvent())
}

// accept runs the shared idempotency-then-enqueue path for both event kinds.
func (h *EventsHandler) accept(w http.ResponseWriter, r *http.Request, op, eventID string, e model.Event) {
	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), eventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), e); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), eventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
