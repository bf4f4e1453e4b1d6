package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/formguide/internal/adapters/http/api"
	"github.com/okian/formguide/internal/domain/forecast"
	"github.com/okian/formguide/internal/domain/indicator"
	"github.com/okian/formguide/internal/domain/model"
	"github.com/okian/formguide/internal/domain/rating"
	"github.com/okian/formguide/internal/domain/types"
	"github.com/okian/formguide/pkg/logger"
)

// fakeDeps satisfies api.Dependencies with canned state.
type fakeDeps struct {
	seen         map[string]bool
	enqueued     []model.Event
	backpressure bool

	ratings   map[types.EntityID]rating.Rating
	entries   []rating.Entry
	values    map[types.EntityID][]float64
	forecasts map[types.EntityID]float64

	lastLeague rating.Filter
	registry   *indicator.Registry
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		seen:      make(map[string]bool),
		ratings:   make(map[types.EntityID]rating.Rating),
		values:    make(map[types.EntityID][]float64),
		forecasts: make(map[types.EntityID]float64),
		registry:  indicator.NewRegistry(),
	}
}

func (f *fakeDeps) SeenAndRecord(_ context.Context, id string) bool {
	if f.seen[id] {
		return true
	}
	f.seen[id] = true
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, id string) { delete(f.seen, id) }

func (f *fakeDeps) Enqueue(_ context.Context, e model.Event) bool {
	if f.backpressure {
		return false
	}
	f.enqueued = append(f.enqueued, e)
	return true
}

func (f *fakeDeps) GetRating(_ context.Context, id types.EntityID) (rating.Rating, error) {
	rec, ok := f.ratings[id]
	if !ok {
		return rating.Rating{}, rating.ErrNotFound
	}
	return rec, nil
}

func (f *fakeDeps) Rankings(_ context.Context, league rating.Filter, limit int) []rating.Entry {
	f.lastLeague = league
	entries := f.entries
	if league != nil {
		filtered := entries[:0:0]
		for _, e := range entries {
			if league(e.EntityID) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func (f *fakeDeps) Indicator(_ context.Context, id types.EntityID, name string) (float64, error) {
	series, ok := f.values[id]
	if !ok {
		return 0, rating.ErrNotFound
	}
	return f.registry.ComputeOne(name, series)
}

func (f *fakeDeps) Indicators(_ context.Context, id types.EntityID) (map[string]indicator.Result, error) {
	series, ok := f.values[id]
	if !ok {
		return nil, rating.ErrNotFound
	}
	return f.registry.ComputeAll(series), nil
}

func (f *fakeDeps) Predict(_ context.Context, id types.EntityID) float64 {
	return f.forecasts[id]
}

func (f *fakeDeps) PowerRankings(_ context.Context, league rating.Filter) []forecast.PowerEntry {
	f.lastLeague = league
	out := make([]forecast.PowerEntry, 0, len(f.entries))
	for _, e := range f.entries {
		if league != nil && !league(e.EntityID) {
			continue
		}
		out = append(out, forecast.PowerEntry{
			Entry:                   e,
			ChampionshipProbability: f.forecasts[e.EntityID],
		})
	}
	return out
}

func (f *fakeDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(t *testing.T, deps *fakeDeps) *httptest.Server {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	api.NewServer(deps, deps, 100).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func getJSON(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestPostMatchEvent(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(t, deps)

		valid := `{"event_id":"m-1","entity_a":"ajax","entity_b":"psv","outcome":"win_a","ts":"2026-08-30T12:00:00Z"}`

		Convey("When a valid match event is posted", func() {
			resp := postJSON(t, ts.URL+"/events/match", valid)
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)

			body := decodeBody[map[string]any](t, resp)
			So(body["status"], ShouldEqual, "accepted")
			So(body["duplicate"], ShouldBeFalse)
			So(len(deps.enqueued), ShouldEqual, 1)

			event, ok := deps.enqueued[0].(model.MatchEvent)
			So(ok, ShouldBeTrue)
			So(event.EntityA, ShouldEqual, types.EntityID("ajax"))
			So(event.Outcome, ShouldEqual, rating.WinA)

			Convey("And posting it again reports a duplicate", func() {
				resp := postJSON(t, ts.URL+"/events/match", valid)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				body := decodeBody[map[string]any](t, resp)
				So(body["duplicate"], ShouldBeTrue)
				So(len(deps.enqueued), ShouldEqual, 1)
			})
		})

		Convey("When the body is not valid JSON", func() {
			resp := postJSON(t, ts.URL+"/events/match", "{")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})

		Convey("When a required field is missing", func() {
			resp := postJSON(t, ts.URL+"/events/match",
				`{"event_id":"m-2","entity_a":"ajax","outcome":"win_a","ts":"2026-08-30T12:00:00Z"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})

		Convey("When both entities are the same", func() {
			resp := postJSON(t, ts.URL+"/events/match",
				`{"event_id":"m-3","entity_a":"ajax","entity_b":"ajax","outcome":"draw","ts":"2026-08-30T12:00:00Z"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})

		Convey("When the outcome is unknown", func() {
			resp := postJSON(t, ts.URL+"/events/match",
				`{"event_id":"m-4","entity_a":"ajax","entity_b":"psv","outcome":"tie","ts":"2026-08-30T12:00:00Z"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			body := decodeBody[map[string]any](t, resp)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When the queue exerts backpressure", func() {
			deps.backpressure = true
			resp := postJSON(t, ts.URL+"/events/match", valid)
			So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
			resp.Body.Close()

			Convey("Then the event id is unrecorded for retry", func() {
				So(deps.seen["m-1"], ShouldBeFalse)
			})
		})

		Convey("When the method is not POST", func() {
			resp := getJSON(t, ts.URL+"/events/match")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			resp.Body.Close()
		})
	})
}

func TestPostSampleEvent(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(t, deps)

		Convey("When a valid sample event is posted", func() {
			resp := postJSON(t, ts.URL+"/events/sample",
				`{"event_id":"s-1","entity_id":"ajax","value":82.5,"ts":"2026-08-30T12:00:00Z"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			resp.Body.Close()

			So(len(deps.enqueued), ShouldEqual, 1)
			event, ok := deps.enqueued[0].(model.SampleEvent)
			So(ok, ShouldBeTrue)
			So(event.Value, ShouldEqual, 82.5)
		})

		Convey("When the timestamp is malformed", func() {
			resp := postJSON(t, ts.URL+"/events/sample",
				`{"event_id":"s-2","entity_id":"ajax","value":80,"ts":"yesterday"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})
	})
}

func TestGetRankings(t *testing.T) {
	Convey("Given an API server with rankings", t, func() {
		deps := newFakeDeps()
		deps.entries = []rating.Entry{
			{Rank: 1, EntityID: "nl.ajax", Rating: rating.Rating{Rating: 1532}},
			{Rank: 2, EntityID: "en.leeds", Rating: rating.Rating{Rating: 1516}},
			{Rank: 3, EntityID: "nl.psv", Rating: rating.Rating{Rating: 1484}},
		}
		ts := newTestServer(t, deps)

		Convey("When rankings are requested with no parameters", func() {
			resp := getJSON(t, ts.URL+"/rankings")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			entries := decodeBody[[]rating.Entry](t, resp)
			So(len(entries), ShouldEqual, 3)
			So(deps.lastLeague, ShouldBeNil)
		})

		Convey("When a limit is supplied", func() {
			resp := getJSON(t, ts.URL+"/rankings?limit=2")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			entries := decodeBody[[]rating.Entry](t, resp)
			So(len(entries), ShouldEqual, 2)
		})

		Convey("When the limit is not a positive integer", func() {
			for _, bad := range []string{"0", "-3", "abc"} {
				resp := getJSON(t, ts.URL+"/rankings?limit="+bad)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				resp.Body.Close()
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			resp := getJSON(t, ts.URL+"/rankings?limit=101")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			body := decodeBody[map[string]any](t, resp)
			So(body["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("When a league is supplied it narrows the field", func() {
			resp := getJSON(t, ts.URL+"/rankings?league=nl")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			entries := decodeBody[[]rating.Entry](t, resp)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].EntityID, ShouldEqual, types.EntityID("nl.ajax"))
		})
	})
}

func TestGetRating(t *testing.T) {
	Convey("Given an API server with one rated entity", t, func() {
		deps := newFakeDeps()
		deps.ratings["ajax"] = rating.Rating{Rating: 1516, Games: 1, Wins: 1}
		ts := newTestServer(t, deps)

		Convey("When the entity exists", func() {
			resp := getJSON(t, ts.URL+"/ratings/ajax")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			rec := decodeBody[rating.Rating](t, resp)
			So(rec.Rating, ShouldEqual, 1516)
			So(rec.Wins, ShouldEqual, 1)
		})

		Convey("When the entity is unknown", func() {
			resp := getJSON(t, ts.URL+"/ratings/ghost")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			body := decodeBody[map[string]any](t, resp)
			So(body["code"], ShouldEqual, "not_found")
		})

		Convey("When the path has no entity id", func() {
			resp := getJSON(t, ts.URL+"/ratings/")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})
	})
}

func TestGetIndicators(t *testing.T) {
	Convey("Given an API server with sample history", t, func() {
		deps := newFakeDeps()
		deps.values["ajax"] = []float64{60, 70, 80}
		ts := newTestServer(t, deps)

		Convey("When all indicators are requested", func() {
			resp := getJSON(t, ts.URL+"/indicators/ajax")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			all := decodeBody[map[string]indicator.Result](t, resp)
			So(len(all), ShouldEqual, 8)
			So(all[indicator.PerformanceIndex].Value, ShouldAlmostEqual, 0.7, 0.0001)
		})

		Convey("When one indicator is requested by name", func() {
			resp := getJSON(t, ts.URL+"/indicators/ajax?name=performanceIndex")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			body := decodeBody[map[string]any](t, resp)
			So(body["name"], ShouldEqual, "performanceIndex")
			So(body["value"], ShouldAlmostEqual, 0.7, 0.0001)
		})

		Convey("When the indicator name is unknown", func() {
			resp := getJSON(t, ts.URL+"/indicators/ajax?name=luck")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			body := decodeBody[map[string]any](t, resp)
			So(body["code"], ShouldEqual, "unknown_indicator")
		})

		Convey("When the entity has no history", func() {
			resp := getJSON(t, ts.URL+"/indicators/ghost")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			resp.Body.Close()
		})
	})
}

func TestGetForecast(t *testing.T) {
	Convey("Given an API server with forecasts", t, func() {
		deps := newFakeDeps()
		deps.forecasts["ajax"] = 0.72
		deps.entries = []rating.Entry{
			{Rank: 1, EntityID: "ajax", Rating: rating.Rating{Rating: 1532}},
		}
		ts := newTestServer(t, deps)

		Convey("When a forecast is requested", func() {
			resp := getJSON(t, ts.URL+"/forecast/ajax")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			body := decodeBody[map[string]any](t, resp)
			So(body["championship_probability"], ShouldAlmostEqual, 0.72, 0.0001)
		})

		Convey("When the entity is unknown the probability is zero", func() {
			resp := getJSON(t, ts.URL+"/forecast/ghost")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			body := decodeBody[map[string]any](t, resp)
			So(body["championship_probability"], ShouldEqual, 0)
		})

		Convey("When power rankings are requested", func() {
			resp := getJSON(t, ts.URL+"/power-rankings")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			entries := decodeBody[[]forecast.PowerEntry](t, resp)
			So(len(entries), ShouldEqual, 1)
			So(entries[0].ChampionshipProbability, ShouldAlmostEqual, 0.72, 0.0001)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(t, deps)

		Convey("When stats are requested", func() {
			resp := getJSON(t, ts.URL+"/stats")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			body := decodeBody[map[string]any](t, resp)
			So(body["started"], ShouldBeTrue)
		})
	})
}
