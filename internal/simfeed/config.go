package simfeed

import "time"

// Config holds configuration for a simulated feed run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Entities   int           // Number of entities in the simulated field
	Leagues    []string      // League prefixes entities are spread across
	Rounds     int           // Number of round-robin match rounds
	Samples    int           // Number of performance samples per entity
	TopN       int           // Number of top entries to fetch from rankings
	Workers    int           // Number of concurrent submit workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated events
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// matchEvent mirrors the wire schema for POST /events/match.
type matchEvent struct {
	EventID string `json:"event_id"`
	EntityA string `json:"entity_a"`
	EntityB string `json:"entity_b"`
	Outcome string `json:"outcome"`
	TS      string `json:"ts"`
}

// sampleEvent mirrors the wire schema for POST /events/sample.
type sampleEvent struct {
	EventID  string  `json:"event_id"`
	EntityID string  `json:"entity_id"`
	Value    float64 `json:"value"`
	TS       string  `json:"ts"`
}

// rankingEntry mirrors one row of GET /rankings.
type rankingEntry struct {
	Rank     int     `json:"rank"`
	EntityID string  `json:"entity_id"`
	Rating   float64 `json:"rating"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
}

// powerEntry mirrors one row of GET /power-rankings.
type powerEntry struct {
	Rank                    int     `json:"rank"`
	EntityID                string  `json:"entity_id"`
	Rating                  float64 `json:"rating"`
	ChampionshipProbability float64 `json:"championship_probability"`
	HasTrend                bool    `json:"has_trend"`
}

// ackResponse mirrors the response from event submission.
type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	MatchesGenerated int
	SamplesGenerated int
	EventsSubmitted  int
	EventsSuccessful int
	EventsDuplicate  int
	EventsFailed     int
	RankedEntities   int
	PowerEntries     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
