package simfeed

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/formguide/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	eventIDDivisor     = 10000
)

// Constants shaping the hidden strength distribution.
const (
	strengthMin   = 40.0
	strengthRange = 45.0
	sampleJitter  = 12.0
	drawBand      = 0.08
)

// entity is one simulated participant with a hidden strength that drives
// match outcomes and performance samples.
type entity struct {
	id       string
	strength float64
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// newEventID builds a unique event id from a kind, index, and random suffix.
func newEventID(kind string, index int) string {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(eventIDDivisor))
	return kind + "_" + strconv.Itoa(index) + "_" +
		strconv.FormatInt(time.Now().UnixNano(), 10) + "_" +
		strconv.FormatInt(randNum.Int64(), 10)
}

// generateEntities creates the simulated field, spreading entities across
// the configured leagues and assigning each a hidden strength.
func generateEntities(ctx context.Context, config *Config) []entity {
	logger.Get().Info(ctx, "generating simulated field",
		logger.Int("entities", config.Entities),
		logger.Int("leagues", len(config.Leagues)))

	entities := make([]entity, config.Entities)
	for i := range entities {
		league := config.Leagues[i%len(config.Leagues)]
		entities[i] = entity{
			id:       league + "." + uuid.New().String(),
			strength: strengthMin + getRandomFloat()*strengthRange,
		}
	}
	return entities
}

// generateMatches produces round-robin style pairings. The outcome is
// sampled from a logistic curve over the strength gap so stronger entities
// win more often without being deterministic.
func generateMatches(ctx context.Context, config *Config, entities []entity, stats *Stats) []matchEvent {
	matches := make([]matchEvent, 0, config.Rounds*len(entities)/2)
	index := 0

	for round := 0; round < config.Rounds; round++ {
		// Rotate pairings each round so everyone meets a different opponent.
		for i := 0; i+1 < len(entities); i += 2 {
			offset := (i + 1 + round) % len(entities)
			if offset == i {
				continue
			}
			a, b := entities[i], entities[offset]
			matches = append(matches, matchEvent{
				EventID: newEventID("match", index),
				EntityA: a.id,
				EntityB: b.id,
				Outcome: sampleOutcome(a.strength, b.strength),
				TS:      time.Now().UTC().Format(time.RFC3339),
			})
			index++
		}
	}

	stats.MatchesGenerated = len(matches)
	logger.Get().Info(ctx, "generated matches", logger.Int("count", len(matches)))
	return matches
}

// sampleOutcome draws a result from the win probability implied by the
// strength gap, with a narrow band around even odds mapped to a draw.
func sampleOutcome(strengthA, strengthB float64) string {
	pWinA := 1.0 / (1.0 + math.Exp(-(strengthA-strengthB)/10.0))
	roll := getRandomFloat()
	switch {
	case roll < pWinA-drawBand/2:
		return "win_a"
	case roll < pWinA+drawBand/2:
		return "draw"
	default:
		return "win_b"
	}
}

// generateSamples produces per-entity performance samples centered on the
// entity's hidden strength with symmetric jitter.
func generateSamples(ctx context.Context, config *Config, entities []entity, stats *Stats) []sampleEvent {
	samples := make([]sampleEvent, 0, config.Samples*len(entities))
	index := 0

	for _, e := range entities {
		for s := 0; s < config.Samples; s++ {
			value := e.strength + (getRandomFloat()*2-1)*sampleJitter
			if value < 0 {
				value = 0
			}
			samples = append(samples, sampleEvent{
				EventID:  newEventID("sample", index),
				EntityID: e.id,
				Value:    value,
				TS:       time.Now().UTC().Format(time.RFC3339),
			})
			index++
		}
	}

	stats.SamplesGenerated = len(samples)
	logger.Get().Info(ctx, "generated samples", logger.Int("count", len(samples)))
	return samples
}
