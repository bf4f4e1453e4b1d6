package simfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/formguide/pkg/logger"
)

// fetchRankings retrieves the top-N ranking table.
func fetchRankings(ctx context.Context, config *Config, stats *Stats) ([]rankingEntry, error) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/rankings?limit=" + strconv.Itoa(config.TopN)

	resp, err := client.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rankings: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read rankings response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return nil, fmt.Errorf("rankings request failed with status %d", resp.StatusCode)
	}

	var entries []rankingEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode rankings: %w", err)
	}

	stats.RankedEntities = len(entries)
	logger.Get().Info(ctx, "fetched rankings", logger.Int("entries", len(entries)))
	return entries, nil
}

// fetchPowerRankings retrieves the forecast-augmented table.
func fetchPowerRankings(ctx context.Context, config *Config, stats *Stats) ([]powerEntry, error) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/power-rankings"

	resp, err := client.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch power rankings: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read power rankings response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return nil, fmt.Errorf("power rankings request failed with status %d", resp.StatusCode)
	}

	var entries []powerEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode power rankings: %w", err)
	}

	stats.PowerEntries = len(entries)
	logger.Get().Info(ctx, "fetched power rankings", logger.Int("entries", len(entries)))
	return entries, nil
}

// verifyResults cross-checks the retrieved tables for internal consistency.
func verifyResults(ctx context.Context, config *Config, rankings []rankingEntry, power []powerEntry) error {
	logger.Get().Info(ctx, "verifying results")

	if len(rankings) == 0 {
		return fmt.Errorf("rankings are empty after submission")
	}

	// Ranks must be dense and ratings non-increasing.
	for i, e := range rankings {
		if e.Rank != i+1 {
			return fmt.Errorf("rank gap at position %d: got rank %d", i, e.Rank)
		}
		if i > 0 && e.Rating > rankings[i-1].Rating {
			return fmt.Errorf("rating order violated at rank %d", e.Rank)
		}
	}

	// Power rankings must mirror the ranking order and keep probabilities
	// in the unit interval.
	for i, e := range power {
		if e.Rank != i+1 {
			return fmt.Errorf("power rank gap at position %d: got rank %d", i, e.Rank)
		}
		if e.ChampionshipProbability < 0 || e.ChampionshipProbability > 1 {
			return fmt.Errorf("championship probability out of range for %s: %f",
				e.EntityID, e.ChampionshipProbability)
		}
	}

	// Every ranked entity must carry a league prefix we generated.
	for _, e := range rankings {
		known := false
		for _, league := range config.Leagues {
			if strings.HasPrefix(e.EntityID, league+".") {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unexpected entity in rankings: %s", e.EntityID)
		}
	}

	logger.Get().Info(ctx, "verification passed",
		logger.Int("rankedEntities", len(rankings)),
		logger.Int("powerEntries", len(power)))
	return nil
}
