package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/formguide/internal/simfeed"
)

// Default configuration constants.
const (
	defaultEntities   = 64
	defaultRounds     = 4
	defaultSamples    = 10
	defaultTopN       = 20
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		entities   = flag.Int("entities", defaultEntities, "Number of entities in the simulated field")
		rounds     = flag.Int("rounds", defaultRounds, "Number of round-robin match rounds")
		samples    = flag.Int("samples", defaultSamples, "Number of performance samples per entity")
		topN       = flag.Int("top", defaultTopN, "Number of top entries to fetch from rankings")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated events (default: simfeed_events_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: simfeed_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simfeed.ShowHelp()
		return
	}

	if err := simfeed.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simfeed.Config{
		BaseURL:    *baseURL,
		Entities:   *entities,
		Leagues:    []string{"north", "south", "east", "west"},
		Rounds:     *rounds,
		Samples:    *samples,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := simfeed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulated feed run failed: " + err.Error() + "\n")
		return
	}
}
