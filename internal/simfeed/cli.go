package simfeed

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/formguide/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "simfeed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulated feed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Formguide Simulated Feed Tool
=============================

Generates a simulated season of matches and performance samples and drives
them through a running formguide service.

Usage:
  go run cmd/simfeed/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -entities int
        Number of entities in the simulated field (default 64)
  -rounds int
        Number of round-robin match rounds (default 4)
  -samples int
        Number of performance samples per entity (default 10)
  -top int
        Number of top entries to fetch from rankings (default 20)
  -workers int
        Number of concurrent submit workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated events (default: simfeed_events_TIMESTAMP.json)
  -log string
        Log file for run output (default: simfeed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/simfeed/main.go

  # Simulate a bigger field against a local service
  go run cmd/simfeed/main.go -entities 256 -rounds 8 -url http://localhost:8080

  # Run with verbose output
  go run cmd/simfeed/main.go -verbose -entities 32
`)
}
