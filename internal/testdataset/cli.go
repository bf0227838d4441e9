package testdataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/olympics/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "explorer_run_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the explorer tool.
func ShowHelp() {
	os.Stdout.WriteString(`Olympics Explorer Tool
======================

Generates synthetic Olympic datasets and exercises a running explorer service.

Usage:
  go run ./cmd/explorer-run [options]

Options:
  -generate string
        Write a synthetic athlete_events.csv and noc_regions.csv into this directory and exit
  -seed uint
        Generator seed (default 1)
  -athletes int
        Size of the generated athlete pool (default 2000)
  -url string
        Base URL of the service (default "http://localhost:9080")
  -countries int
        Number of countries to query, 0 for all (default 0)
  -rounds int
        Times every query is repeated (default 1)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default: explorer_run_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate a dataset and serve it
  go run ./cmd/explorer-run -generate data
  go run ./cmd

  # Exercise every country view three times
  go run ./cmd/explorer-run -rounds 3 -workers 16
`)
}
