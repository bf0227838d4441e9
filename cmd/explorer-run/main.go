package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/olympics/internal/testdataset"
	"github.com/okian/olympics/pkg/logger"
)

// Default configuration constants.
const (
	defaultSeed        = 1
	defaultAthletes    = 2000
	defaultRounds      = 1
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		generate  = flag.String("generate", "", "Write a synthetic dataset into this directory and exit")
		seed      = flag.Uint64("seed", defaultSeed, "Generator seed")
		athletes  = flag.Int("athletes", defaultAthletes, "Size of the generated athlete pool")
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		countries = flag.Int("countries", 0, "Number of countries to query, 0 for all")
		rounds    = flag.Int("rounds", defaultRounds, "Times every query is repeated")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile   = flag.String("log", "", "Log file for run output (default: explorer_run_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testdataset.ShowHelp()
		return
	}

	// Setup logging
	if err := testdataset.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	if *generate != "" {
		raw := testdataset.Generate(testdataset.GenConfig{Seed: *seed, Athletes: *athletes, Unmatched: true})
		if _, _, err := testdataset.WriteCSV(ctx, *generate, raw); err != nil {
			os.Stderr.WriteString("Generate failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		return
	}

	// Create run configuration
	config := &testdataset.Config{
		BaseURL:   *baseURL,
		Countries: *countries,
		Rounds:    *rounds,
		Workers:   *workers,
		Timeout:   *timeout,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	// Run against the service
	if err := testdataset.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
