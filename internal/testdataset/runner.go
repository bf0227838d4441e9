package testdataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/pkg/logger"
)

const percentageMultiplier = 100

// globalPaths are the parameterless views queried once per round.
var globalPaths = []string{
	"/api/overview",
	"/api/heatmap/events",
	"/api/most-successful",
	"/api/athletes/age-distribution",
	"/api/athletes/height-weight",
	"/api/athletes/men-vs-women",
}

// Run queries every view of a live service and checks that each country's
// yearly medals add up to its row in the overall medal tally.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Rounds <= 0 {
		config.Rounds = 1
	}

	logger.Get().Info(ctx, "starting olympics explorer run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("countries", config.Countries),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service readiness
	if err := checkServiceReady(ctx, client); err != nil {
		return fmt.Errorf("service readiness check failed: %w", err)
	}

	// Step 2: Selector lists and the overall tally
	var filters types.Filters
	if err := client.getJSON(ctx, "/api/filters", nil, &filters); err != nil {
		return fmt.Errorf("filters retrieval failed: %w", err)
	}
	var tally types.MedalTally
	if err := client.getJSON(ctx, "/api/medal-tally", nil, &tally); err != nil {
		return fmt.Errorf("medal tally retrieval failed: %w", err)
	}

	countries := filters.Regions
	if config.Countries > 0 && config.Countries < len(countries) {
		countries = countries[:config.Countries]
	}

	// Step 3: Global views
	for round := 0; round < config.Rounds; round++ {
		for _, path := range globalPaths {
			stats.Requests++
			var out any
			if err := client.getJSON(ctx, path, nil, &out); err != nil {
				stats.Failed++
				logger.Get().Warn(ctx, "global view failed", logger.String("path", path), logger.Error(err))
				continue
			}
			stats.Successful++
		}
	}

	// Step 4: Country views concurrently
	totals, err := queryCountries(ctx, client, config, countries, stats)
	if err != nil {
		return fmt.Errorf("country queries failed: %w", err)
	}

	// Step 5: Verify results
	if err := verifyTallies(ctx, tally, totals, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "run completed successfully")
	return nil
}

// checkServiceReady verifies the service has loaded its dataset.
func checkServiceReady(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service readiness")

	resp, err := client.Get(ctx, "/readyz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service not ready, status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is ready")
	return nil
}

// queryCountries fetches every country view with a worker pool and returns
// each country's total medal count from its yearly medals.
func queryCountries(ctx context.Context, client *HTTPClient, config *Config, countries []string, stats *Stats) (map[string]int, error) {
	logger.Get().Info(ctx, "querying country views",
		logger.Int("countries", len(countries)),
		logger.Int("workers", config.Workers))

	var (
		requests   int64
		successful int64
		failed     int64
		mu         sync.Mutex
		totals     = make(map[string]int, len(countries))
	)

	call := func(path, country string, v any) bool {
		atomic.AddInt64(&requests, 1)
		err := client.getJSON(ctx, path, url.Values{"country": {country}}, v)
		if err != nil {
			atomic.AddInt64(&failed, 1)
			var se *StatusError
			if !errors.As(err, &se) || config.Verbose {
				logger.Get().Warn(ctx, "country view failed",
					logger.String("path", path),
					logger.String("country", country),
					logger.Error(err))
			}
			return false
		}
		atomic.AddInt64(&successful, 1)
		return true
	}

	jobs := make(chan string, config.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for country := range jobs {
				var medals countryMedals
				if call("/api/country/medals", country, &medals) {
					sum := 0
					for _, m := range medals.Medals {
						sum += m.Count
					}
					mu.Lock()
					totals[country] = sum
					mu.Unlock()
				}
				var heatmap types.Heatmap
				call("/api/country/heatmap", country, &heatmap)
				var top countryAthletes
				call("/api/country/top-athletes", country, &top)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for round := 0; round < config.Rounds; round++ {
			for _, country := range countries {
				select {
				case <-ctx.Done():
					return
				case jobs <- country:
				}
			}
		}
	}()

	wg.Wait()

	stats.Requests += int(atomic.LoadInt64(&requests))
	stats.Successful += int(atomic.LoadInt64(&successful))
	stats.Failed += int(atomic.LoadInt64(&failed))
	stats.CountriesChecked = len(totals)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64
	if stats.Requests > 0 {
		successRate = float64(stats.Successful) / float64(stats.Requests) * percentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("requests", stats.Requests),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("countriesChecked", stats.CountriesChecked),
		logger.Int("mismatchedTallies", stats.MismatchedTallies),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
