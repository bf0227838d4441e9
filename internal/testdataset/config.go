package testdataset

import (
	"time"

	"github.com/okian/olympics/internal/domain/types"
)

// Config holds configuration for a run against a live service.
type Config struct {
	BaseURL   string        // Base URL of the service
	Countries int           // Number of countries to query, 0 means all
	Rounds    int           // How many times every query is repeated
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for run output
	Verbose   bool          // Enable verbose logging
}

// Stats tracks run statistics.
type Stats struct {
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	Requests          int
	Successful        int
	Failed            int
	CountriesChecked  int
	MismatchedTallies int
}

// countryMedals mirrors GET /api/country/medals.
type countryMedals struct {
	Country string            `json:"country"`
	Medals  []types.YearCount `json:"medals"`
}

// countryAthletes mirrors GET /api/country/top-athletes.
type countryAthletes struct {
	Country  string              `json:"country"`
	Athletes []types.AthleteRank `json:"athletes"`
}
