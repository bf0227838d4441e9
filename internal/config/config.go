// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) builds a Config with defaults; Load layers file and env on top.
// - Validate reports every problem at once, wrapped in ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Supported dataset backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AthletesPath and RegionsPath point at the two source CSV files.
	AthletesPath string `koanf:"athletes_path"`
	RegionsPath  string `koanf:"regions_path"`

	// Backend is where rows are read from at startup: csv or sqlite.
	Backend string `koanf:"backend"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// CacheSize bounds the number of cached aggregation results.
	CacheSize int `koanf:"cache_size"`

	// CacheTTL expires cached results; zero keeps them until evicted by size.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Warmup precomputes per-country views at startup.
	Warmup bool `koanf:"warmup"`

	// WarmupParallelism bounds concurrent warm-up computations.
	WarmupParallelism int `koanf:"warmup_parallelism"`

	// ChartWidth and ChartHeight size rendered PNG charts in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// TopAthletes and TopCountryAthletes size the most-successful tables.
	TopAthletes        int `koanf:"top_athletes"`
	TopCountryAthletes int `koanf:"top_country_athletes"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		AthletesPath:       "data/athlete_events.csv",
		RegionsPath:        "data/noc_regions.csv",
		Backend:            BackendCSV,
		SQLitePath:         "data/olympics.db",
		CacheSize:          512,
		CacheTTL:           30 * time.Minute,
		Warmup:             false,
		WarmupParallelism:  4,
		ChartWidth:         960,
		ChartHeight:        480,
		TopAthletes:        15,
		TopCountryAthletes: 10,
	}
}
