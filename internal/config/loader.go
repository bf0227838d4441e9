package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "OLYMPICS_"
	envFileVar = "OLYMPICS_CONFIG"
	maxChartPx = 4096
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if OLYMPICS_CONFIG is set
//  3. env (prefix OLYMPICS_), including values from a local .env file
func Load(ctx context.Context) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// OLYMPICS_CACHE_SIZE -> cache_size. Underscores are kept to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The config file path itself is not a setting.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and returns all problems joined together.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be text or json", c.LogFormat))
	}
	switch c.Backend {
	case BackendCSV:
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path must be set for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend %q must be %s or %s", c.Backend, BackendCSV, BackendSQLite))
	}
	if c.AthletesPath == "" || c.RegionsPath == "" {
		errs = append(errs, errors.New("athletes_path and regions_path must be set"))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL))
	}
	if c.WarmupParallelism <= 0 {
		errs = append(errs, fmt.Errorf("warmup_parallelism must be positive, got %d", c.WarmupParallelism))
	}
	if c.ChartWidth <= 0 || c.ChartWidth > maxChartPx || c.ChartHeight <= 0 || c.ChartHeight > maxChartPx {
		errs = append(errs, fmt.Errorf("chart size %dx%d out of range", c.ChartWidth, c.ChartHeight))
	}
	if c.TopAthletes <= 0 || c.TopCountryAthletes <= 0 {
		errs = append(errs, errors.New("top_athletes and top_country_athletes must be positive"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
