// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in values for every optional setting
//  2. Config file: optional YAML file (config.yaml)
//  3. Environment variables: override any setting
type Config struct {
	City       CityConfig       `koanf:"city"`
	Data       DataConfig       `koanf:"data"`
	Server     ServerConfig     `koanf:"server"`
	Engine     EngineConfig     `koanf:"engine"`
	Session    SessionConfig    `koanf:"session"`
	Results    ResultsConfig    `koanf:"results"`
	Logging    LoggingConfig    `koanf:"logging"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
}

// CityConfig identifies the city the world model describes.
type CityConfig struct {
	Name    string `koanf:"name"`
	Country string `koanf:"country"`
}

// DataConfig points at the geospatial source datasets. GeoJSON files cover
// the vector kinds; crime incidents arrive as CSV and are loaded through
// DuckDB. Remote URLs, when set, are fetched and cached to the local path
// before loading.
type DataConfig struct {
	// Dir is the root directory for local dataset files.
	Dir string `koanf:"dir"`

	DistrictsFile    string `koanf:"districts_file"`
	TransitStopsFile string `koanf:"transit_stops_file"`
	TransitLinesFile string `koanf:"transit_lines_file"`
	ParksFile        string `koanf:"parks_file"`
	TouristFile      string `koanf:"tourist_file"`
	CrimeCSVFile     string `koanf:"crime_csv_file"`

	// Fetch configures the optional remote dataset download.
	Fetch FetchConfig `koanf:"fetch"`
}

// FetchConfig controls the HTTP dataset fetcher.
type FetchConfig struct {
	Enabled bool `koanf:"enabled"`

	// URLs maps dataset file names to remote sources.
	URLs map[string]string `koanf:"urls"`

	Timeout time.Duration `koanf:"timeout"`

	// RatePerSecond limits request rate against the upstream portal.
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow per client IP; zero
	// disables rate limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// EngineConfig mirrors engine.Config for the loader.
type EngineConfig struct {
	CandidateCount      int   `koanf:"candidate_count"`
	Workers             int   `koanf:"workers"`
	Seed                int64 `koanf:"seed"`
	SampleAttemptFactor int   `koanf:"sample_attempt_factor"`
}

// SessionConfig controls the interactive session layer.
type SessionConfig struct {
	// RecomputeTimeout bounds the synchronous ranking recomputation an
	// observer performs after a state change. Zero disables the deadline.
	RecomputeTimeout time.Duration `koanf:"recompute_timeout"`

	// CacheSweepInterval is how often evictable cache entries are purged.
	CacheSweepInterval time.Duration `koanf:"cache_sweep_interval"`
}

// ResultsConfig controls ranking persistence between sessions.
type ResultsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MonitoringConfig controls the Prometheus metrics endpoint.
type MonitoringConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Validate checks the configuration for structural problems. Called after
// loading; a failed validation aborts startup.
func (c *Config) Validate() error {
	if c.City.Name == "" {
		return fmt.Errorf("city.name is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("server.rate_limit_reqs must be non-negative, got %d", c.Server.RateLimitReqs)
	}
	if c.Engine.CandidateCount <= 0 {
		return fmt.Errorf("engine.candidate_count must be positive, got %d", c.Engine.CandidateCount)
	}
	if c.Engine.SampleAttemptFactor < 2 {
		return fmt.Errorf("engine.sample_attempt_factor must be at least 2, got %d", c.Engine.SampleAttemptFactor)
	}
	if c.Session.RecomputeTimeout < 0 {
		return fmt.Errorf("session.recompute_timeout must be non-negative, got %s", c.Session.RecomputeTimeout)
	}
	if c.Results.Enabled && c.Results.Path == "" {
		return fmt.Errorf("results.path is required when results.enabled is true")
	}
	if c.Data.Fetch.Enabled {
		if len(c.Data.Fetch.URLs) == 0 {
			return fmt.Errorf("data.fetch.urls is required when data.fetch.enabled is true")
		}
		if c.Data.Fetch.RatePerSecond <= 0 {
			return fmt.Errorf("data.fetch.rate_per_second must be positive, got %f", c.Data.Fetch.RatePerSecond)
		}
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Addr returns the server listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
