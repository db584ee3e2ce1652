// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mapq/config.yaml",
	"/etc/mapq/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns built-in defaults, applied before file and env
// layers.
func defaultConfig() *Config {
	return &Config{
		City: CityConfig{
			Name:    "Quito",
			Country: "EC",
		},
		Data: DataConfig{
			Dir:              "/data/mapq",
			DistrictsFile:    "districts.geojson",
			TransitStopsFile: "transit_stops.geojson",
			TransitLinesFile: "transit_lines.geojson",
			ParksFile:        "parks.geojson",
			TouristFile:      "tourist_places.geojson",
			CrimeCSVFile:     "crime.csv",
			Fetch: FetchConfig{
				Enabled:       false,
				Timeout:       30 * time.Second,
				RatePerSecond: 2,
			},
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4326,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Engine: EngineConfig{
			CandidateCount:      50,
			Workers:             0, // 0 = runtime.NumCPU()
			Seed:                0,
			SampleAttemptFactor: 100,
		},
		Session: SessionConfig{
			RecomputeTimeout:   10 * time.Second,
			CacheSweepInterval: 5 * time.Minute,
		},
		Results: ResultsConfig{
			Enabled: false,
			Path:    "/data/mapq/rankings",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Monitoring: MonitoringConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration with layered sources: defaults, then an optional
// YAML file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// MAPQ_SERVER_PORT -> server.port
	envProvider := env.Provider("MAPQ_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile searches the env override, then the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated slices when they arrive as
// env var strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated strings to slices for known
// slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps MAPQ_-prefixed environment variables onto koanf
// paths: the first underscore after the prefix separates the section.
//
// Examples:
//   - MAPQ_SERVER_PORT            -> server.port
//   - MAPQ_ENGINE_CANDIDATE_COUNT -> engine.candidate_count
//   - MAPQ_LOGGING_LEVEL          -> logging.level
//   - MAPQ_DATA_CRIME_CSV_FILE    -> data.crime_csv_file
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "MAPQ_"))

	section, rest, found := strings.Cut(key, "_")
	if !found {
		return ""
	}

	switch section {
	case "city", "data", "server", "engine", "session", "results", "logging", "monitoring":
	default:
		// Unknown sections are skipped so unrelated environment variables
		// cannot pollute the config.
		return ""
	}

	// Nested fetch settings: MAPQ_DATA_FETCH_TIMEOUT -> data.fetch.timeout
	if section == "data" {
		if sub, tail, ok := strings.Cut(rest, "_"); ok && sub == "fetch" {
			return "data.fetch." + tail
		}
	}
	return section + "." + rest
}
