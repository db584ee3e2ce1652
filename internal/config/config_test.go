// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("defaults fail validation: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing city name", func(c *Config) { c.City.Name = "" }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"zero candidates", func(c *Config) { c.Engine.CandidateCount = 0 }},
		{"tiny attempt factor", func(c *Config) { c.Engine.SampleAttemptFactor = 1 }},
		{"negative recompute timeout", func(c *Config) { c.Session.RecomputeTimeout = -time.Second }},
		{"results without path", func(c *Config) { c.Results.Enabled = true; c.Results.Path = "" }},
		{"fetch without urls", func(c *Config) { c.Data.Fetch.Enabled = true }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"MAPQ_SERVER_PORT", "server.port"},
		{"MAPQ_ENGINE_CANDIDATE_COUNT", "engine.candidate_count"},
		{"MAPQ_LOGGING_LEVEL", "logging.level"},
		{"MAPQ_DATA_CRIME_CSV_FILE", "data.crime_csv_file"},
		{"MAPQ_DATA_FETCH_TIMEOUT", "data.fetch.timeout"},
		{"MAPQ_SESSION_RECOMPUTE_TIMEOUT", "session.recompute_timeout"},
		{"MAPQ_UNRELATED_THING", ""},
		{"MAPQ_NOSEPARATOR", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLayersFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
city:
  name: Cuenca
server:
  port: 9000
engine:
  seed: 7
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MAPQ_SERVER_PORT", "9100") // env beats file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.City.Name != "Cuenca" {
		t.Errorf("city.name = %q, want file value", cfg.City.Name)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("server.port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Engine.Seed != 7 {
		t.Errorf("engine.seed = %d, want 7", cfg.Engine.Seed)
	}
	// Untouched settings keep defaults.
	if cfg.Engine.CandidateCount != 50 {
		t.Errorf("engine.candidate_count = %d, want default 50", cfg.Engine.CandidateCount)
	}
}

func TestLoadRejectsInvalidFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if _, err := Load(); err == nil {
		t.Fatal("expected validation failure for negative port")
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 4326}
	if got := s.Addr(); got != "127.0.0.1:4326" {
		t.Errorf("Addr() = %q", got)
	}
}
