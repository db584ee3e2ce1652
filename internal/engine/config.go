// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package engine

import (
	"fmt"
	"runtime"
)

// Config controls sampling and evaluation behavior.
type Config struct {
	// CandidateCount is the default number of locations sampled per run
	// when the request does not specify one.
	CandidateCount int `json:"candidate_count" koanf:"candidate_count"`

	// Workers bounds concurrent candidate evaluation. Zero means one
	// worker per CPU.
	Workers int `json:"workers" koanf:"workers"`

	// Seed fixes the sampling RNG. Zero selects the default seed; runs
	// with the same seed and inputs produce identical rankings.
	Seed int64 `json:"seed" koanf:"seed"`

	// SampleAttemptFactor bounds rejection sampling: the total attempt
	// budget for a run is CandidateCount * SampleAttemptFactor.
	SampleAttemptFactor int `json:"sample_attempt_factor" koanf:"sample_attempt_factor"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		CandidateCount:      50,
		Workers:             0,
		Seed:                0,
		SampleAttemptFactor: 100,
	}
}

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	if c.CandidateCount <= 0 {
		return fmt.Errorf("candidate_count must be positive, got %d", c.CandidateCount)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.SampleAttemptFactor < 2 {
		return fmt.Errorf("sample_attempt_factor must be at least 2, got %d", c.SampleAttemptFactor)
	}
	return nil
}

// workers resolves the effective worker count.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
