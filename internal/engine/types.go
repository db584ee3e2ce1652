// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package engine

import (
	"time"

	"github.com/mapq-project/mapq/internal/geo"
	"github.com/mapq-project/mapq/internal/score"
)

// World is what a run needs from the loaded city: the spatial queries the
// strategies measure against, plus district lookup for sampling.
type World interface {
	score.WorldView

	// District returns one district entity by ID.
	District(id string) (*geo.Entity, error)
}

// Params describes one recommendation run.
type Params struct {
	// DistrictIDs selects the districts candidates are sampled from.
	// Must be non-empty.
	DistrictIDs []string `json:"district_ids"`

	// StrategyID names the scoring strategy variant.
	StrategyID string `json:"strategy_id"`

	// Weights maps criterion names to relative importance.
	Weights score.WeightConfig `json:"weights"`

	// CandidateCount overrides the configured sample size when positive.
	CandidateCount int `json:"candidate_count,omitempty"`
}

// Ranking is the ordered outcome of one run. Results are sorted by score
// descending, ties broken by candidate ID ascending. Scores are normalized
// within this run's batch and are not comparable across runs.
type Ranking struct {
	RunID       string         `json:"run_id"`
	Strategy    string         `json:"strategy"`
	DistrictIDs []string       `json:"district_ids"`
	Results     []score.Result `json:"results"`
	GeneratedAt time.Time      `json:"generated_at"`
	LatencyMS   int64          `json:"latency_ms"`
}

// Top returns the first n results, or all of them when fewer exist.
func (r *Ranking) Top(n int) []score.Result {
	if n >= len(r.Results) {
		return r.Results
	}
	return r.Results[:n]
}
