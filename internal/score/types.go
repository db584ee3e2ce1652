// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import (
	"context"

	"github.com/mapq-project/mapq/internal/geo"
)

// Criterion names shared across strategies and weight configs.
const (
	CriterionSafety   = "safety"
	CriterionTransit  = "proximity_transit"
	CriterionGreen    = "green_space"
	CriterionServices = "services"
	CriterionTourist  = "tourist_sites"
)

// Criterion describes one scoring dimension of a strategy.
type Criterion struct {
	// Name is the criterion key, matched against weight config keys.
	Name string

	// LowerIsBetter marks cost-like raw measures (distances, crime
	// density). Normalization inverts these so every sub-score is a
	// goodness value in [0,1].
	LowerIsBetter bool
}

// Candidate is a location point under evaluation. DistrictID is a lookup
// reference to the district the point was sampled from, not ownership.
type Candidate struct {
	ID         string    `json:"id"`
	Point      geo.Point `json:"point"`
	DistrictID string    `json:"district_id,omitempty"`
}

// Sample holds the raw per-criterion measures for one candidate, before
// batch normalization.
type Sample struct {
	Candidate Candidate
	Raw       map[string]float64
}

// Result is one scored candidate. Immutable once created.
type Result struct {
	Candidate Candidate          `json:"candidate"`
	Strategy  string             `json:"strategy"`
	Score     float64            `json:"score"`
	Subscores map[string]float64 `json:"subscores"`
}

// WorldView is the slice of the world model strategies query. Keeping it an
// interface lets strategy tests run against a hand-written world.
type WorldView interface {
	// QueryNearest returns the k nearest entities of a kind, distance
	// ascending with ties broken by entity ID.
	QueryNearest(kind geo.Kind, p geo.Point, k int) ([]geo.Neighbor, error)

	// QueryWithinRadius returns entities of a kind within radiusKm of p.
	QueryWithinRadius(kind geo.Kind, p geo.Point, radiusKm float64) ([]geo.Neighbor, error)

	// ContainsPoint reports whether p lies inside the loaded city's
	// bounding region.
	ContainsPoint(p geo.Point) (bool, error)
}

// Strategy is a pluggable scoring algorithm. Evaluate and Finalize are pure
// functions of their inputs: no hidden state, no ordering dependency between
// candidates, so the engine may evaluate candidates concurrently.
type Strategy interface {
	// Name returns the registry identifier.
	Name() string

	// Description is a human-readable summary for the strategy catalog.
	Description() string

	// Criteria returns the criterion set this strategy scores. Weight
	// config keys outside this set are silently ignored.
	Criteria() []Criterion

	// Evaluate measures raw criterion values for one candidate. It fails
	// with ErrInvalidCandidate when the candidate lies outside the loaded
	// city's bounding region.
	Evaluate(ctx context.Context, world WorldView, cand Candidate) (Sample, error)

	// Finalize combines normalized sub-scores into the final score using
	// the weight config, applying variant-specific bonus and penalty
	// shaping. The result is clamped to [0,1].
	Finalize(subscores map[string]float64, weights WeightConfig) float64
}

// Factory constructs a strategy instance.
type Factory func() Strategy
