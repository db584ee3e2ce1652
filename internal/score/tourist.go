// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import (
	"context"

	"github.com/mapq-project/mapq/internal/geo"
)

// TouristStrategy rewards proximity to tourist places and major transit
// hubs. Crime is deliberately not a criterion for this variant.
type TouristStrategy struct {
	baseStrategy
}

// NewTouristStrategy constructs the tourist variant.
func NewTouristStrategy() Strategy {
	return &TouristStrategy{baseStrategy{
		name:        "tourist",
		description: "Focuses on tourist attractions, transit hubs, and mobility",
		criteria: []Criterion{
			{Name: CriterionTourist, LowerIsBetter: true},
			{Name: CriterionTransit, LowerIsBetter: true},
			{Name: CriterionServices, LowerIsBetter: false},
		},
	}}
}

// Evaluate implements Strategy. The transit measure prefers major hubs
// (stops with a station attribute) over plain stops.
func (s *TouristStrategy) Evaluate(ctx context.Context, world WorldView, cand Candidate) (Sample, error) {
	if err := contextErr(ctx); err != nil {
		return Sample{}, err
	}
	if err := checkCandidate(world, cand); err != nil {
		return Sample{}, err
	}

	touristKm, err := nearestDistanceKm(world, geo.KindTouristPlace, cand.Point)
	if err != nil {
		return Sample{}, err
	}
	hubKm, err := hubDistanceKm(world, cand.Point)
	if err != nil {
		return Sample{}, err
	}
	services, err := amenityCount(world, cand.Point)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Candidate: cand,
		Raw: map[string]float64{
			CriterionTourist:  touristKm,
			CriterionTransit:  hubKm,
			CriterionServices: services,
		},
	}, nil
}

// Finalize implements Strategy. High attraction density or excellent hub
// access earns a bonus.
func (s *TouristStrategy) Finalize(subscores map[string]float64, weights WeightConfig) float64 {
	score := s.weightedScore(subscores, weights)

	services := subscores[CriterionServices]
	transit := subscores[CriterionTransit]

	switch {
	case services > 0.7:
		score *= 1.15
	case transit > 0.8:
		score *= 1.1
	}

	return clamp01(score)
}
