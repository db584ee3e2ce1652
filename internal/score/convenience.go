// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import (
	"context"

	"github.com/mapq-project/mapq/internal/geo"
)

// ConvenienceStrategy rewards access to commerce-like amenities, transit,
// and recreation. Aimed at people who value having everything close.
type ConvenienceStrategy struct {
	baseStrategy
}

// NewConvenienceStrategy constructs the convenience variant.
func NewConvenienceStrategy() Strategy {
	return &ConvenienceStrategy{baseStrategy{
		name:        "convenience",
		description: "Maximizes access to commerce, transit, and recreation",
		criteria: []Criterion{
			{Name: CriterionServices, LowerIsBetter: false},
			{Name: CriterionTransit, LowerIsBetter: true},
			{Name: CriterionGreen, LowerIsBetter: true},
		},
	}}
}

// Evaluate implements Strategy.
func (s *ConvenienceStrategy) Evaluate(ctx context.Context, world WorldView, cand Candidate) (Sample, error) {
	if err := contextErr(ctx); err != nil {
		return Sample{}, err
	}
	if err := checkCandidate(world, cand); err != nil {
		return Sample{}, err
	}

	services, err := amenityCount(world, cand.Point)
	if err != nil {
		return Sample{}, err
	}
	transitKm, err := nearestDistanceKm(world, geo.KindTransitStop, cand.Point)
	if err != nil {
		return Sample{}, err
	}
	greenKm, err := nearestDistanceKm(world, geo.KindPark, cand.Point)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Candidate: cand,
		Raw: map[string]float64{
			CriterionServices: services,
			CriterionTransit:  transitKm,
			CriterionGreen:    greenKm,
		},
	}, nil
}

// Finalize implements Strategy. A location with everything above 0.6 gets a
// "complete district" bonus; missing basic access to services or transit is
// penalized.
func (s *ConvenienceStrategy) Finalize(subscores map[string]float64, weights WeightConfig) float64 {
	score := s.weightedScore(subscores, weights)

	services := subscores[CriterionServices]
	transit := subscores[CriterionTransit]
	green := subscores[CriterionGreen]

	switch {
	case services > 0.6 && transit > 0.6 && green > 0.6:
		score *= 1.2
	case services > 0.7 && transit > 0.7:
		score *= 1.1
	}

	if services < 0.3 || transit < 0.3 {
		score *= 0.85
	}

	return clamp01(score)
}
