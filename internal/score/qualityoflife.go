// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import (
	"context"

	"github.com/mapq-project/mapq/internal/geo"
)

// QualityOfLifeStrategy rewards low crime density, green-space proximity,
// and transit access. Aimed at residents.
type QualityOfLifeStrategy struct {
	baseStrategy
}

// NewQualityOfLifeStrategy constructs the quality-of-life variant.
func NewQualityOfLifeStrategy() Strategy {
	return &QualityOfLifeStrategy{baseStrategy{
		name:        "quality_of_life",
		description: "Prioritizes safety, transit access, and green space for residents",
		criteria: []Criterion{
			{Name: CriterionSafety, LowerIsBetter: true},
			{Name: CriterionTransit, LowerIsBetter: true},
			{Name: CriterionGreen, LowerIsBetter: true},
		},
	}}
}

// Evaluate implements Strategy. The safety raw measure is crime density
// around the candidate, inverted during normalization so a crime-free batch
// scores safety at the maximum.
func (s *QualityOfLifeStrategy) Evaluate(ctx context.Context, world WorldView, cand Candidate) (Sample, error) {
	if err := contextErr(ctx); err != nil {
		return Sample{}, err
	}
	if err := checkCandidate(world, cand); err != nil {
		return Sample{}, err
	}

	crimes, err := crimeDensity(world, cand.Point)
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
			CriterionSafety:  crimes,
			CriterionTransit: transitKm,
			CriterionGreen:   greenKm,
		},
	}, nil
}

// Finalize implements Strategy. Very unsafe locations are penalized; the
// safe-and-green combination earns a bonus.
func (s *QualityOfLifeStrategy) Finalize(subscores map[string]float64, weights WeightConfig) float64 {
	score := s.weightedScore(subscores, weights)

	safety := subscores[CriterionSafety]
	green := subscores[CriterionGreen]

	if safety < 0.3 {
		score *= 0.8
	}
	if safety > 0.8 && green > 0.6 {
		score *= 1.1
	}

	return clamp01(score)
}
