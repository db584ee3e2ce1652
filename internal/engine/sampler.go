// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package engine

import (
	"fmt"
	"math/rand"

	"github.com/mapq-project/mapq/internal/geo"
	"github.com/mapq-project/mapq/internal/score"
)

// sampleDistrict pairs a district with its sampling weight.
type sampleDistrict struct {
	entity  *geo.Entity
	polygon geo.Polygon
	areaKm2 float64
}

// resolveDistricts looks up the selected districts and computes their areas.
// Zero-area districts are kept in the list but carry no sampling weight.
func resolveDistricts(world World, ids []string) ([]sampleDistrict, float64, error) {
	if len(ids) == 0 {
		return nil, 0, ErrEmptyDistrictSelection
	}

	districts := make([]sampleDistrict, 0, len(ids))
	var totalArea float64
	for _, id := range ids {
		entity, err := world.District(id)
		if err != nil {
			return nil, 0, err
		}
		pg, ok := entity.Polygon()
		if !ok {
			return nil, 0, fmt.Errorf("district %s has non-polygon geometry", id)
		}

		area := pg.AreaKm2()
		districts = append(districts, sampleDistrict{entity: entity, polygon: pg, areaKm2: area})
		totalArea += area
	}
	return districts, totalArea, nil
}

// sampleCandidates draws count points uniformly across the selected
// districts. Districts are chosen proportionally to area, then a point is
// rejection-sampled inside the chosen district's polygon. Candidate IDs
// follow acceptance order, so a fixed RNG reproduces the batch exactly.
func sampleCandidates(rng *rand.Rand, districts []sampleDistrict, totalArea float64, count, attemptBudget int) ([]score.Candidate, error) {
	if totalArea <= 0 {
		return nil, fmt.Errorf("%w: selected districts have no area", ErrInsufficientCandidates)
	}

	candidates := make([]score.Candidate, 0, count)
	attempts := 0
	for len(candidates) < count {
		if attempts >= attemptBudget {
			return nil, fmt.Errorf("%w: placed %d of %d after %d attempts",
				ErrInsufficientCandidates, len(candidates), count, attempts)
		}
		attempts++

		d := pickDistrict(rng, districts, totalArea)
		bounds := d.polygon.Bounds()
		p := geo.Point{
			Lat: bounds.MinLat + rng.Float64()*(bounds.MaxLat-bounds.MinLat),
			Lon: bounds.MinLon + rng.Float64()*(bounds.MaxLon-bounds.MinLon),
		}
		if !d.polygon.Contains(p) {
			continue
		}

		candidates = append(candidates, score.Candidate{
			ID:         fmt.Sprintf("cand-%04d", len(candidates)+1),
			Point:      p,
			DistrictID: d.entity.ID,
		})
	}
	return candidates, nil
}

// pickDistrict selects a district proportionally to area.
func pickDistrict(rng *rand.Rand, districts []sampleDistrict, totalArea float64) sampleDistrict {
	target := rng.Float64() * totalArea
	var cum float64
	for _, d := range districts {
		cum += d.areaKm2
		if target < cum {
			return d
		}
	}
	return districts[len(districts)-1]
}
