// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import (
	"context"
	"fmt"

	"github.com/mapq-project/mapq/internal/geo"
)

const (
	// crimeRadiusKm is the radius used for crime density around a point.
	crimeRadiusKm = 1.0

	// amenityRadiusKm is the radius used when counting nearby amenities.
	amenityRadiusKm = 1.0

	// farDistanceKm stands in for "nothing of this kind nearby" when a
	// kind loaded zero entities, so empty layers still measure as poor
	// rather than failing the evaluation.
	farDistanceKm = 10.0

	// hubSearchK is how many nearest transit stops are inspected when
	// looking for a major hub (a stop with a station attribute).
	hubSearchK = 10
)

// checkCandidate verifies the candidate lies inside the loaded city bounds.
func checkCandidate(world WorldView, cand Candidate) error {
	inside, err := world.ContainsPoint(cand.Point)
	if err != nil {
		return err
	}
	if !inside {
		return fmt.Errorf("%w: %s at (%f, %f)", ErrInvalidCandidate, cand.ID, cand.Point.Lat, cand.Point.Lon)
	}
	return nil
}

// nearestDistanceKm measures the distance to the closest entity of a kind,
// or farDistanceKm when none are loaded.
func nearestDistanceKm(world WorldView, kind geo.Kind, p geo.Point) (float64, error) {
	neighbors, err := world.QueryNearest(kind, p, 1)
	if err != nil {
		return 0, err
	}
	if len(neighbors) == 0 {
		return farDistanceKm, nil
	}
	return neighbors[0].DistanceKm, nil
}

// crimeDensity counts crime records within crimeRadiusKm of p.
func crimeDensity(world WorldView, p geo.Point) (float64, error) {
	crimes, err := world.QueryWithinRadius(geo.KindCrimeRecord, p, crimeRadiusKm)
	if err != nil {
		return 0, err
	}
	return float64(len(crimes)), nil
}

// amenityCount counts tourist places within amenityRadiusKm of p. Tourist
// places double as the commerce/amenity layer for the convenience strategy.
func amenityCount(world WorldView, p geo.Point) (float64, error) {
	amenities, err := world.QueryWithinRadius(geo.KindTouristPlace, p, amenityRadiusKm)
	if err != nil {
		return 0, err
	}
	return float64(len(amenities)), nil
}

// hubDistanceKm measures the distance to the nearest major transit hub: the
// closest of the hubSearchK nearest stops carrying a "station" attribute,
// falling back to the nearest plain stop.
func hubDistanceKm(world WorldView, p geo.Point) (float64, error) {
	neighbors, err := world.QueryNearest(geo.KindTransitStop, p, hubSearchK)
	if err != nil {
		return 0, err
	}
	if len(neighbors) == 0 {
		return farDistanceKm, nil
	}

	for _, n := range neighbors {
		if _, ok := n.Entity.Attr("station"); ok {
			return n.DistanceKm, nil
		}
	}
	return neighbors[0].DistanceKm, nil
}

// contextErr surfaces cancellation before an evaluation starts.
func contextErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
