// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

// baseStrategy carries the shared identity fields and the weighted-sum
// combination every variant starts from.
type baseStrategy struct {
	name        string
	description string
	criteria    []Criterion
}

// Name returns the registry identifier.
func (b *baseStrategy) Name() string { return b.name }

// Description returns the catalog summary.
func (b *baseStrategy) Description() string { return b.description }

// Criteria returns the criterion set of this strategy.
func (b *baseStrategy) Criteria() []Criterion {
	out := make([]Criterion, len(b.criteria))
	copy(out, b.criteria)
	return out
}

// weightedScore combines sub-scores via weighted sum over this strategy's
// criteria, normalized by the total weight actually present. Weight keys
// outside the criterion set are ignored; criteria without a weight
// contribute nothing.
func (b *baseStrategy) weightedScore(subscores map[string]float64, weights WeightConfig) float64 {
	var total, totalWeight float64

	for _, crit := range b.criteria {
		weight, ok := weights[crit.Name]
		if !ok || weight == 0 {
			continue
		}
		sub, ok := subscores[crit.Name]
		if !ok {
			continue
		}
		total += sub * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0
	}
	return total / totalWeight
}
