// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

// neutralSubscore is assigned when a criterion has no spread across the
// batch (all candidates measured the same value).
const neutralSubscore = 0.5

// NormalizeBatch min-max scales each criterion's raw measures to [0,1] over
// the given batch and inverts cost-like criteria so every sub-score is a
// goodness value. A criterion with no spread normalizes to the range
// midpoint for every candidate, with one exception: a cost-like criterion
// that is uniformly zero (no crime anywhere, a park at every doorstep)
// normalizes to the maximum, since zero cost is unambiguously best.
//
// Scaling is relative to the batch, not to global constants: sub-scores and
// final scores are only comparable within one engine run.
func NormalizeBatch(samples []Sample, criteria []Criterion) []map[string]float64 {
	normalized := make([]map[string]float64, len(samples))
	for i := range normalized {
		normalized[i] = make(map[string]float64, len(criteria))
	}

	for _, crit := range criteria {
		lo, hi, present := rawRange(samples, crit.Name)
		if !present {
			continue
		}

		for i, s := range samples {
			raw, ok := s.Raw[crit.Name]
			if !ok {
				continue
			}

			var scaled float64
			switch {
			case hi == lo && crit.LowerIsBetter && lo == 0:
				normalized[i][crit.Name] = 1
				continue
			case hi == lo:
				scaled = neutralSubscore
			default:
				scaled = (raw - lo) / (hi - lo)
			}

			if crit.LowerIsBetter {
				scaled = 1 - scaled
			}
			normalized[i][crit.Name] = scaled
		}
	}

	return normalized
}

// rawRange finds the min and max raw value of one criterion in the batch.
func rawRange(samples []Sample, name string) (lo, hi float64, present bool) {
	for _, s := range samples {
		v, ok := s.Raw[name]
		if !ok {
			continue
		}
		if !present {
			lo, hi, present = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, present
}

// clamp01 bounds a score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
