// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import (
	"fmt"
	"sort"
	"strings"
)

// WeightConfig maps criterion names to non-negative weights. One config may
// be shared loosely across strategies; keys a strategy does not score are
// ignored.
type WeightConfig map[string]float64

// Validate rejects empty configs, negative weights, and zero-sum configs.
func (w WeightConfig) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: no weights set", ErrInvalidWeights)
	}

	var sum float64
	for name, weight := range w {
		if weight < 0 {
			return fmt.Errorf("%w: %s is negative (%f)", ErrInvalidWeights, name, weight)
		}
		sum += weight
	}
	if sum <= 0 {
		return fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
	}
	return nil
}

// Clone returns an independent copy.
func (w WeightConfig) Clone() WeightConfig {
	if w == nil {
		return nil
	}
	c := make(WeightConfig, len(w))
	for k, v := range w {
		c[k] = v
	}
	return c
}

// Canonical returns a stable string form used in cache keys: criterion
// names sorted, weights fixed-precision.
func (w WeightConfig) Canonical() string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.6f", name, w[name]))
	}
	return strings.Join(parts, ",")
}
