// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package session

import (
	"sort"
	"strings"

	"github.com/mapq-project/mapq/internal/score"
)

// Snapshot is one immutable state of the session. Transition operations
// build a new snapshot and swap it in whole; callers never observe a
// partially updated state.
type Snapshot struct {
	DistrictIDs []string           `json:"district_ids"`
	StrategyID  string             `json:"strategy_id"`
	Weights     score.WeightConfig `json:"weights"`

	// Results is the ranking for this snapshot's criteria, nil until an
	// observer populates it.
	Results []score.Result `json:"results,omitempty"`

	// Version increments on every transition. Attaching results preserves
	// it; the criteria did not change.
	Version uint64 `json:"version"`
}

// CacheKey identifies the (districts, strategy, weights) tuple of this
// snapshot. District order does not matter.
func (s Snapshot) CacheKey() string {
	districts := append([]string(nil), s.DistrictIDs...)
	sort.Strings(districts)

	var b strings.Builder
	b.WriteString(strings.Join(districts, ","))
	b.WriteByte('|')
	b.WriteString(s.StrategyID)
	b.WriteByte('|')
	b.WriteString(s.Weights.Canonical())
	return b.String()
}

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		DistrictIDs: append([]string(nil), s.DistrictIDs...),
		StrategyID:  s.StrategyID,
		Weights:     s.Weights.Clone(),
		Results:     append([]score.Result(nil), s.Results...),
		Version:     s.Version,
	}
}

// HasResults reports whether a ranking is attached.
func (s Snapshot) HasResults() bool { return len(s.Results) > 0 }
