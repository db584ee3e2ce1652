// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import (
	"errors"
	"testing"
)

func TestWeightConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights WeightConfig
		wantErr bool
	}{
		{
			name:    "valid",
			weights: WeightConfig{CriterionSafety: 0.6, CriterionGreen: 0.4},
		},
		{
			name:    "single criterion",
			weights: WeightConfig{CriterionTransit: 1},
		},
		{
			name:    "empty",
			weights: WeightConfig{},
			wantErr: true,
		},
		{
			name:    "nil",
			weights: nil,
			wantErr: true,
		},
		{
			name:    "negative weight",
			weights: WeightConfig{CriterionSafety: -0.1, CriterionGreen: 1.1},
			wantErr: true,
		},
		{
			name:    "all zero",
			weights: WeightConfig{CriterionSafety: 0, CriterionGreen: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWeights) {
					t.Errorf("expected ErrInvalidWeights, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestWeightConfigCloneIsIndependent(t *testing.T) {
	orig := WeightConfig{CriterionSafety: 0.5}
	clone := orig.Clone()
	clone[CriterionSafety] = 0.9
	clone[CriterionGreen] = 0.1

	if orig[CriterionSafety] != 0.5 {
		t.Errorf("mutating clone changed original: %f", orig[CriterionSafety])
	}
	if _, ok := orig[CriterionGreen]; ok {
		t.Error("mutating clone added key to original")
	}
}

func TestWeightConfigCanonicalIsOrderIndependent(t *testing.T) {
	a := WeightConfig{CriterionSafety: 0.5, CriterionGreen: 0.25, CriterionTransit: 0.25}
	b := WeightConfig{CriterionTransit: 0.25, CriterionSafety: 0.5, CriterionGreen: 0.25}

	if a.Canonical() != b.Canonical() {
		t.Errorf("canonical forms differ: %q vs %q", a.Canonical(), b.Canonical())
	}
}

func TestWeightConfigCanonicalDistinguishesValues(t *testing.T) {
	a := WeightConfig{CriterionSafety: 0.5, CriterionGreen: 0.5}
	b := WeightConfig{CriterionSafety: 0.7, CriterionGreen: 0.3}

	if a.Canonical() == b.Canonical() {
		t.Error("distinct weight configs produced the same canonical form")
	}
}
