// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package validation

import (
	"strings"
	"testing"
)

type districtSelection struct {
	Districts []string `validate:"required,min=1,dive,required"`
}

type weightUpdate struct {
	Weights map[string]float64 `validate:"required,min=1"`
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&districtSelection{Districts: []string{"centro"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(&districtSelection{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Fields) != 1 || err.Fields[0].Tag != "required" {
		t.Errorf("fields = %+v", err.Fields)
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestValidateStructEmptyElement(t *testing.T) {
	err := ValidateStruct(&districtSelection{Districts: []string{"centro", ""}})
	if err == nil {
		t.Fatal("expected validation error for empty district ID")
	}
}

func TestValidateStructEmptyMap(t *testing.T) {
	err := ValidateStruct(&weightUpdate{Weights: map[string]float64{}})
	if err == nil {
		t.Fatal("expected validation error for empty weights")
	}
	if err.Fields[0].Tag != "min" {
		t.Errorf("tag = %q, want min", err.Fields[0].Tag)
	}
}

func TestValidatorIsSingleton(t *testing.T) {
	if Validator() != Validator() {
		t.Error("Validator returned different instances")
	}
}
