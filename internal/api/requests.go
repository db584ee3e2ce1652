// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/mapq-project/mapq/internal/validation"
)

// SelectDistrictsRequest sets the active district selection.
type SelectDistrictsRequest struct {
	Districts []string `json:"districts" validate:"required,min=1,dive,required"`
}

// SelectStrategyRequest sets the active scoring strategy.
type SelectStrategyRequest struct {
	Strategy string `json:"strategy" validate:"required"`
}

// SetWeightsRequest replaces the criterion weight configuration.
type SetWeightsRequest struct {
	Weights map[string]float64 `json:"weights" validate:"required,min=1"`
}

// decodeAndValidate parses the JSON body into dst and applies struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		writeErrorDetails(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Fields)
		return false
	}
	return true
}
