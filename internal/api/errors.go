// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/mapq-project/mapq/internal/engine"
	"github.com/mapq-project/mapq/internal/geo"
	"github.com/mapq-project/mapq/internal/layers"
	"github.com/mapq-project/mapq/internal/logging"
	"github.com/mapq-project/mapq/internal/resultstore"
	"github.com/mapq-project/mapq/internal/score"
	"github.com/mapq-project/mapq/internal/session"
)

// writeDomainError maps a domain error onto an HTTP status and writes the
// envelope. Unknown errors become an opaque 500; the details stay in the
// server log only.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, geo.ErrUnknownDistrict),
		errors.Is(err, score.ErrUnknownStrategy),
		errors.Is(err, layers.ErrUnknownLayer),
		errors.Is(err, resultstore.ErrRankingNotFound):
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, score.ErrInvalidWeights),
		errors.Is(err, engine.ErrEmptyDistrictSelection):
		writeError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())

	case errors.Is(err, engine.ErrInsufficientCandidates):
		writeError(w, r, http.StatusUnprocessableEntity, ErrCodeUnprocessable, err.Error())

	case errors.Is(err, geo.ErrDataNotLoaded):
		writeError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "city data not loaded")

	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "recommendation timed out")

	default:
		logging.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled API error")
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
