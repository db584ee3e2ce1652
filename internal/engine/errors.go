// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package engine

import "errors"

var (
	// ErrEmptyDistrictSelection is returned when a run is requested with
	// no districts selected.
	ErrEmptyDistrictSelection = errors.New("no districts selected")

	// ErrInsufficientCandidates is returned when rejection sampling cannot
	// place the requested number of candidates inside the selected
	// districts within the attempt budget.
	ErrInsufficientCandidates = errors.New("could not sample enough candidates")

	// ErrCancelled is returned when a run is cut short by context
	// cancellation or deadline expiry. The context error stays wrapped, so
	// errors.Is still matches context.Canceled and DeadlineExceeded.
	ErrCancelled = errors.New("run cancelled")
)
