// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import "errors"

// ErrUnknownStrategy is returned when a strategy identifier is not
// registered.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ErrInvalidCandidate is returned when a candidate lies outside the loaded
// city's bounding region.
var ErrInvalidCandidate = errors.New("candidate outside loaded city bounds")

// ErrInvalidWeights is returned for a weight config with negative weights
// or a non-positive sum.
var ErrInvalidWeights = errors.New("invalid weight configuration")
