// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package geo

import "errors"

// ErrDataNotLoaded is returned when a spatial query runs before the store
// has been populated.
var ErrDataNotLoaded = errors.New("geo data not loaded")

// ErrUnknownKind is returned for an entity kind the store does not know.
var ErrUnknownKind = errors.New("unknown entity kind")

// ErrUnknownDistrict is returned when a district ID does not resolve.
var ErrUnknownDistrict = errors.New("unknown district")

// ErrInvalidGeometry is returned for nil, out-of-range, or self-intersecting
// geometry.
var ErrInvalidGeometry = errors.New("invalid geometry")
