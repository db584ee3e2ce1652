// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package load turns source datasets into geo entities. Vector kinds come
// from GeoJSON files; crime incidents come from CSV read through DuckDB.
// An optional fetcher downloads remote datasets to the local data directory
// before loading, behind a rate limiter and a circuit breaker.
//
// The core geo package never sees source formats; everything here hides
// behind the geo.Loader interface.
package load
