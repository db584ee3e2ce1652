// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package geo holds the geospatial world model: immutable entities
// (districts, transit stops and lines, parks, tourist places, crime records),
// the per-city entity store, and spatial query operations over it.
//
// # Ownership
//
// A WorldModel owns at most one Store. The store is loaded once, on the
// first Store() call, under a one-time guard; concurrent callers block until
// the load completes or fails. Entities are immutable after construction and
// a Store never changes after load - reloading city data means constructing
// a new Store through a new WorldModel.
//
// # Spatial queries
//
// Nearest-k and within-polygon queries are served by a spatial hash grid
// built per entity kind at load time. Cells partition the lat/lon plane so a
// proximity query only inspects cells near the query point instead of the
// whole entity set. Results are deterministic: distance ascending, ties
// broken by entity ID.
package geo
