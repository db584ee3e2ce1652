// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package score implements the pluggable scoring strategies of the
// recommendation engine.
//
// A Strategy measures raw per-criterion values for one candidate (distances
// to transit, park proximity, crime density near the point) as a pure
// function of the candidate and the world model. The engine then min-max
// normalizes each criterion over the current candidate batch and asks the
// strategy to finalize a weighted score. Because normalization is per batch,
// scores are only comparable within a single engine run.
//
// # Strategy variants
//
//   - convenience: services, transit access, green space
//   - quality_of_life: safety, transit access, green space
//   - tourist: tourist sites, transit hubs, services (ignores crime)
//
// New variants register with the Registry under an identifier; registration
// is last-write-wins so deployments can replace a variant without touching
// engine call sites.
package score
