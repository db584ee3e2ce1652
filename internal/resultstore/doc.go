// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package resultstore persists computed rankings between sessions, keyed by
// the same (districts, strategy, weights) tuple the in-memory cache uses.
// Storage is BadgerDB; a restarted server can serve earlier rankings
// without rerunning the engine.
package resultstore
