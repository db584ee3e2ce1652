// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package session holds the observable map state for one interactive
// session: the selected districts, active strategy, weight configuration,
// and the current ranking.
//
// State is a snapshot replaced atomically by transition operations. Each
// transition clears the ranking and notifies observers in registration
// order with the prior and new snapshot; an observer failure is wrapped,
// logged, and never blocks the transition or the remaining observers.
//
// The cache keys rankings by (districts, strategy, weights), so switching
// criteria back and forth reuses earlier computations instead of rerunning
// the engine.
package session
