// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package middleware provides chi-compatible HTTP middleware: request ID
// propagation, Prometheus instrumentation, and gzip compression for the
// GeoJSON-heavy layer endpoints.
package middleware
