// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package metrics exposes Prometheus instrumentation for the recommendation
// pipeline: engine runs, the ranking cache, dataset loading, HTTP traffic,
// and websocket fan-out. Collectors are registered with the default registry
// via promauto and served at /metrics.
package metrics
