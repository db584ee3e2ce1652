// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engine metrics
	EngineRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_run_duration_seconds",
			Help:    "Duration of recommendation engine runs in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	EngineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_runs_total",
			Help: "Total number of recommendation engine runs",
		},
		[]string{"strategy", "outcome"}, // outcome: "success", "error", "timeout"
	)

	EngineCandidatesSampled = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_candidates_sampled",
			Help:    "Number of candidate locations sampled per run",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500},
		},
	)

	// Ranking cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_cache_hits_total",
			Help: "Total number of ranking cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_cache_misses_total",
			Help: "Total number of ranking cache misses",
		},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ranking_cache_entries",
			Help: "Current number of ranking cache entries",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_cache_evictions_total",
			Help: "Total number of ranking cache entries removed by sweeps",
		},
	)

	// Session metrics
	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Total number of session state transitions",
		},
		[]string{"kind"}, // "districts", "strategy", "weights"
	)

	ObserverErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_observer_errors_total",
			Help: "Total number of observer failures during notification",
		},
		[]string{"observer"},
	)

	// Dataset loading metrics
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Duration of world model dataset loads in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	DatasetEntitiesLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_entities_loaded",
			Help: "Number of entities loaded per kind",
		},
		[]string{"kind"},
	)

	FetcherState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_fetcher_breaker_state",
			Help: "Dataset fetcher circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// WebSocket metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_send_failures_total",
			Help: "Total number of WebSocket sends dropped or failed",
		},
	)
)

// RecordEngineRun records the outcome and latency of one engine run.
func RecordEngineRun(strategy string, duration time.Duration, err error) {
	EngineRunDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	EngineRunsTotal.WithLabelValues(strategy, outcome).Inc()
}

// RecordEngineTimeout records a run cut short by the recompute deadline.
func RecordEngineTimeout(strategy string) {
	EngineRunsTotal.WithLabelValues(strategy, "timeout").Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
}

// RecordCacheSweep records the result of a cache sweep.
func RecordCacheSweep(removed, remaining int) {
	CacheEvictions.Add(float64(removed))
	CacheSize.Set(float64(remaining))
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDatasetLoad records a completed world model load.
func RecordDatasetLoad(duration time.Duration, entitiesByKind map[string]int) {
	DatasetLoadDuration.Observe(duration.Seconds())
	for kind, count := range entitiesByKind {
		DatasetEntitiesLoaded.WithLabelValues(kind).Set(float64(count))
	}
}
