// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package api exposes the HTTP surface of mapq on a chi router: session
// state transitions, recommendation reads, map layer rendering, persisted
// rankings, health, Prometheus metrics, and the live websocket feed.
//
// All responses use a uniform envelope (see response.go). Domain errors map
// onto HTTP status codes in errors.go; handlers never leak internal error
// strings for 5xx responses.
package api
