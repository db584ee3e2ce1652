// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package supervisor provides Suture-based process supervision for mapq.
//
// The tree is organized into three layers:
//   - data: cache sweeper and other background maintenance
//   - messaging: WebSocket hub and the event feed pump
//   - api: HTTP server
//
// This structure gives failure isolation: a crash in the messaging layer
// does not take down the API layer, which keeps serving session state.
package supervisor
