// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package eventfeed broadcasts session state changes over an in-process
// Watermill pub/sub channel. The HTTP layer subscribes to push live updates
// to websocket clients; additional consumers can subscribe without touching
// the session package.
package eventfeed
