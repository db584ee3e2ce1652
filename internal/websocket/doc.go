// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package websocket pushes live session updates to connected map clients.
// A Hub fans out messages to registered clients; a Pump bridges the
// eventfeed's state-change stream into the hub so every selection change
// reaches the browser without polling.
package websocket
