// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package api

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	ws "github.com/mapq-project/mapq/internal/websocket"
)

// WebSocketHandler upgrades connections and attaches them to the hub.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader gorilla.Upgrader
	logger   zerolog.Logger
}

// NewWebSocketHandler creates the upgrade handler. An empty allowedOrigins
// list restricts upgrades to same-origin requests.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, logger zerolog.Logger) *WebSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
		origins[o] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if wildcard {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Non-browser client; no origin to forge.
					return true
				}
				return origins[origin]
			},
		},
		logger: logger.With().Str("component", "websocket-handler").Logger(),
	}
}

// ServeHTTP implements http.Handler.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, h.logger)
	h.hub.Register <- client
	client.Start()
}
