// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/metrics"
)

// Message types for client communication.
const (
	MessageTypeStateChanged = "state_changed"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message is the envelope sent to websocket clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	logger     zerolog.Logger
	mu         sync.RWMutex
}

// NewHub creates a hub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With().Str("component", "websocket-hub").Logger(),
	}
}

// Run processes client lifecycle and broadcast events until ctx is
// cancelled. Lifecycle events take priority over broadcasts so client state
// is consistent before messages are delivered.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// Broadcast queues a message for every connected client. A full broadcast
// queue drops the message rather than blocking the producer.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	msg := Message{Type: messageType, Data: data}
	select {
	case h.broadcast <- msg:
	default:
		metrics.WSSendFailures.Inc()
		h.logger.Warn().Str("message_type", messageType).Msg("broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.logger.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.logger.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// broadcastToClients delivers to clients in ID order. Clients whose send
// buffer is full are dropped; a stalled browser must not block the rest.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSSendFailures.Inc()
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
		h.logger.Warn().Int("dropped", len(toRemove)).Msg("dropped slow websocket clients")
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}

	metrics.WSConnections.Set(0)
	h.logger.Info().Int("clients_closed", len(clients)).Msg("websocket hub stopped")
}
