// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package websocket

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/eventfeed"
)

// Pump subscribes to the event feed and forwards state changes to the hub.
type Pump struct {
	feed   *eventfeed.Feed
	hub    *Hub
	logger zerolog.Logger
}

// NewPump creates the feed-to-hub bridge.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPump(feed *eventfeed.Feed, hub *Hub, logger zerolog.Logger) *Pump {
	return &Pump{
		feed:   feed,
		hub:    hub,
		logger: logger.With().Str("component", "websocket-pump").Logger(),
	}
}

// Run forwards events until ctx is cancelled. A malformed payload is logged
// and acked; it must not wedge the subscription.
func (p *Pump) Run(ctx context.Context) error {
	messages, err := p.feed.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe event feed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}

			var event eventfeed.StateChangedEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				p.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed state change event")
				msg.Ack()
				continue
			}

			p.hub.Broadcast(MessageTypeStateChanged, event)
			msg.Ack()
		}
	}
}
