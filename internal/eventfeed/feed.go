// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package eventfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/session"
)

// TopicStateChanged carries one event per session transition.
const TopicStateChanged = "session.state_changed"

// StateChangedEvent is the published payload.
type StateChangedEvent struct {
	Old        session.Snapshot `json:"old"`
	New        session.Snapshot `json:"new"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Feed is an in-process pub/sub channel for session events. It implements
// session.Observer so it can be subscribed directly to a MapState.
type Feed struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
}

// New creates the feed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(logger zerolog.Logger) *Feed {
	feedLogger := logger.With().Str("component", "eventfeed").Logger()

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		// Slow websocket consumers must not stall state transitions.
		OutputChannelBuffer: 64,
	}, newWatermillAdapter(feedLogger))

	return &Feed{pubsub: pubsub, logger: feedLogger}
}

// Name implements session.Observer.
func (f *Feed) Name() string { return "eventfeed" }

// OnChange implements session.Observer, publishing the transition.
func (f *Feed) OnChange(_ context.Context, old, new session.Snapshot) error {
	payload, err := json.Marshal(StateChangedEvent{
		Old:        old,
		New:        new,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal state change: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := f.pubsub.Publish(TopicStateChanged, msg); err != nil {
		return fmt.Errorf("publish state change: %w", err)
	}
	return nil
}

// Subscribe returns a channel of state-change events. The subscription ends
// when ctx is cancelled.
func (f *Feed) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	messages, err := f.pubsub.Subscribe(ctx, TopicStateChanged)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicStateChanged, err)
	}
	return messages, nil
}

// Close shuts the channel down, releasing all subscribers.
func (f *Feed) Close() error {
	return f.pubsub.Close()
}

// watermillAdapter bridges Watermill's logging onto zerolog.
type watermillAdapter struct {
	logger zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newWatermillAdapter(logger zerolog.Logger) watermill.LoggerAdapter {
	return &watermillAdapter{logger: logger}
}

func (a *watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.event(a.logger.Error().Err(err), msg, fields)
}

func (a *watermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.event(a.logger.Info(), msg, fields)
}

func (a *watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.event(a.logger.Debug(), msg, fields)
}

func (a *watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.event(a.logger.Trace(), msg, fields)
}

func (a *watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := a.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &watermillAdapter{logger: ctx.Logger()}
}

func (a *watermillAdapter) event(e *zerolog.Event, msg string, fields watermill.LogFields) {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}
