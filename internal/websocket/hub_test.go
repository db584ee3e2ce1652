// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/eventfeed"
	"github.com/mapq-project/mapq/internal/session"
)

// startHub runs the hub until the test ends.
func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("hub Run returned %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("hub did not stop")
		}
	})
	return hub, cancel
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.ClientCount(), want)
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub, _ := startHub(t)

	a := NewClient(hub, nil, zerolog.Nop())
	b := NewClient(hub, nil, zerolog.Nop())
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.Broadcast(MessageTypeStateChanged, map[string]string{"strategy": "tourist"})

	for _, client := range []*Client{a, b} {
		select {
		case msg := <-client.send:
			if msg.Type != MessageTypeStateChanged {
				t.Errorf("message type = %q", msg.Type)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("client received nothing")
		}
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub, _ := startHub(t)

	client := NewClient(hub, nil, zerolog.Nop())
	hub.Register <- client
	waitForClients(t, hub, 1)

	hub.Unregister <- client
	waitForClients(t, hub, 0)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, _ := startHub(t)

	slow := NewClient(hub, nil, zerolog.Nop())
	// Drain capacity so the next broadcast cannot be queued.
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- Message{Type: MessageTypePong}
	}
	hub.Register <- slow
	waitForClients(t, hub, 1)

	hub.Broadcast(MessageTypeStateChanged, nil)
	waitForClients(t, hub, 0)
}

func TestPumpForwardsStateChanges(t *testing.T) {
	hub, _ := startHub(t)
	feed := eventfeed.New(zerolog.Nop())
	defer feed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pump := NewPump(feed, hub, zerolog.Nop())
	go func() { _ = pump.Run(ctx) }()

	client := NewClient(hub, nil, zerolog.Nop())
	hub.Register <- client
	waitForClients(t, hub, 1)

	next := session.Snapshot{StrategyID: "quality_of_life", DistrictIDs: []string{"centro"}}
	if err := feed.OnChange(ctx, session.Snapshot{}, next); err != nil {
		t.Fatalf("OnChange: %v", err)
	}

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeStateChanged {
			t.Fatalf("message type = %q", msg.Type)
		}
		event, ok := msg.Data.(eventfeed.StateChangedEvent)
		if !ok {
			t.Fatalf("data = %T", msg.Data)
		}
		if event.New.StrategyID != "quality_of_life" {
			t.Errorf("strategy = %q", event.New.StrategyID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no state change delivered")
	}
}
