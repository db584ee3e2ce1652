// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/metrics"
	"github.com/mapq-project/mapq/internal/session"
	"github.com/mapq-project/mapq/internal/websocket"
)

// HTTPServerService runs an http.Server under supervision with graceful
// shutdown when the supervisor context is canceled.
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewHTTPServerService wraps the given server. shutdownTimeout bounds the
// graceful drain on shutdown.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("component", "http-server").Logger(),
	}
}

// Serve implements suture.Service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("http server shutdown failed")
			return err
		}
		s.logger.Info().Msg("http server stopped")
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *HTTPServerService) String() string { return "http-server" }

// HubService adapts the WebSocket hub loop to suture.Service.
type HubService struct {
	hub *websocket.Hub
}

// NewHubService wraps the given hub.
func NewHubService(hub *websocket.Hub) *HubService {
	return &HubService{hub: hub}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.Run(ctx)
}

func (s *HubService) String() string { return "websocket-hub" }

// PumpService adapts the event feed pump to suture.Service.
type PumpService struct {
	pump *websocket.Pump
}

// NewPumpService wraps the given pump.
func NewPumpService(pump *websocket.Pump) *PumpService {
	return &PumpService{pump: pump}
}

// Serve implements suture.Service.
func (s *PumpService) Serve(ctx context.Context) error {
	return s.pump.Run(ctx)
}

func (s *PumpService) String() string { return "eventfeed-pump" }

// CacheSweeper periodically evicts unreferenced ranking cache entries.
type CacheSweeper struct {
	cache    *session.Cache
	interval time.Duration
	logger   zerolog.Logger
}

// NewCacheSweeper creates the sweeper. A non-positive interval falls back
// to one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheSweeper(cache *session.Cache, interval time.Duration, logger zerolog.Logger) *CacheSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheSweeper{
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("component", "cache-sweeper").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CacheSweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed := s.cache.Sweep()
			remaining := s.cache.Len()
			metrics.RecordCacheSweep(removed, remaining)
			if removed > 0 {
				s.logger.Debug().
					Int("removed", removed).
					Int("remaining", remaining).
					Msg("cache sweep")
			}
		}
	}
}

func (s *CacheSweeper) String() string { return "cache-sweeper" }
