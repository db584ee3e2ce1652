// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package main is the entry point for the mapq server.
//
// mapq recommends city locations: it samples candidate points inside the
// selected districts, scores them against geospatial criteria (safety,
// transit, green space, services, tourist sites) under a pluggable
// strategy, and serves the ranked results over a REST API with a live
// WebSocket feed of session changes.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, config.yaml, env)
//  2. Datasets: optional remote fetch, then GeoJSON and crime CSV loading
//     into the in-memory world model
//  3. Scoring: strategy registry with the built-in strategies
//  4. Engine: area-weighted sampler plus concurrent evaluation workers
//  5. Session: map state, ranking cache, and the observer chain
//  6. Messaging: event feed, WebSocket hub, and pump
//  7. HTTP server: chi router under a Suture supervisor tree
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the supervisor
// tree stops its services, the HTTP server drains in-flight requests, and
// the ranking store is closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/mapq-project/mapq/internal/api"
	"github.com/mapq-project/mapq/internal/config"
	"github.com/mapq-project/mapq/internal/engine"
	"github.com/mapq-project/mapq/internal/eventfeed"
	"github.com/mapq-project/mapq/internal/geo"
	"github.com/mapq-project/mapq/internal/geo/load"
	"github.com/mapq-project/mapq/internal/layers"
	"github.com/mapq-project/mapq/internal/logging"
	"github.com/mapq-project/mapq/internal/resultstore"
	"github.com/mapq-project/mapq/internal/score"
	"github.com/mapq-project/mapq/internal/session"
	"github.com/mapq-project/mapq/internal/supervisor"
	ws "github.com/mapq-project/mapq/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("city", cfg.City.Name).
		Str("country", cfg.City.Country).
		Str("addr", cfg.Server.Addr()).
		Msg("starting mapq")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Datasets. Prepare fetches remote files when enabled; the world model
	// loads everything on first use, so force the load here to fail fast.
	loader := load.NewDatasetLoader(cfg.Data, logger)
	if err := loader.Prepare(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to fetch datasets")
	}

	world := geo.NewWorldModel(loader, logger)
	if _, err := world.Store(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to load city data")
	}
	districts, err := world.Districts()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to query districts")
	}
	logging.Info().Int("districts", len(districts)).Msg("city data loaded")

	// Scoring and engine.
	registry := score.NewRegistry(logger)
	score.RegisterDefaults(registry)

	engineCfg := &engine.Config{
		CandidateCount:      cfg.Engine.CandidateCount,
		Workers:             cfg.Engine.Workers,
		Seed:                cfg.Engine.Seed,
		SampleAttemptFactor: cfg.Engine.SampleAttemptFactor,
	}
	eng, err := engine.NewEngine(engineCfg, world, registry, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create recommendation engine")
	}

	// Session state and observer chain. Order matters: the cache observer
	// moves reachability first, the recommendation observer recomputes,
	// persistence and the event feed see the final snapshot.
	state := session.NewMapState(world, registry, logger)
	cache := session.NewCache(logger)
	state.Subscribe(session.NewCacheObserver(cache))
	state.Subscribe(session.NewRecommendationObserver(eng, cache, state, cfg.Session.RecomputeTimeout, logger))

	var rankings *resultstore.Store
	if cfg.Results.Enabled {
		rankings, err = resultstore.Open(cfg.Results.Path, logger)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Results.Path).Msg("failed to open ranking store")
		}
		defer func() {
			if err := rankings.Close(); err != nil {
				logging.Error().Err(err).Msg("error closing ranking store")
			}
		}()
		state.Subscribe(resultstore.NewPersistObserver(rankings, cache))
		logging.Info().Str("path", cfg.Results.Path).Msg("ranking persistence enabled")
	}

	feed := eventfeed.New(logger)
	defer func() {
		if err := feed.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing event feed")
		}
	}()
	state.Subscribe(feed)

	// Map layers.
	layerRegistry := layers.NewRegistry()
	layers.RegisterDefaults(layerRegistry, world, state)

	// Messaging: hub broadcasts session changes the pump reads off the feed.
	hub := ws.NewHub(logger)
	pump := ws.NewPump(feed, hub, logger)

	// HTTP surface.
	handler := api.NewHandler(state, world, registry, layerRegistry, rankings, logger)
	wsHandler := api.NewWebSocketHandler(hub, cfg.Server.CORSOrigins, logger)
	router := api.NewRouter(handler, wsHandler, cfg.Server)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	// Supervisor tree. sutureslog wants slog, so bridge through the adapter.
	treeCfg := supervisor.DefaultTreeConfig()
	tree, err := supervisor.NewTree(logging.NewSlogLogger(logger), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create supervisor tree")
	}

	tree.AddDataService(supervisor.NewCacheSweeper(cache, cfg.Session.CacheSweepInterval, logger))
	tree.AddMessagingService(supervisor.NewHubService(hub))
	tree.AddMessagingService(supervisor.NewPumpService(pump))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, treeCfg.ShutdownTimeout, logger))

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("mapq ready")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited with error")
	}

	logging.Info().Msg("mapq stopped")
}
