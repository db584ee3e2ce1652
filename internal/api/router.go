// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mapq-project/mapq/internal/config"
	"github.com/mapq-project/mapq/internal/middleware"
)

// Router assembles the chi route tree.
type Router struct {
	handler *Handler
	ws      *WebSocketHandler
	cfg     config.ServerConfig
}

// NewRouter creates the router. ws may be nil to disable the live feed
// endpoint.
func NewRouter(handler *Handler, ws *WebSocketHandler, cfg config.ServerConfig) *Router {
	return &Router{handler: handler, ws: ws, cfg: cfg}
}

// Setup builds the route tree with the global middleware stack.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	// Permissive limit for health so monitoring never trips it.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.rateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/strategies", rt.handler.Strategies)
		r.Get("/districts", rt.handler.Districts)

		r.Get("/session", rt.handler.Session)
		r.Put("/session/districts", rt.handler.SelectDistricts)
		r.Put("/session/strategy", rt.handler.SelectStrategy)
		r.Put("/session/weights", rt.handler.SetWeights)

		r.Get("/recommendations", rt.handler.Recommendations)
		r.Get("/rankings", rt.handler.Rankings)
		r.Get("/rankings/current", rt.handler.RankingCurrent)

		// Layers gzip well; everything else is small enough not to bother.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Compression)
			r.Get("/layers", rt.handler.LayerCatalog)
			r.Get("/layers/{name}", rt.handler.Layer)
		})
	})

	if rt.ws != nil {
		r.Handle("/api/v1/ws", rt.ws)
	}

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (rt *Router) rateLimit() func(http.Handler) http.Handler {
	if rt.cfg.RateLimitReqs <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(rt.cfg.RateLimitReqs, rt.cfg.RateLimitWindow)
}
