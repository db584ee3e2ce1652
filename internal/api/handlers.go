// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/geo"
	"github.com/mapq-project/mapq/internal/layers"
	"github.com/mapq-project/mapq/internal/resultstore"
	"github.com/mapq-project/mapq/internal/score"
	"github.com/mapq-project/mapq/internal/session"
)

// Handler implements every HTTP endpoint. The ranking store is optional;
// persisted-ranking endpoints answer 503 when persistence is disabled.
type Handler struct {
	state    *session.MapState
	world    *geo.WorldModel
	registry *score.Registry
	layers   *layers.Registry
	rankings *resultstore.Store
	logger   zerolog.Logger
}

// NewHandler wires the handler to its collaborators. rankings may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(
	state *session.MapState,
	world *geo.WorldModel,
	registry *score.Registry,
	layerRegistry *layers.Registry,
	rankings *resultstore.Store,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		state:    state,
		world:    world,
		registry: registry,
		layers:   layerRegistry,
		rankings: rankings,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, map[string]string{"status": "ok"})
}

// HealthReady reports whether the city data is loaded and queryable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	districts, err := h.world.Districts()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, map[string]interface{}{
		"status":    "ready",
		"districts": len(districts),
	})
}

// strategyView is the wire form of a strategy catalog entry.
type strategyView struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Criteria    []string `json:"criteria"`
}

// Strategies lists the registered scoring strategies.
func (h *Handler) Strategies(w http.ResponseWriter, r *http.Request) {
	ids := h.registry.IDs()
	views := make([]strategyView, 0, len(ids))
	for _, id := range ids {
		strategy, err := h.registry.Resolve(id)
		if err != nil {
			continue
		}
		criteria := strategy.Criteria()
		names := make([]string, len(criteria))
		for i, c := range criteria {
			names[i] = c.Name
		}
		views = append(views, strategyView{
			ID:          id,
			Description: strategy.Description(),
			Criteria:    names,
		})
	}
	writeSuccess(w, r, map[string]interface{}{"strategies": views})
}

// districtView is the wire form of a district listing entry.
type districtView struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	AreaKm float64 `json:"area_km2"`
}

// Districts lists the loaded districts.
func (h *Handler) Districts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.world.Districts()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	views := make([]districtView, 0, len(districts))
	for _, d := range districts {
		view := districtView{ID: d.ID, Name: d.Name}
		if pg, ok := d.Polygon(); ok {
			view.AreaKm = pg.AreaKm2()
		}
		views = append(views, view)
	}
	writeSuccess(w, r, map[string]interface{}{"districts": views})
}

// sessionView is the wire form of the session snapshot.
type sessionView struct {
	Districts   []string           `json:"districts"`
	Strategy    string             `json:"strategy"`
	Weights     map[string]float64 `json:"weights"`
	ResultCount int                `json:"result_count"`
	CacheKey    string             `json:"cache_key"`
}

func snapshotView(snap session.Snapshot) sessionView {
	districts := snap.DistrictIDs
	if districts == nil {
		districts = []string{}
	}
	return sessionView{
		Districts:   districts,
		Strategy:    snap.StrategyID,
		Weights:     map[string]float64(snap.Weights),
		ResultCount: len(snap.Results),
		CacheKey:    snap.CacheKey(),
	}
}

// Session returns the current session state.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, snapshotView(h.state.Snapshot()))
}

// SelectDistricts replaces the district selection.
func (h *Handler) SelectDistricts(w http.ResponseWriter, r *http.Request) {
	var req SelectDistrictsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.state.SelectDistricts(r.Context(), req.Districts); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, snapshotView(h.state.Snapshot()))
}

// SelectStrategy replaces the active strategy.
func (h *Handler) SelectStrategy(w http.ResponseWriter, r *http.Request) {
	var req SelectStrategyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.state.SelectStrategy(r.Context(), req.Strategy); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, snapshotView(h.state.Snapshot()))
}

// SetWeights replaces the weight configuration.
func (h *Handler) SetWeights(w http.ResponseWriter, r *http.Request) {
	var req SetWeightsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.state.SetWeights(r.Context(), score.WeightConfig(req.Weights)); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, snapshotView(h.state.Snapshot()))
}

// resultView is the wire form of one ranked location.
type resultView struct {
	Rank     int     `json:"rank"`
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	District string  `json:"district"`
	Score    float64 `json:"score"`
}

func resultViews(results []score.Result) []resultView {
	views := make([]resultView, 0, len(results))
	for i, res := range results {
		views = append(views, resultView{
			Rank:     i + 1,
			ID:       res.Candidate.ID,
			Lat:      res.Candidate.Point.Lat,
			Lon:      res.Candidate.Point.Lon,
			District: res.Candidate.DistrictID,
			Score:    res.Score,
		})
	}
	return views
}

// Recommendations returns the current ranking. The optional top query
// parameter limits the result count.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()

	results := snap.Results
	if topParam := r.URL.Query().Get("top"); topParam != "" {
		top, err := strconv.Atoi(topParam)
		if err != nil || top < 1 {
			writeError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "top must be a positive integer")
			return
		}
		if top < len(results) {
			results = results[:top]
		}
	}

	writeSuccess(w, r, map[string]interface{}{
		"strategy":  snap.StrategyID,
		"districts": snap.DistrictIDs,
		"results":   resultViews(results),
	})
}

// Rankings lists the keys of persisted rankings.
func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	if h.rankings == nil {
		writeError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "ranking persistence disabled")
		return
	}
	keys, err := h.rankings.Keys()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeSuccess(w, r, map[string]interface{}{"keys": keys})
}

// RankingCurrent loads the persisted ranking for the current session key.
func (h *Handler) RankingCurrent(w http.ResponseWriter, r *http.Request) {
	if h.rankings == nil {
		writeError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "ranking persistence disabled")
		return
	}

	key := h.state.Snapshot().CacheKey()
	ranking, err := h.rankings.Load(key)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, map[string]interface{}{
		"key":          key,
		"run_id":       ranking.RunID,
		"strategy":     ranking.Strategy,
		"districts":    ranking.DistrictIDs,
		"generated_at": ranking.GeneratedAt,
		"results":      resultViews(ranking.Results),
	})
}

// LayerCatalog lists the available map layers with their styles.
func (h *Handler) LayerCatalog(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, map[string]interface{}{"layers": h.layers.Catalog()})
}

// Layer renders one named layer as a GeoJSON FeatureCollection. The body is
// the bare collection, not the API envelope, so map libraries can consume
// it directly.
func (h *Handler) Layer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	fc, err := h.layers.Build(r.Context(), name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		h.logger.Error().Err(err).Str("layer", name).Msg("failed to encode layer")
	}
}
