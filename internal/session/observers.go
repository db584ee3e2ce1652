// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/engine"
	"github.com/mapq-project/mapq/internal/metrics"
)

// Runner is the slice of the recommendation engine observers invoke.
type Runner interface {
	Run(ctx context.Context, params engine.Params) (*engine.Ranking, error)
}

// CacheObserver keeps the cache's reachability bookkeeping in step with
// state changes. Computation is lazy: an absent entry for the new key is
// left for the RecommendationObserver (or the first read) to fill.
type CacheObserver struct {
	cache *Cache
}

// NewCacheObserver creates the cache bookkeeping observer.
func NewCacheObserver(cache *Cache) *CacheObserver {
	return &CacheObserver{cache: cache}
}

// Name implements Observer.
func (o *CacheObserver) Name() string { return "cache" }

// OnChange implements Observer. The new key gains a reference, the old key
// loses one and becomes evictable when nothing else holds it.
func (o *CacheObserver) OnChange(_ context.Context, old, new Snapshot) error {
	newKey, oldKey := new.CacheKey(), old.CacheKey()
	if newKey == oldKey {
		return nil
	}
	o.cache.Retain(newKey)
	o.cache.Release(oldKey)
	return nil
}

// RecommendationObserver recomputes the ranking after a transition. A cache
// hit populates the state immediately; a miss runs the engine synchronously
// under the configured timeout. On timeout the cache entry stays unset and
// the error surfaces as an ObserverError, never a partial ranking.
type RecommendationObserver struct {
	runner  Runner
	cache   *Cache
	state   *MapState
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRecommendationObserver creates the recomputation observer. A zero
// timeout disables the deadline.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendationObserver(runner Runner, cache *Cache, state *MapState, timeout time.Duration, logger zerolog.Logger) *RecommendationObserver {
	return &RecommendationObserver{
		runner:  runner,
		cache:   cache,
		state:   state,
		timeout: timeout,
		logger:  logger.With().Str("component", "recommendation_observer").Logger(),
	}
}

// Name implements Observer.
func (o *RecommendationObserver) Name() string { return "recommendation" }

// OnChange implements Observer.
func (o *RecommendationObserver) OnChange(ctx context.Context, _, new Snapshot) error {
	if new.HasResults() {
		return nil
	}
	if !new.runnable() {
		// Selection still incomplete (fresh session), nothing to compute.
		return nil
	}

	key := new.CacheKey()
	results, ok := o.cache.Get(key)
	metrics.RecordCacheLookup(ok)
	if ok {
		o.state.applyResults(key, results)
		o.logger.Debug().Str("key", key).Msg("ranking cache hit")
		return nil
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	ranking, err := o.runner.Run(ctx, engine.Params{
		DistrictIDs: new.DistrictIDs,
		StrategyID:  new.StrategyID,
		Weights:     new.Weights,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.RecordEngineTimeout(new.StrategyID)
		}
		return fmt.Errorf("recompute ranking: %w", err)
	}

	o.cache.Put(key, ranking.Results)
	o.state.applyResults(key, ranking.Results)
	o.logger.Debug().
		Str("key", key).
		Int("results", len(ranking.Results)).
		Msg("ranking recomputed")
	return nil
}

// runnable reports whether the snapshot carries everything a run needs.
func (s Snapshot) runnable() bool {
	return len(s.DistrictIDs) > 0 && s.StrategyID != "" && len(s.Weights) > 0
}
