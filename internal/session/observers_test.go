// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/engine"
	"github.com/mapq-project/mapq/internal/metrics"
	"github.com/mapq-project/mapq/internal/score"
)

// fakeRunner returns canned rankings and counts invocations.
type fakeRunner struct {
	calls atomic.Int64
	block bool
}

func (f *fakeRunner) Run(ctx context.Context, params engine.Params) (*engine.Ranking, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &engine.Ranking{
		Strategy: params.StrategyID,
		Results: []score.Result{
			{Candidate: score.Candidate{ID: "cand-0001"}, Strategy: params.StrategyID, Score: 0.9},
			{Candidate: score.Candidate{ID: "cand-0002"}, Strategy: params.StrategyID, Score: 0.4},
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// wiredSession builds a MapState with both observers attached.
func wiredSession(t *testing.T, runner Runner, timeout time.Duration) (*MapState, *Cache) {
	t.Helper()
	state := NewMapState(testDistricts(t, "centro", "norte"), testRegistry(), zerolog.Nop())
	cache := NewCache(zerolog.Nop())
	state.Subscribe(NewCacheObserver(cache))
	state.Subscribe(NewRecommendationObserver(runner, cache, state, timeout, zerolog.Nop()))
	return state, cache
}

// selectAll drives the state to a runnable snapshot.
func selectAll(t *testing.T, state *MapState, districts []string, strategy string, weights score.WeightConfig) {
	t.Helper()
	ctx := context.Background()
	if err := state.SelectDistricts(ctx, districts); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}
	if err := state.SelectStrategy(ctx, strategy); err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if err := state.SetWeights(ctx, weights); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
}

func TestRecommendationObserverPopulatesStateAndCache(t *testing.T) {
	runner := &fakeRunner{}
	state, cache := wiredSession(t, runner, 0)

	selectAll(t, state, []string{"centro"}, "quality_of_life", score.WeightConfig{score.CriterionSafety: 1})

	snap := state.Snapshot()
	if !snap.HasResults() {
		t.Fatal("state has no ranking after completing the selection")
	}
	if snap.Results[0].Candidate.ID != "cand-0001" {
		t.Errorf("unexpected top result %s", snap.Results[0].Candidate.ID)
	}
	if _, ok := cache.Get(snap.CacheKey()); !ok {
		t.Error("ranking not cached")
	}
	// Runner fires once, on the first transition that completes the tuple.
	if got := runner.calls.Load(); got != 1 {
		t.Errorf("runner invoked %d times, want 1", got)
	}
}

func TestRecommendationObserverCacheHitSkipsRunner(t *testing.T) {
	runner := &fakeRunner{}
	state, _ := wiredSession(t, runner, 0)
	weights := score.WeightConfig{score.CriterionSafety: 1}

	selectAll(t, state, []string{"centro"}, "quality_of_life", weights)
	if got := runner.calls.Load(); got != 1 {
		t.Fatalf("runner invoked %d times after first selection", got)
	}

	// Switch strategy away and back: the second arrival is a cache hit.
	ctx := context.Background()
	if err := state.SelectStrategy(ctx, "tourist"); err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if err := state.SelectStrategy(ctx, "quality_of_life"); err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}

	if got := runner.calls.Load(); got != 2 {
		t.Errorf("runner invoked %d times, want 2 (tourist miss only)", got)
	}
	if !state.Snapshot().HasResults() {
		t.Error("cache hit did not repopulate the state")
	}
}

func TestRecommendationObserverRecordsCacheLookups(t *testing.T) {
	runner := &fakeRunner{}
	state, _ := wiredSession(t, runner, 0)

	hitsBefore := testutil.ToFloat64(metrics.CacheHits)
	missesBefore := testutil.ToFloat64(metrics.CacheMisses)

	// Completing the tuple performs one lookup, a miss.
	selectAll(t, state, []string{"centro"}, "quality_of_life", score.WeightConfig{score.CriterionSafety: 1})
	if got := testutil.ToFloat64(metrics.CacheMisses); got != missesBefore+1 {
		t.Errorf("misses = %f, want %f", got, missesBefore+1)
	}

	// Away (miss) and back (hit).
	ctx := context.Background()
	if err := state.SelectStrategy(ctx, "tourist"); err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if err := state.SelectStrategy(ctx, "quality_of_life"); err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}

	if got := testutil.ToFloat64(metrics.CacheMisses); got != missesBefore+2 {
		t.Errorf("misses = %f, want %f", got, missesBefore+2)
	}
	if got := testutil.ToFloat64(metrics.CacheHits); got != hitsBefore+1 {
		t.Errorf("hits = %f, want %f", got, hitsBefore+1)
	}
}

func TestTwoWeightConfigsProduceTwoCacheEntries(t *testing.T) {
	runner := &fakeRunner{}
	state, cache := wiredSession(t, runner, 0)

	selectAll(t, state, []string{"centro"}, "quality_of_life", score.WeightConfig{score.CriterionSafety: 1})
	firstKey := state.Snapshot().CacheKey()

	if err := state.SetWeights(context.Background(), score.WeightConfig{score.CriterionSafety: 0.3, score.CriterionGreen: 0.7}); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
	secondKey := state.Snapshot().CacheKey()

	if firstKey == secondKey {
		t.Fatal("different weights share a cache key")
	}
	if _, ok := cache.Get(firstKey); !ok {
		t.Error("first weight config's entry overwritten")
	}
	if _, ok := cache.Get(secondKey); !ok {
		t.Error("second weight config's entry missing")
	}
}

func TestRecommendationObserverTimeoutLeavesEntryUnset(t *testing.T) {
	runner := &fakeRunner{block: true}
	state, cache := wiredSession(t, runner, 10*time.Millisecond)

	selectAll(t, state, []string{"centro"}, "quality_of_life", score.WeightConfig{score.CriterionSafety: 1})

	snap := state.Snapshot()
	if snap.HasResults() {
		t.Error("timed-out run still produced results")
	}
	if _, ok := cache.Get(snap.CacheKey()); ok {
		t.Error("timed-out run populated the cache")
	}
	// The tuple itself survives; only the ranking is pending.
	if snap.StrategyID != "quality_of_life" {
		t.Errorf("selection lost after timeout: %q", snap.StrategyID)
	}
}

func TestRecommendationObserverIdleBeforeSelectionComplete(t *testing.T) {
	runner := &fakeRunner{}
	state, _ := wiredSession(t, runner, 0)

	if err := state.SelectDistricts(context.Background(), []string{"centro"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}
	if got := runner.calls.Load(); got != 0 {
		t.Errorf("runner invoked %d times before strategy and weights were chosen", got)
	}
}

func TestCacheObserverMarksAbandonedKeyEvictable(t *testing.T) {
	runner := &fakeRunner{}
	state, cache := wiredSession(t, runner, 0)

	selectAll(t, state, []string{"centro"}, "quality_of_life", score.WeightConfig{score.CriterionSafety: 1})
	abandoned := state.Snapshot().CacheKey()

	if err := state.SelectDistricts(context.Background(), []string{"norte"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}

	cache.Sweep()
	if _, ok := cache.Get(abandoned); ok {
		t.Error("abandoned key survived a sweep with no references")
	}
	if _, ok := cache.Get(state.Snapshot().CacheKey()); !ok {
		t.Error("current key swept")
	}
}
