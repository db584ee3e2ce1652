// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/engine"
	"github.com/mapq-project/mapq/internal/geo"
	"github.com/mapq-project/mapq/internal/metrics"
	"github.com/mapq-project/mapq/internal/score"
)

// fakeDistricts resolves a fixed set of district IDs.
type fakeDistricts map[string]*geo.Entity

func (f fakeDistricts) District(id string) (*geo.Entity, error) {
	e, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", geo.ErrUnknownDistrict, id)
	}
	return e, nil
}

func testDistricts(t *testing.T, ids ...string) fakeDistricts {
	t.Helper()
	f := make(fakeDistricts, len(ids))
	for i, id := range ids {
		lat := -0.2 + float64(i)*0.05
		pg := geo.Polygon{Ring: []geo.Point{
			{Lat: lat, Lon: -78.52},
			{Lat: lat, Lon: -78.48},
			{Lat: lat + 0.02, Lon: -78.48},
			{Lat: lat + 0.02, Lon: -78.52},
		}}
		e, err := geo.NewEntity(id, geo.KindDistrict, id, pg, nil)
		if err != nil {
			t.Fatalf("NewEntity(%s): %v", id, err)
		}
		f[id] = e
	}
	return f
}

func testRegistry() *score.Registry {
	r := score.NewRegistry(zerolog.Nop())
	score.RegisterDefaults(r)
	return r
}

// recordingObserver captures notifications and can be told to fail.
type recordingObserver struct {
	name   string
	calls  []string
	old    []Snapshot
	new    []Snapshot
	fail   error
	panics bool
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) OnChange(_ context.Context, old, new Snapshot) error {
	o.calls = append(o.calls, o.name)
	o.old = append(o.old, old)
	o.new = append(o.new, new)
	if o.panics {
		panic("observer exploded")
	}
	return o.fail
}

func TestSelectDistrictsEmptyLeavesStateUnchanged(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro"), testRegistry(), zerolog.Nop())
	if err := state.SelectDistricts(context.Background(), []string{"centro"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}

	err := state.SelectDistricts(context.Background(), nil)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if !errors.Is(err, engine.ErrEmptyDistrictSelection) {
		t.Fatalf("expected wrapped ErrEmptyDistrictSelection, got %v", err)
	}

	snap := state.Snapshot()
	if len(snap.DistrictIDs) != 1 || snap.DistrictIDs[0] != "centro" {
		t.Errorf("prior selection lost: %v", snap.DistrictIDs)
	}
}

func TestSelectDistrictsUnknownID(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro"), testRegistry(), zerolog.Nop())

	err := state.SelectDistricts(context.Background(), []string{"centro", "atlantis"})
	if !errors.Is(err, ErrInvalidTransition) || !errors.Is(err, geo.ErrUnknownDistrict) {
		t.Fatalf("expected validation failure with district cause, got %v", err)
	}
	if got := state.Snapshot().DistrictIDs; len(got) != 0 {
		t.Errorf("partial update observable: %v", got)
	}
}

func TestSelectStrategyUnknownID(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro"), testRegistry(), zerolog.Nop())

	err := state.SelectStrategy(context.Background(), "party")
	if !errors.Is(err, ErrInvalidTransition) || !errors.Is(err, score.ErrUnknownStrategy) {
		t.Fatalf("expected validation failure with strategy cause, got %v", err)
	}
}

func TestSetWeightsInvalid(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro"), testRegistry(), zerolog.Nop())

	err := state.SetWeights(context.Background(), score.WeightConfig{score.CriterionSafety: -1})
	if !errors.Is(err, ErrInvalidTransition) || !errors.Is(err, score.ErrInvalidWeights) {
		t.Fatalf("expected validation failure with weights cause, got %v", err)
	}
}

func TestTransitionClearsResults(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro"), testRegistry(), zerolog.Nop())
	ctx := context.Background()

	if err := state.SelectDistricts(ctx, []string{"centro"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}
	key := state.Snapshot().CacheKey()
	if !state.applyResults(key, []score.Result{{Candidate: score.Candidate{ID: "cand-0001"}}}) {
		t.Fatal("applyResults rejected matching key")
	}
	if !state.Snapshot().HasResults() {
		t.Fatal("results not attached")
	}

	if err := state.SelectStrategy(ctx, "tourist"); err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if state.Snapshot().HasResults() {
		t.Error("transition must clear the ranking")
	}
}

func TestObserversNotifiedInOrderWithSnapshots(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro", "norte"), testRegistry(), zerolog.Nop())
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	state.Subscribe(first)
	state.Subscribe(second)

	ctx := context.Background()
	if err := state.SelectDistricts(ctx, []string{"centro"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}
	if err := state.SelectDistricts(ctx, []string{"norte"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}

	if len(first.calls) != 2 || len(second.calls) != 2 {
		t.Fatalf("calls: first=%d second=%d, want 2 each", len(first.calls), len(second.calls))
	}

	// Second notification carries the first selection as the old state.
	if got := first.old[1].DistrictIDs; len(got) != 1 || got[0] != "centro" {
		t.Errorf("old snapshot = %v, want [centro]", got)
	}
	if got := first.new[1].DistrictIDs; len(got) != 1 || got[0] != "norte" {
		t.Errorf("new snapshot = %v, want [norte]", got)
	}
}

func TestObserverFailureDoesNotBlockTransitionOrLaterObservers(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro"), testRegistry(), zerolog.Nop())
	failing := &recordingObserver{name: "failing", fail: errors.New("boom")}
	panicking := &recordingObserver{name: "panicking", panics: true}
	last := &recordingObserver{name: "last"}
	state.Subscribe(failing)
	state.Subscribe(panicking)
	state.Subscribe(last)

	if err := state.SelectDistricts(context.Background(), []string{"centro"}); err != nil {
		t.Fatalf("observer failure leaked to caller: %v", err)
	}
	if len(last.calls) != 1 {
		t.Error("later observer skipped after earlier failure")
	}
	if got := state.Snapshot().DistrictIDs; len(got) != 1 {
		t.Errorf("transition did not apply: %v", got)
	}
}

func TestTransitionsIncrementVersion(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro"), testRegistry(), zerolog.Nop())
	ctx := context.Background()

	if got := state.Snapshot().Version; got != 0 {
		t.Fatalf("fresh session version = %d, want 0", got)
	}

	if err := state.SelectDistricts(ctx, []string{"centro"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}
	if got := state.Snapshot().Version; got != 1 {
		t.Errorf("version after first transition = %d, want 1", got)
	}

	if err := state.SelectStrategy(ctx, "tourist"); err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if err := state.SetWeights(ctx, score.WeightConfig{score.CriterionTourist: 1}); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
	if got := state.Snapshot().Version; got != 3 {
		t.Errorf("version after three transitions = %d, want 3", got)
	}

	// A rejected transition does not advance the version.
	if err := state.SelectStrategy(ctx, "party"); err == nil {
		t.Fatal("expected rejection")
	}
	if got := state.Snapshot().Version; got != 3 {
		t.Errorf("version after rejected transition = %d, want 3", got)
	}

	// Attaching results keeps the version; the criteria did not change.
	key := state.Snapshot().CacheKey()
	if !state.applyResults(key, []score.Result{{Candidate: score.Candidate{ID: "cand-0001"}}}) {
		t.Fatal("applyResults rejected matching key")
	}
	if got := state.Snapshot().Version; got != 3 {
		t.Errorf("version after applyResults = %d, want 3", got)
	}
}

func TestTransitionRecordsMetrics(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro"), testRegistry(), zerolog.Nop())
	failing := &recordingObserver{name: "flaky", fail: errors.New("boom")}
	state.Subscribe(failing)

	transitions := metrics.SessionTransitions.WithLabelValues("districts")
	failures := metrics.ObserverErrors.WithLabelValues("flaky")
	transitionsBefore := testutil.ToFloat64(transitions)
	failuresBefore := testutil.ToFloat64(failures)

	if err := state.SelectDistricts(context.Background(), []string{"centro"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}

	if got := testutil.ToFloat64(transitions); got != transitionsBefore+1 {
		t.Errorf("district transitions = %f, want %f", got, transitionsBefore+1)
	}
	if got := testutil.ToFloat64(failures); got != failuresBefore+1 {
		t.Errorf("observer failures = %f, want %f", got, failuresBefore+1)
	}
}

func TestApplyResultsSkipsStaleKey(t *testing.T) {
	state := NewMapState(testDistricts(t, "centro", "norte"), testRegistry(), zerolog.Nop())
	ctx := context.Background()

	if err := state.SelectDistricts(ctx, []string{"centro"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}
	staleKey := state.Snapshot().CacheKey()

	if err := state.SelectDistricts(ctx, []string{"norte"}); err != nil {
		t.Fatalf("SelectDistricts: %v", err)
	}

	if state.applyResults(staleKey, []score.Result{{}}) {
		t.Error("stale ranking applied to a moved-on state")
	}
	if state.Snapshot().HasResults() {
		t.Error("stale ranking visible in snapshot")
	}
}

func TestObserverErrorCarriesObserverName(t *testing.T) {
	cause := errors.New("boom")
	err := &ObserverError{Observer: "cache", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("ObserverError must unwrap to its cause")
	}
	if err.Error() != "observer cache: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSnapshotCacheKeyOrderIndependent(t *testing.T) {
	w := score.WeightConfig{score.CriterionSafety: 1}
	a := Snapshot{DistrictIDs: []string{"norte", "centro"}, StrategyID: "tourist", Weights: w}
	b := Snapshot{DistrictIDs: []string{"centro", "norte"}, StrategyID: "tourist", Weights: w}

	if a.CacheKey() != b.CacheKey() {
		t.Errorf("district order changed cache key: %q vs %q", a.CacheKey(), b.CacheKey())
	}

	c := Snapshot{DistrictIDs: []string{"centro"}, StrategyID: "tourist", Weights: w}
	if a.CacheKey() == c.CacheKey() {
		t.Error("different selections share a cache key")
	}
}
