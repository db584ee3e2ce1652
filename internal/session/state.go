// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/engine"
	"github.com/mapq-project/mapq/internal/geo"
	"github.com/mapq-project/mapq/internal/metrics"
	"github.com/mapq-project/mapq/internal/score"
)

// DistrictResolver validates district identifiers against the loaded city.
type DistrictResolver interface {
	District(id string) (*geo.Entity, error)
}

// StrategyResolver validates strategy identifiers.
type StrategyResolver interface {
	Resolve(id string) (score.Strategy, error)
}

// Observer receives state-change notifications. OnChange runs synchronously
// in the transition call; a returned error (or panic) is wrapped as an
// ObserverError and reported without stopping dispatch.
type Observer interface {
	Name() string
	OnChange(ctx context.Context, old, new Snapshot) error
}

// MapState is the observable subject of one session. Transitions replace
// the snapshot atomically; the mutex only serializes the swap itself, as a
// session has a single logical writer.
type MapState struct {
	districts  DistrictResolver
	strategies StrategyResolver
	logger     zerolog.Logger

	mu        sync.RWMutex
	snap      Snapshot
	observers []Observer
}

// NewMapState creates a session state with an empty selection.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMapState(districts DistrictResolver, strategies StrategyResolver, logger zerolog.Logger) *MapState {
	return &MapState{
		districts:  districts,
		strategies: strategies,
		logger:     logger.With().Str("component", "mapstate").Logger(),
	}
}

// Subscribe appends an observer. Notification order follows registration
// order.
func (m *MapState) Subscribe(obs Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observers = append(m.observers, obs)
	m.logger.Debug().Str("observer", obs.Name()).Msg("observer subscribed")
}

// Snapshot returns a copy of the current state.
func (m *MapState) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.Clone()
}

// Params expresses the current snapshot as engine run parameters.
func (m *MapState) Params() engine.Params {
	snap := m.Snapshot()
	return engine.Params{
		DistrictIDs: snap.DistrictIDs,
		StrategyID:  snap.StrategyID,
		Weights:     snap.Weights,
	}
}

// SelectDistricts replaces the district selection. Every ID must resolve to
// a loaded district; an empty selection is rejected.
func (m *MapState) SelectDistricts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTransition, engine.ErrEmptyDistrictSelection)
	}
	for _, id := range ids {
		if _, err := m.districts.District(id); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}
	}

	return m.transition(ctx, "districts", func(next *Snapshot) {
		next.DistrictIDs = append([]string(nil), ids...)
	})
}

// SelectStrategy replaces the active strategy.
func (m *MapState) SelectStrategy(ctx context.Context, id string) error {
	if _, err := m.strategies.Resolve(id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}

	return m.transition(ctx, "strategy", func(next *Snapshot) {
		next.StrategyID = id
	})
}

// SetWeights replaces the weight configuration.
func (m *MapState) SetWeights(ctx context.Context, weights score.WeightConfig) error {
	if err := weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}

	return m.transition(ctx, "weights", func(next *Snapshot) {
		next.Weights = weights.Clone()
	})
}

// transition swaps in a modified snapshot with the ranking cleared and the
// version bumped, then notifies observers. Validation has already passed by
// the time mutate runs, so the swap cannot fail.
func (m *MapState) transition(ctx context.Context, kind string, mutate func(next *Snapshot)) error {
	m.mu.Lock()
	old := m.snap.Clone()
	next := m.snap.Clone()
	mutate(&next)
	next.Results = nil
	next.Version = old.Version + 1
	m.snap = next
	observers := append([]Observer(nil), m.observers...)
	m.mu.Unlock()

	metrics.SessionTransitions.WithLabelValues(kind).Inc()
	m.notify(ctx, observers, old, next.Clone())
	return nil
}

// notify dispatches the change to every observer in order. Failures are
// isolated: they are wrapped, logged, and never stop later observers.
func (m *MapState) notify(ctx context.Context, observers []Observer, old, next Snapshot) {
	for _, obs := range observers {
		if err := m.safeNotify(ctx, obs, old, next); err != nil {
			metrics.ObserverErrors.WithLabelValues(obs.Name()).Inc()
			m.logger.Error().
				Err(err).
				Str("observer", obs.Name()).
				Msg("observer failed")
		}
	}
}

// safeNotify invokes one observer, converting panics and errors into
// ObserverError.
func (m *MapState) safeNotify(ctx context.Context, obs Observer, old, next Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ObserverError{Observer: obs.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if cbErr := obs.OnChange(ctx, old, next); cbErr != nil {
		return &ObserverError{Observer: obs.Name(), Err: cbErr}
	}
	return nil
}

// applyResults attaches a ranking to the current snapshot without emitting
// a change notification. The write is skipped when the state has moved on
// to different criteria since the ranking was computed.
func (m *MapState) applyResults(forKey string, results []score.Result) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap.CacheKey() != forKey {
		return false
	}
	next := m.snap.Clone()
	next.Results = append([]score.Result(nil), results...)
	m.snap = next
	return true
}
