// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package resultstore

import (
	"context"
	"time"

	"github.com/mapq-project/mapq/internal/engine"
	"github.com/mapq-project/mapq/internal/session"
)

// PersistObserver writes freshly computed rankings to the store. Register
// it after the recommendation observer so the cache entry for the new state
// is already populated when it runs.
type PersistObserver struct {
	store *Store
	cache *session.Cache
}

// NewPersistObserver creates the persistence observer.
func NewPersistObserver(store *Store, cache *session.Cache) *PersistObserver {
	return &PersistObserver{store: store, cache: cache}
}

// Name implements session.Observer.
func (o *PersistObserver) Name() string { return "persist" }

// OnChange implements session.Observer.
func (o *PersistObserver) OnChange(_ context.Context, _, new session.Snapshot) error {
	key := new.CacheKey()
	results, ok := o.cache.Get(key)
	if !ok {
		// Nothing computed for this state yet; persistence stays lazy.
		return nil
	}
	return o.store.Save(key, &engine.Ranking{
		Strategy:    new.StrategyID,
		DistrictIDs: new.DistrictIDs,
		Results:     results,
		GeneratedAt: time.Now().UTC(),
	})
}
