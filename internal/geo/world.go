// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package geo

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/metrics"
)

// Loader produces entities of one kind, already reprojected to WGS84.
// Implementations live behind the load boundary (GeoJSON files, CSV via
// DuckDB, remote fetches); the core never parses source formats itself.
type Loader interface {
	LoadEntities(ctx context.Context, kind Kind) ([]*Entity, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, kind Kind) ([]*Entity, error)

// LoadEntities implements Loader.
func (f LoaderFunc) LoadEntities(ctx context.Context, kind Kind) ([]*Entity, error) {
	return f(ctx, kind)
}

// WorldModel exclusively owns the single active Store for its lifetime.
// The first Store() call triggers the load of all entity kinds under a
// one-time guard; concurrent callers block until that load completes or
// fails, and the outcome is sticky. Spatial queries fail with
// ErrDataNotLoaded until the store is populated.
//
// The model is an explicit ownership handle passed through constructors, not
// a process global, so tests can run isolated stores side by side.
type WorldModel struct {
	loader Loader
	logger zerolog.Logger

	once    sync.Once
	store   *Store
	loadErr error
	loaded  atomic.Bool

	// boundsPadKm pads the city bounding region used for candidate
	// validity checks, so locations on a district edge still evaluate.
	boundsPadKm float64
}

// NewWorldModel creates a world model over the given loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWorldModel(loader Loader, logger zerolog.Logger) *WorldModel {
	return &WorldModel{
		loader:      loader,
		logger:      logger.With().Str("component", "worldmodel").Logger(),
		boundsPadKm: 2,
	}
}

// Store returns the singleton entity store, loading it on first call.
// The load covers every entity kind and is idempotent.
func (w *WorldModel) Store(ctx context.Context) (*Store, error) {
	w.once.Do(func() {
		w.store, w.loadErr = w.loadAll(ctx)
		if w.loadErr == nil {
			w.loaded.Store(true)
		}
	})

	if w.loadErr != nil {
		return nil, fmt.Errorf("load: %w", w.loadErr)
	}
	return w.store, nil
}

// loadAll loads every entity kind through the loader.
func (w *WorldModel) loadAll(ctx context.Context) (*Store, error) {
	start := time.Now()
	var entities []*Entity
	counts := make(map[string]int, len(Kinds()))

	for _, kind := range Kinds() {
		loaded, err := w.loader.LoadEntities(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", kind, err)
		}
		entities = append(entities, loaded...)
		counts[kind.String()] = len(loaded)

		w.logger.Debug().
			Str("kind", kind.String()).
			Int("count", len(loaded)).
			Msg("loaded entity kind")
	}

	store, err := NewStore(entities)
	if err != nil {
		return nil, err
	}

	metrics.RecordDatasetLoad(time.Since(start), counts)
	w.logger.Info().
		Int("entities", store.Len()).
		Dur("duration", time.Since(start)).
		Msg("world model loaded")

	return store, nil
}

// loadedStore returns the store without triggering a load.
func (w *WorldModel) loadedStore() (*Store, error) {
	if !w.loaded.Load() {
		return nil, ErrDataNotLoaded
	}
	return w.store, nil
}

// QueryNearest returns the k entities of the given kind closest to p,
// distance ascending with ties broken by entity ID.
func (w *WorldModel) QueryNearest(kind Kind, p Point, k int) ([]Neighbor, error) {
	store, err := w.loadedStore()
	if err != nil {
		return nil, err
	}

	idx, err := store.index(kind)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, nil
	}
	return idx.nearest(p, k), nil
}

// QueryWithin returns the entities of the given kind inside the polygon.
func (w *WorldModel) QueryWithin(kind Kind, pg Polygon) ([]*Entity, error) {
	store, err := w.loadedStore()
	if err != nil {
		return nil, err
	}

	idx, err := store.index(kind)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, nil
	}
	return idx.within(pg), nil
}

// QueryWithinRadius returns the entities of the given kind within radiusKm
// of p, distance ascending.
func (w *WorldModel) QueryWithinRadius(kind Kind, p Point, radiusKm float64) ([]Neighbor, error) {
	store, err := w.loadedStore()
	if err != nil {
		return nil, err
	}

	idx, err := store.index(kind)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, nil
	}
	return idx.withinRadius(p, radiusKm), nil
}

// District returns one district entity by ID.
func (w *WorldModel) District(id string) (*Entity, error) {
	store, err := w.loadedStore()
	if err != nil {
		return nil, err
	}
	return store.District(id)
}

// Districts returns all district entities, sorted by ID.
func (w *WorldModel) Districts() ([]*Entity, error) {
	store, err := w.loadedStore()
	if err != nil {
		return nil, err
	}
	return store.Districts(), nil
}

// Bounds returns the padded bounding region of the loaded city.
func (w *WorldModel) Bounds() (BoundingBox, error) {
	store, err := w.loadedStore()
	if err != nil {
		return BoundingBox{}, err
	}
	return store.Bounds().Pad(w.boundsPadKm), nil
}

// ContainsPoint reports whether p lies inside the loaded city's padded
// bounding region.
func (w *WorldModel) ContainsPoint(p Point) (bool, error) {
	bounds, err := w.Bounds()
	if err != nil {
		return false, err
	}
	return bounds.Contains(p), nil
}
