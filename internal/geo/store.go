// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package geo

import (
	"fmt"
	"sort"
)

// defaultCellSizeKm is the spatial index cell size. City-scale data with
// sub-kilometer proximity queries wants fine cells.
const defaultCellSizeKm = 0.5

// Store is the immutable per-city entity collection, partitioned by kind.
// A Store is safe for unlimited concurrent readers. It cannot be modified
// after construction; reloading city data requires building a new Store.
type Store struct {
	byKind  map[Kind][]*Entity
	byID    map[string]*Entity
	indexes map[Kind]*spatialIndex
	bounds  BoundingBox
	total   int
}

// NewStore validates, partitions, and indexes the given entities.
// Duplicate IDs within one kind are rejected.
func NewStore(entities []*Entity) (*Store, error) {
	s := &Store{
		byKind:  make(map[Kind][]*Entity),
		byID:    make(map[string]*Entity),
		indexes: make(map[Kind]*spatialIndex),
	}

	for _, e := range entities {
		if e == nil {
			return nil, fmt.Errorf("%w: nil entity", ErrInvalidGeometry)
		}
		if e.Geometry == nil {
			return nil, fmt.Errorf("%w: entity %s has no geometry", ErrInvalidGeometry, e.ID)
		}
		if err := e.Geometry.Validate(); err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.ID, err)
		}
		if !e.Kind.Valid() {
			return nil, fmt.Errorf("%w: entity %s kind %q", ErrUnknownKind, e.ID, e.Kind)
		}
		if _, dup := s.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate entity id %q", e.ID)
		}

		s.byKind[e.Kind] = append(s.byKind[e.Kind], e)
		s.byID[e.ID] = e
		s.total++

		if s.total == 1 {
			s.bounds = e.Geometry.Bounds()
		} else {
			s.bounds = s.bounds.Union(e.Geometry.Bounds())
		}
	}

	for kind, list := range s.byKind {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		s.indexes[kind] = newSpatialIndex(list, defaultCellSizeKm)
	}

	return s, nil
}

// ByKind returns the entities of one kind, ID ascending. The returned slice
// is shared and must not be mutated.
func (s *Store) ByKind(kind Kind) ([]*Entity, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return s.byKind[kind], nil
}

// ByID looks up a single entity.
func (s *Store) ByID(id string) (*Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// District resolves a district entity by ID.
func (s *Store) District(id string) (*Entity, error) {
	e, ok := s.byID[id]
	if !ok || e.Kind != KindDistrict {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDistrict, id)
	}
	return e, nil
}

// Districts returns all district entities, ID ascending.
func (s *Store) Districts() []*Entity {
	return s.byKind[KindDistrict]
}

// Bounds returns the bounding box of all loaded entities.
func (s *Store) Bounds() BoundingBox { return s.bounds }

// Len returns the total entity count.
func (s *Store) Len() int { return s.total }

// KindLen returns the entity count for one kind.
func (s *Store) KindLen(kind Kind) int { return len(s.byKind[kind]) }

// index returns the spatial index for a kind, which may be nil when the
// kind loaded zero entities.
func (s *Store) index(kind Kind) (*spatialIndex, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return s.indexes[kind], nil
}
