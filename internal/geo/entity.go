// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package geo

import "fmt"

// Kind identifies the type of a geospatial entity.
type Kind string

// Entity kinds known to the store.
const (
	KindDistrict     Kind = "district"
	KindTransitStop  Kind = "transit_stop"
	KindTransitLine  Kind = "transit_line"
	KindPark         Kind = "park"
	KindTouristPlace Kind = "tourist_place"
	KindCrimeRecord  Kind = "crime_record"
)

// Kinds returns all known entity kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindDistrict,
		KindTransitStop,
		KindTransitLine,
		KindPark,
		KindTouristPlace,
		KindCrimeRecord,
	}
}

// Valid reports whether the kind is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDistrict, KindTransitStop, KindTransitLine, KindPark, KindTouristPlace, KindCrimeRecord:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Entity is a single immutable geospatial record. Construct entities through
// NewEntity; never mutate fields after construction.
type Entity struct {
	ID       string            `json:"id"`
	Kind     Kind              `json:"kind"`
	Name     string            `json:"name,omitempty"`
	Geometry Geometry          `json:"-"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

// NewEntity validates and constructs an entity. Geometry must be non-nil
// and well-formed.
func NewEntity(id string, kind Kind, name string, geom Geometry, attrs map[string]string) (*Entity, error) {
	if id == "" {
		return nil, fmt.Errorf("entity id must not be empty")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if geom == nil {
		return nil, fmt.Errorf("%w: entity %s has no geometry", ErrInvalidGeometry, id)
	}
	if err := geom.Validate(); err != nil {
		return nil, fmt.Errorf("entity %s: %w", id, err)
	}

	// Copy attrs so a caller-held map cannot mutate the entity later.
	var copied map[string]string
	if len(attrs) > 0 {
		copied = make(map[string]string, len(attrs))
		for k, v := range attrs {
			copied[k] = v
		}
	}

	return &Entity{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Geometry: geom,
		Attrs:    copied,
	}, nil
}

// Attr returns the named attribute value.
func (e *Entity) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Location returns the representative point of the entity.
func (e *Entity) Location() Point {
	return e.Geometry.Centroid()
}

// Polygon returns the entity geometry as a polygon if it is one.
func (e *Entity) Polygon() (Polygon, bool) {
	pg, ok := e.Geometry.(Polygon)
	return pg, ok
}
