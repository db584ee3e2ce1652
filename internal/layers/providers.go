// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package layers

import (
	"context"
	"fmt"

	"github.com/mapq-project/mapq/internal/geo"
	"github.com/mapq-project/mapq/internal/session"
)

// EntitySource is the slice of the world model layers read.
type EntitySource interface {
	Store(ctx context.Context) (*geo.Store, error)
}

// KindLayer renders every entity of one kind.
type KindLayer struct {
	name   string
	kind   geo.Kind
	style  Style
	source EntitySource
}

// NewKindLayer creates a layer over one entity kind.
func NewKindLayer(name string, kind geo.Kind, style Style, source EntitySource) *KindLayer {
	return &KindLayer{name: name, kind: kind, style: style, source: source}
}

// Name implements Provider.
func (l *KindLayer) Name() string { return l.name }

// Style implements Provider.
func (l *KindLayer) Style() Style { return l.style }

// Build implements Provider.
func (l *KindLayer) Build(ctx context.Context) (FeatureCollection, error) {
	store, err := l.source.Store(ctx)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("layer %s: %w", l.name, err)
	}

	entities, err := store.ByKind(l.kind)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("layer %s: %w", l.name, err)
	}
	features := make([]Feature, 0, len(entities))
	for _, e := range entities {
		geom, err := encodeGeometry(e.Geometry)
		if err != nil {
			return FeatureCollection{}, fmt.Errorf("layer %s entity %s: %w", l.name, e.ID, err)
		}

		props := map[string]any{"kind": string(e.Kind)}
		if e.Name != "" {
			props["name"] = e.Name
		}
		for k, v := range e.Attrs {
			props[k] = v
		}
		features = append(features, Feature{
			Type:       "Feature",
			ID:         e.ID,
			Geometry:   geom,
			Properties: props,
		})
	}
	return newCollection(features), nil
}

// ResultsLayer renders the current session ranking as scored point markers.
type ResultsLayer struct {
	state *session.MapState
	style Style
}

// NewResultsLayer creates the ranking layer.
func NewResultsLayer(state *session.MapState, style Style) *ResultsLayer {
	return &ResultsLayer{state: state, style: style}
}

// Name implements Provider.
func (l *ResultsLayer) Name() string { return "recommendations" }

// Style implements Provider.
func (l *ResultsLayer) Style() Style { return l.style }

// Build implements Provider. An empty ranking renders as an empty
// collection, not an error; the session may still be selecting criteria.
func (l *ResultsLayer) Build(_ context.Context) (FeatureCollection, error) {
	snap := l.state.Snapshot()

	features := make([]Feature, 0, len(snap.Results))
	for rank, r := range snap.Results {
		features = append(features, Feature{
			Type: "Feature",
			ID:   r.Candidate.ID,
			Geometry: GeometryOut{
				Type:        "Point",
				Coordinates: [2]float64{r.Candidate.Point.Lon, r.Candidate.Point.Lat},
			},
			Properties: map[string]any{
				"rank":     rank + 1,
				"score":    r.Score,
				"strategy": r.Strategy,
				"district": r.Candidate.DistrictID,
			},
		})
	}
	return newCollection(features), nil
}

// RegisterDefaults fills the registry with the standard entity layers and
// the ranking layer.
func RegisterDefaults(r *Registry, source EntitySource, state *session.MapState) {
	r.Register(NewKindLayer("districts", geo.KindDistrict, Style{Color: "#4a5568", Opacity: 0.3, Weight: 2}, source))
	r.Register(NewKindLayer("transit_stops", geo.KindTransitStop, Style{Color: "#3182ce", Opacity: 0.9}, source))
	r.Register(NewKindLayer("transit_lines", geo.KindTransitLine, Style{Color: "#2b6cb0", Opacity: 0.7, Weight: 3}, source))
	r.Register(NewKindLayer("parks", geo.KindPark, Style{Color: "#38a169", Opacity: 0.6}, source))
	r.Register(NewKindLayer("tourist_places", geo.KindTouristPlace, Style{Color: "#d69e2e", Opacity: 0.9}, source))
	r.Register(NewKindLayer("crime", geo.KindCrimeRecord, Style{Color: "#e53e3e", Opacity: 0.4}, source))
	r.Register(NewResultsLayer(state, Style{Color: "#805ad5", Opacity: 1}))
}
