// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package load

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/mapq-project/mapq/internal/geo"
)

// featureCollection mirrors the GeoJSON structure we consume. Coordinates
// are [lon, lat] per RFC 7946.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id,omitempty"`
	Geometry   featureGeometry   `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type featureGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseGeoJSON decodes a FeatureCollection into entities of one kind.
// Feature IDs fall back to "<kind>-<index>" when the file carries none;
// the "name" property becomes the entity name, remaining properties become
// attributes.
func ParseGeoJSON(data []byte, kind geo.Kind) ([]*geo.Entity, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("parse geojson: expected FeatureCollection, got %q", fc.Type)
	}

	entities := make([]*geo.Entity, 0, len(fc.Features))
	for i, f := range fc.Features {
		geom, err := parseGeometry(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		id := f.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", kind, i+1)
		}
		name := f.Properties["name"]

		attrs := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			if k != "name" {
				attrs[k] = v
			}
		}

		entity, err := geo.NewEntity(id, kind, name, geom, attrs)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// parseGeometry converts one GeoJSON geometry into a geo.Geometry.
func parseGeometry(g featureGeometry) (geo.Geometry, error) {
	switch g.Type {
	case "Point":
		var coords [2]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("point coordinates: %w", err)
		}
		return geo.Point{Lat: coords[1], Lon: coords[0]}, nil

	case "LineString":
		var coords [][2]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("linestring coordinates: %w", err)
		}
		return geo.LineString{Points: toPoints(coords)}, nil

	case "Polygon":
		// Only the outer ring is used; holes are rare in district data
		// and do not affect candidate sampling materially.
		var rings [][][2]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("polygon coordinates: %w", err)
		}
		if len(rings) == 0 {
			return nil, fmt.Errorf("polygon has no rings")
		}
		return geo.Polygon{Ring: toPoints(rings[0])}, nil

	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func toPoints(coords [][2]float64) []geo.Point {
	points := make([]geo.Point, len(coords))
	for i, c := range coords {
		points[i] = geo.Point{Lat: c[1], Lon: c[0]}
	}
	return points
}

// GeoJSONFileLoader loads one entity kind from a GeoJSON file.
type GeoJSONFileLoader struct {
	path string
	kind geo.Kind
}

// NewGeoJSONFileLoader creates a loader for one file/kind pair.
func NewGeoJSONFileLoader(path string, kind geo.Kind) *GeoJSONFileLoader {
	return &GeoJSONFileLoader{path: path, kind: kind}
}

// Load reads and parses the file. A missing file yields no entities: a city
// without, say, transit lines is a thin dataset, not an error.
func (l *GeoJSONFileLoader) Load() ([]*geo.Entity, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}
	return ParseGeoJSON(data, l.kind)
}
