// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package layers

import (
	"fmt"

	"github.com/mapq-project/mapq/internal/geo"
)

// FeatureCollection is the GeoJSON output shape. Coordinates are
// [lon, lat] per RFC 7946.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Geometry   GeometryOut    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// GeometryOut holds an encoded GeoJSON geometry.
type GeometryOut struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// newCollection wraps features in a FeatureCollection envelope.
func newCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// encodeGeometry converts an internal geometry to GeoJSON.
func encodeGeometry(g geo.Geometry) (GeometryOut, error) {
	switch geom := g.(type) {
	case geo.Point:
		return GeometryOut{Type: "Point", Coordinates: [2]float64{geom.Lon, geom.Lat}}, nil
	case geo.LineString:
		return GeometryOut{Type: "LineString", Coordinates: toCoords(geom.Points)}, nil
	case geo.Polygon:
		ring := toCoords(geom.Ring)
		// GeoJSON rings are explicitly closed.
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		return GeometryOut{Type: "Polygon", Coordinates: [][][2]float64{ring}}, nil
	default:
		return GeometryOut{}, fmt.Errorf("unsupported geometry %T", g)
	}
}

func toCoords(points []geo.Point) [][2]float64 {
	coords := make([][2]float64, len(points))
	for i, p := range points {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	return coords
}
