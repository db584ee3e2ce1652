// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package geo

import (
	"errors"
	"math"
	"testing"
)

func squarePolygon(centerLat, centerLon, halfDeg float64) Polygon {
	return Polygon{Ring: []Point{
		{Lat: centerLat - halfDeg, Lon: centerLon - halfDeg},
		{Lat: centerLat - halfDeg, Lon: centerLon + halfDeg},
		{Lat: centerLat + halfDeg, Lon: centerLon + halfDeg},
		{Lat: centerLat + halfDeg, Lon: centerLon - halfDeg},
	}}
}

func TestPolygonContains(t *testing.T) {
	pg := squarePolygon(-0.2, -78.5, 0.05)

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{Lat: -0.2, Lon: -78.5}, true},
		{"inside corner", Point{Lat: -0.24, Lon: -78.54}, true},
		{"outside north", Point{Lat: -0.1, Lon: -78.5}, false},
		{"outside east", Point{Lat: -0.2, Lon: -78.4}, false},
		{"far away", Point{Lat: 40.0, Lon: -3.7}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pg.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolygonValidateRejectsSelfIntersection(t *testing.T) {
	// Bowtie: edges cross in the middle.
	bowtie := Polygon{Ring: []Point{
		{Lat: 0, Lon: 0},
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 0},
		{Lat: 0, Lon: 1},
	}}

	err := bowtie.Validate()
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry for self-intersecting ring, got %v", err)
	}
}

func TestPolygonValidateAcceptsClosedRing(t *testing.T) {
	pg := squarePolygon(-0.2, -78.5, 0.05)
	// Append explicit closing vertex; must still validate.
	pg.Ring = append(pg.Ring, pg.Ring[0])

	if err := pg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestPolygonValidateRejectsDegenerateRing(t *testing.T) {
	pg := Polygon{Ring: []Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}}
	if err := pg.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry for 2-point ring, got %v", err)
	}
}

func TestPointValidateRange(t *testing.T) {
	if err := (Point{Lat: 91, Lon: 0}).Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected range error for lat 91")
	}
	if err := (Point{Lat: 0, Lon: -181}).Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected range error for lon -181")
	}
	if err := (Point{Lat: -0.2, Lon: -78.5}).Validate(); err != nil {
		t.Errorf("valid point rejected: %v", err)
	}
}

func TestDistanceKm(t *testing.T) {
	// One degree of latitude is roughly 111km.
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 1, Lon: 0}

	d := DistanceKm(a, b)
	if math.Abs(d-111.2) > 1.0 {
		t.Errorf("DistanceKm = %f, want ~111.2", d)
	}

	if DistanceKm(a, a) != 0 {
		t.Errorf("distance to self should be 0")
	}
}

func TestPolygonAreaKm2(t *testing.T) {
	// 0.1 x 0.1 degree square near the equator is ~11.1km x ~11.1km.
	pg := squarePolygon(0, 0, 0.05)

	area := pg.AreaKm2()
	want := 11.1 * 11.1
	if math.Abs(area-want) > want*0.05 {
		t.Errorf("AreaKm2 = %f, want ~%f", area, want)
	}
}

func TestPolygonAreaKm2Degenerate(t *testing.T) {
	line := Polygon{Ring: []Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}}}
	if got := line.AreaKm2(); got != 0 {
		t.Errorf("collinear ring area = %f, want 0", got)
	}
}

func TestBoundingBoxUnionAndPad(t *testing.T) {
	a := BoundingBox{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1}
	b := BoundingBox{MinLat: -1, MinLon: 0.5, MaxLat: 0.5, MaxLon: 2}

	u := a.Union(b)
	if u.MinLat != -1 || u.MaxLat != 1 || u.MinLon != 0 || u.MaxLon != 2 {
		t.Errorf("Union = %+v", u)
	}

	padded := u.Pad(111)
	if padded.MinLat > -1.9 || padded.MaxLat < 1.9 {
		t.Errorf("Pad did not expand latitude: %+v", padded)
	}
	if !padded.Contains(Point{Lat: 1.5, Lon: 1}) {
		t.Errorf("padded box should contain nearby point")
	}
}

func TestPolygonCentroid(t *testing.T) {
	pg := squarePolygon(-0.2, -78.5, 0.05)
	c := pg.Centroid()
	if math.Abs(c.Lat-(-0.2)) > 1e-9 || math.Abs(c.Lon-(-78.5)) > 1e-9 {
		t.Errorf("Centroid = %+v, want (-0.2, -78.5)", c)
	}
}

func TestLineStringGeometry(t *testing.T) {
	l := LineString{Points: []Point{{Lat: 0, Lon: 0}, {Lat: 2, Lon: 2}}}

	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	c := l.Centroid()
	if c.Lat != 1 || c.Lon != 1 {
		t.Errorf("Centroid = %+v, want (1,1)", c)
	}
	if err := (LineString{Points: []Point{{Lat: 0, Lon: 0}}}).Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected error for 1-point line")
	}
}
