package geo

import (
	"math"
	"testing"
)

func TestNewCoordinate(t *testing.T) {
	lat := 37.5
	lng := 127.0
	badLat := 95.0

	if _, err := NewCoordinate(&lat, &lng); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewCoordinate(nil, &lng); err == nil {
		t.Fatal("expected error for missing latitude")
	}
	if _, err := NewCoordinate(&lat, nil); err == nil {
		t.Fatal("expected error for missing longitude")
	}
	if _, err := NewCoordinate(&badLat, &lng); err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Coordinate{Lat: 37.5, Lng: 127.0}
	b := Coordinate{Lat: 37.6, Lng: 127.1}

	ab := Distance(a, b)
	ba := Distance(b, a)
	if ab != ba {
		t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
	}
	if ab <= 0 {
		t.Fatalf("expected positive distance, got %f", ab)
	}
}

func TestDistanceZeroForSamePoint(t *testing.T) {
	a := Coordinate{Lat: 37.5, Lng: 127.0}
	if d := Distance(a, a); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Seoul city hall to Busan city hall, roughly 325 km great-circle.
	seoul := Coordinate{Lat: 37.5665, Lng: 126.9780}
	busan := Coordinate{Lat: 35.1796, Lng: 129.0756}

	d := Distance(seoul, busan)
	if d < 320 || d > 330 {
		t.Fatalf("expected ~325 km, got %f", d)
	}
}

func TestDistanceRoundedToTwoDecimals(t *testing.T) {
	a := Coordinate{Lat: 37.5, Lng: 127.0}
	b := Coordinate{Lat: 37.6, Lng: 127.1}

	d := Distance(a, b)
	if d != Round2(d) {
		t.Fatalf("distance %f not rounded to 2 decimals", d)
	}
}

func TestRouteDistanceShortRoutes(t *testing.T) {
	a := Coordinate{Lat: 37.5, Lng: 127.0}

	if d := RouteDistance(nil); d != 0 {
		t.Fatalf("expected 0 for empty route, got %f", d)
	}
	if d := RouteDistance([]Coordinate{a}); d != 0 {
		t.Fatalf("expected 0 for single-point route, got %f", d)
	}
}

func TestRouteDistanceSamePoint(t *testing.T) {
	a := Coordinate{Lat: 37.5, Lng: 127.0}
	route := []Coordinate{a, a, a, a}
	if d := RouteDistance(route); d != 0 {
		t.Fatalf("expected 0 for stationary route, got %f", d)
	}
}

func TestRouteDistanceRoundsOnceAtEnd(t *testing.T) {
	home := Coordinate{Lat: 37.5, Lng: 127.0}
	stop := Coordinate{Lat: 37.6, Lng: 127.1}
	route := []Coordinate{home, stop, home}

	got := RouteDistance(route)
	want := Round2(2 * haversine(home, stop))
	if got != want {
		t.Fatalf("expected %f (single final rounding), got %f", want, got)
	}

	// Per-leg rounding would produce 2*Distance(home, stop); the two
	// policies only agree when the leg happens to round cleanly.
	perLeg := Round2(Distance(home, stop) * 2)
	if math.Abs(got-perLeg) > 0.011 {
		t.Fatalf("rounding drift too large: total %f vs per-leg %f", got, perLeg)
	}
}

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.0051, 1.01},
		{1.0049, 1.0},
		{12.345678, 12.35},
		{0, 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Round2(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}
