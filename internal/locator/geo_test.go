package locator

import (
	"math"
	"testing"
)

func TestHaversine_SamePoint(t *testing.T) {
	if d := Haversine(28.6139, 77.2090, 28.6139, 77.2090); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestHaversine_OneDegreeAlongEquator(t *testing.T) {
	// One degree of longitude at the equator is about 111.19 km.
	d := Haversine(0, 0, 0, 1)
	if math.Abs(d-111.19) > 0.1 {
		t.Errorf("distance = %v km, want ~111.19", d)
	}
}

func TestHaversine_KnownCityPair(t *testing.T) {
	// New Delhi to Mumbai, roughly 1150 km great-circle.
	d := Haversine(28.6139, 77.2090, 19.0760, 72.8777)
	if d < 1100 || d > 1200 {
		t.Errorf("Delhi-Mumbai = %v km, want within 1100..1200", d)
	}
}

func TestHaversine_Symmetry(t *testing.T) {
	a := Haversine(28.6139, 77.2090, 19.0760, 72.8777)
	b := Haversine(19.0760, 72.8777, 28.6139, 77.2090)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("asymmetric distance: %v vs %v", a, b)
	}
}

func TestRoundKm(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.234567, 1.23},
		{1.235, 1.24},
		{0, 0},
		{12.999, 13},
	}
	for _, tc := range cases {
		if got := roundKm(tc.in); got != tc.want {
			t.Errorf("roundKm(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{3, 3},
		{5, 5},
		{7, 7},
		{10, 10},
		{0, 5},
		{-1, 5},
		{4, 5},
		{100, 5},
	}
	for _, tc := range cases {
		if got := ClampLimit(tc.in); got != tc.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
