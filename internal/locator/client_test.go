package locator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type noopMetrics struct{}

func (noopMetrics) RecordExternalStatus(string, int)            {}
func (noopMetrics) RecordExternalLatency(string, time.Duration) {}

// memCache is an in-process Cache for tests.
type memCache struct {
	data map[string]string
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	m.sets++
	return nil
}

func newTestClient(serverURL string, cache Cache) *Client {
	return NewClient(
		http.DefaultClient,
		serverURL,
		serverURL,
		cache,
		time.Hour,
		noopMetrics{},
		slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)),
	)
}

func TestGeocode_FirstResultWins(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"28.6139","lon":"77.2090"},{"lat":"1.0","lon":"2.0"}]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)

	coord, err := c.Geocode(context.Background(), "New Delhi")
	if err != nil {
		t.Fatalf("Geocode returned error: %v", err)
	}

	if gotQuery != "New Delhi" {
		t.Errorf("query param = %q, want %q", gotQuery, "New Delhi")
	}
	if coord.Lat != 28.6139 || coord.Lon != 77.2090 {
		t.Errorf("coord = %+v, want first result", coord)
	}
}

func TestGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)

	_, err := c.Geocode(context.Background(), "xyzzy nowhere")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("got %v, want ErrNoResults", err)
	}
}

func TestGeocode_CacheHitSkipsService(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"lat":"28.6139","lon":"77.2090"}]`))
	}))
	defer srv.Close()

	cache := newMemCache()
	c := newTestClient(srv.URL, cache)

	if _, err := c.Geocode(context.Background(), "New Delhi"); err != nil {
		t.Fatalf("first Geocode: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}

	coord, err := c.Geocode(context.Background(), "New Delhi")
	if err != nil {
		t.Fatalf("second Geocode: %v", err)
	}
	if calls != 1 {
		t.Errorf("service called %d times, want 1 (second hit served from cache)", calls)
	}
	if coord.Lat != 28.6139 {
		t.Errorf("cached coord = %+v", coord)
	}
}

func TestGeocode_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)

	if _, err := c.Geocode(context.Background(), "New Delhi"); err == nil {
		t.Fatal("expected error on 503 from geocoder")
	}
}

func TestNearbyHospitals_SortedAndLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// three nodes at increasing distance from the origin, returned unsorted
		w.Write([]byte(`{"elements":[
			{"lat":28.70,"lon":77.2090,"tags":{"name":"Far Hospital","addr:full":"12 Ring Road"}},
			{"lat":28.6150,"lon":77.2090,"tags":{"name":"Near Hospital","addr:street":"MG Road"}},
			{"lat":28.65,"lon":77.2090,"tags":{}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)
	origin := Coordinate{Lat: 28.6139, Lon: 77.2090}

	hospitals, err := c.NearbyHospitals(context.Background(), origin, 5)
	if err != nil {
		t.Fatalf("NearbyHospitals returned error: %v", err)
	}

	if len(hospitals) != 3 {
		t.Fatalf("got %d hospitals, want 3", len(hospitals))
	}

	if hospitals[0].Name != "Near Hospital" || hospitals[2].Name != "Far Hospital" {
		t.Errorf("hospitals not sorted by distance: %v, %v, %v",
			hospitals[0].Name, hospitals[1].Name, hospitals[2].Name)
	}
	for i := 1; i < len(hospitals); i++ {
		if hospitals[i].DistanceKm < hospitals[i-1].DistanceKm {
			t.Errorf("distance order broken at %d: %v < %v", i, hospitals[i].DistanceKm, hospitals[i-1].DistanceKm)
		}
	}

	// tag fallbacks
	if hospitals[0].Address != "MG Road" {
		t.Errorf("addr:street fallback = %q, want MG Road", hospitals[0].Address)
	}
	if hospitals[1].Name != "Unknown Hospital" || hospitals[1].Address != "Address not available" {
		t.Errorf("untagged node = %q / %q", hospitals[1].Name, hospitals[1].Address)
	}
	if hospitals[2].Address != "12 Ring Road" {
		t.Errorf("addr:full = %q, want 12 Ring Road", hospitals[2].Address)
	}

	// shorter list when limit is smaller
	hospitals, err = c.NearbyHospitals(context.Background(), origin, 3)
	if err != nil {
		t.Fatalf("NearbyHospitals with limit 3: %v", err)
	}
	if len(hospitals) != 3 {
		t.Errorf("got %d hospitals, want 3", len(hospitals))
	}

	// unsupported limit clamps to 5, not to the raw value
	hospitals, err = c.NearbyHospitals(context.Background(), origin, 1)
	if err != nil {
		t.Fatalf("NearbyHospitals with limit 1: %v", err)
	}
	if len(hospitals) != 3 {
		t.Errorf("clamped limit returned %d hospitals, want all 3", len(hospitals))
	}
}
