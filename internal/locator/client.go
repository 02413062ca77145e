package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/arogyalink/health-portal/internal/metrics"
)

// ErrNoResults means the geocoder returned an empty result set for the query.
var ErrNoResults = errors.New("no results for location")

// searchRadiusMeters bounds the point-of-interest search around the origin.
const searchRadiusMeters = 25000

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Hospital struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKm float64 `json:"distance_km"`
}

// Client queries the public geocoding and point-of-interest services.
// The HTTP client is injected so callers can wrap it with SSRF protection.
type Client struct {
	http          *http.Client
	nominatimBase string
	overpassBase  string

	// Nominatim usage policy asks for at most one request per second.
	limiter *rate.Limiter

	cache    Cache
	cacheTTL time.Duration

	metrics metrics.ExternalMetrics
	logger  *slog.Logger
}

func NewClient(
	httpClient *http.Client,
	nominatimBase string,
	overpassBase string,
	cache Cache,
	cacheTTL time.Duration,
	m metrics.ExternalMetrics,
	logger *slog.Logger,
) *Client {
	return &Client{
		http:          httpClient,
		nominatimBase: nominatimBase,
		overpassBase:  overpassBase,
		limiter:       rate.NewLimiter(rate.Limit(1), 1),
		cache:         cache,
		cacheTTL:      cacheTTL,
		metrics:       m,
		logger:        logger,
	}
}

// ClampLimit restricts the hospital list length to the supported values.
func ClampLimit(limit int) int {
	switch limit {
	case 3, 5, 7, 10:
		return limit
	default:
		return 5
	}
}

// Geocode resolves a free-text location to its first matching coordinate.
func (c *Client) Geocode(ctx context.Context, query string) (Coordinate, error) {
	cacheKey := "geocode:" + query

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var coord Coordinate
			if err := json.Unmarshal([]byte(cached), &coord); err == nil {
				return coord, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Coordinate{}, err
	}

	reqURL := fmt.Sprintf(
		"%s/search?format=json&q=%s",
		c.nominatimBase, url.QueryEscape(query),
	)

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := c.getJSON(ctx, "nominatim", reqURL, &results); err != nil {
		return Coordinate{}, err
	}

	if len(results) == 0 {
		return Coordinate{}, ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse geocode latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse geocode longitude: %w", err)
	}

	coord := Coordinate{Lat: lat, Lon: lon}

	if c.cache != nil {
		if b, err := json.Marshal(coord); err == nil {
			if err := c.cache.Set(ctx, cacheKey, string(b), c.cacheTTL); err != nil {
				c.logger.Warn("geocode cache write failed", slog.String("error", err.Error()))
			}
		}
	}

	return coord, nil
}

// NearbyHospitals returns up to limit hospitals around the origin, sorted by
// great-circle distance ascending.
func (c *Client) NearbyHospitals(ctx context.Context, origin Coordinate, limit int) ([]Hospital, error) {
	query := fmt.Sprintf(
		`[out:json];node["amenity"="hospital"](around:%d,%f,%f);out;`,
		searchRadiusMeters, origin.Lat, origin.Lon,
	)
	reqURL := fmt.Sprintf(
		"%s/api/interpreter?data=%s",
		c.overpassBase, url.QueryEscape(query),
	)

	var payload struct {
		Elements []struct {
			Lat  float64           `json:"lat"`
			Lon  float64           `json:"lon"`
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := c.getJSON(ctx, "overpass", reqURL, &payload); err != nil {
		return nil, err
	}

	hospitals := make([]Hospital, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		name := el.Tags["name"]
		if name == "" {
			name = "Unknown Hospital"
		}
		address := el.Tags["addr:full"]
		if address == "" {
			address = el.Tags["addr:street"]
		}
		if address == "" {
			address = "Address not available"
		}

		hospitals = append(hospitals, Hospital{
			Name:       name,
			Address:    address,
			Lat:        el.Lat,
			Lon:        el.Lon,
			DistanceKm: roundKm(Haversine(origin.Lat, origin.Lon, el.Lat, el.Lon)),
		})
	}

	sort.Slice(hospitals, func(i, j int) bool {
		return hospitals[i].DistanceKm < hospitals[j].DistanceKm
	})

	limit = ClampLimit(limit)
	if len(hospitals) > limit {
		hospitals = hospitals[:limit]
	}

	return hospitals, nil
}

func (c *Client) getJSON(ctx context.Context, service, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "health-portal/1.0 hospital locator")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RecordExternalLatency(service, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	defer resp.Body.Close()

	c.metrics.RecordExternalStatus(service, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", service, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
