// Package geocode provides per-provider geocoding adapters. Each adapter
// normalizes its provider's raw JSON into a common suggestion shape and
// degrades to a local city-list fallback or a placeholder on failure.
// Calls are fresh, uncoordinated HTTP round trips: no retries, no caching,
// no request de-duplication.
package geocode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/drujkomax/yoldosh-go/internal/cities"
	"github.com/drujkomax/yoldosh-go/internal/geo"
)

// PlaceholderAddress is returned by reverse geocoding on any failure.
const PlaceholderAddress = "Неизвестный адрес"

// Suggestion is a normalized geocoding result.
type Suggestion struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Coords      geo.Coords `json:"coordinates"`
}

// Route is a normalized routing result.
type Route struct {
	DistanceKm  float64      `json:"distance_km"`
	DurationMin int          `json:"duration_min"`
	Path        []geo.Coords `json:"coordinates"`
}

// Adapter is the per-provider geocoding surface.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string) []Suggestion
	ReverseGeocode(ctx context.Context, lat, lng float64) string
	Route(ctx context.Context, origin, dest geo.Coords) (*Route, bool)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// postProxy sends a proxy request and returns the raw provider JSON.
func postProxy(ctx context.Context, client *http.Client, endpoint string, payload map[string]any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal proxy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read proxy response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("proxy status %d", resp.StatusCode)
	}
	return raw, nil
}

// localFallback filters the embedded city list by case-insensitive
// substring match on name.
func localFallback(query string) []Suggestion {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var out []Suggestion
	for _, c := range cities.All() {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, Suggestion{
				Name:        c.Name,
				Description: "Узбекистан",
				Coords:      geo.Coords{Lat: c.Lat, Lng: c.Lng},
			})
		}
	}
	return out
}

func estimateRoute(origin, dest geo.Coords) *Route {
	est := geo.EstimateRoute(origin, dest)
	return &Route{
		DistanceKm:  est.DistanceKm,
		DurationMin: est.DurationMin,
		Path:        est.Path,
	}
}
