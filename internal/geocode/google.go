package geocode

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/drujkomax/yoldosh-go/internal/geo"
)

const googleMinQueryLen = 2

// Google adapts the Google Maps APIs reached through the proxy. Failed
// searches fall back to the local city list.
type Google struct {
	endpoint string
	client   *http.Client
}

// NewGoogle creates an adapter pointed at the google proxy endpoint.
func NewGoogle(endpoint string) *Google {
	return &Google{endpoint: endpoint, client: newHTTPClient()}
}

// Name implements Adapter.
func (g *Google) Name() string { return "google" }

// Search queries Places text search through the proxy. Inputs shorter than
// the provider minimum return nil without a network call.
func (g *Google) Search(ctx context.Context, query string) []Suggestion {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < googleMinQueryLen {
		return nil
	}

	raw, err := postProxy(ctx, g.client, g.endpoint, map[string]any{
		"service":   "google",
		"operation": "search",
		"query":     q,
	})
	if err != nil {
		log.Debug().Err(err).Str("query", q).Msg("Google search failed, using local fallback")
		return localFallback(q)
	}

	var out []Suggestion
	for _, item := range gjson.GetBytes(raw, "results").Array() {
		out = append(out, Suggestion{
			Name:        item.Get("name").String(),
			Description: item.Get("formatted_address").String(),
			Coords: geo.Coords{
				Lat: item.Get("geometry.location.lat").Float(),
				Lng: item.Get("geometry.location.lng").Float(),
			},
		})
	}
	if out == nil {
		return localFallback(q)
	}
	return out
}

// ReverseGeocode returns a human-readable address, or the placeholder on
// any failure.
func (g *Google) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	raw, err := postProxy(ctx, g.client, g.endpoint, map[string]any{
		"service":   "google",
		"operation": "reverse",
		"lat":       lat,
		"lng":       lng,
	})
	if err != nil {
		log.Debug().Err(err).Msg("Google reverse geocode failed")
		return PlaceholderAddress
	}

	addr := gjson.GetBytes(raw, "results.0.formatted_address").String()
	if addr == "" {
		return PlaceholderAddress
	}
	return addr
}

// Route delegates to the Directions API through the proxy.
func (g *Google) Route(ctx context.Context, origin, dest geo.Coords) (*Route, bool) {
	raw, err := postProxy(ctx, g.client, g.endpoint, map[string]any{
		"service":     "google",
		"operation":   "route",
		"origin":      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		"destination": fmt.Sprintf("%f,%f", dest.Lat, dest.Lng),
	})
	if err != nil {
		log.Debug().Err(err).Msg("Google route failed")
		return nil, false
	}

	leg := gjson.GetBytes(raw, "routes.0.legs.0")
	if !leg.Exists() {
		return nil, false
	}

	return &Route{
		DistanceKm:  leg.Get("distance.value").Float() / 1000,
		DurationMin: int(leg.Get("duration.value").Float() / 60),
		Path:        []geo.Coords{origin, dest},
	}, true
}
