package geocode

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/drujkomax/yoldosh-go/internal/geo"
)

const dgisMinQueryLen = 2

// DGIS adapts the 2GIS catalog API reached through the proxy. Failed
// searches fall back to the local city list; routing uses the
// straight-line estimate.
type DGIS struct {
	endpoint string
	client   *http.Client
}

// NewDGIS creates an adapter pointed at the 2GIS proxy endpoint.
func NewDGIS(endpoint string) *DGIS {
	return &DGIS{endpoint: endpoint, client: newHTTPClient()}
}

// Name implements Adapter.
func (d *DGIS) Name() string { return "dgis" }

// Search queries the catalog through the proxy.
func (d *DGIS) Search(ctx context.Context, query string) []Suggestion {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < dgisMinQueryLen {
		return nil
	}

	raw, err := postProxy(ctx, d.client, d.endpoint, map[string]any{
		"service":   "dgis",
		"operation": "search",
		"query":     q,
	})
	if err != nil {
		log.Debug().Err(err).Str("query", q).Msg("2GIS search failed, using local fallback")
		return localFallback(q)
	}

	var out []Suggestion
	for _, item := range gjson.GetBytes(raw, "result.items").Array() {
		out = append(out, Suggestion{
			Name:        item.Get("name").String(),
			Description: item.Get("full_name").String(),
			Coords: geo.Coords{
				Lat: item.Get("point.lat").Float(),
				Lng: item.Get("point.lon").Float(),
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
func (d *DGIS) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	raw, err := postProxy(ctx, d.client, d.endpoint, map[string]any{
		"service":   "dgis",
		"operation": "reverse",
		"lat":       lat,
		"lng":       lng,
	})
	if err != nil {
		log.Debug().Err(err).Msg("2GIS reverse geocode failed")
		return PlaceholderAddress
	}

	addr := gjson.GetBytes(raw, "result.items.0.full_name").String()
	if addr == "" {
		return PlaceholderAddress
	}
	return addr
}

// Route has no provider routing endpoint; the straight-line estimate with
// the assumed average speed is used instead.
func (d *DGIS) Route(_ context.Context, origin, dest geo.Coords) (*Route, bool) {
	return estimateRoute(origin, dest), true
}
