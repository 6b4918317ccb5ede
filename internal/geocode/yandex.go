package geocode

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/drujkomax/yoldosh-go/internal/geo"
)

const yandexMinQueryLen = 3

// Yandex adapts the Yandex Geocoder API reached through the proxy. Failed
// searches return an empty list; there is no local fallback for this
// provider. Routing is not available and uses the straight-line estimate.
type Yandex struct {
	endpoint string
	client   *http.Client
}

// NewYandex creates an adapter pointed at the yandex proxy endpoint.
func NewYandex(endpoint string) *Yandex {
	return &Yandex{endpoint: endpoint, client: newHTTPClient()}
}

// Name implements Adapter.
func (y *Yandex) Name() string { return "yandex" }

// Search queries the geocoder through the proxy.
func (y *Yandex) Search(ctx context.Context, query string) []Suggestion {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < yandexMinQueryLen {
		return nil
	}

	raw, err := postProxy(ctx, y.client, y.endpoint, map[string]any{
		"type":      "yandex",
		"operation": "search",
		"query":     q,
	})
	if err != nil {
		log.Debug().Err(err).Str("query", q).Msg("Yandex search failed")
		return nil
	}

	var out []Suggestion
	members := gjson.GetBytes(raw, "response.GeoObjectCollection.featureMember")
	for _, member := range members.Array() {
		obj := member.Get("GeoObject")
		coords, ok := parseYandexPos(obj.Get("Point.pos").String())
		if !ok {
			continue
		}
		out = append(out, Suggestion{
			Name:        obj.Get("name").String(),
			Description: obj.Get("description").String(),
			Coords:      coords,
		})
	}
	return out
}

// parseYandexPos parses the "lng lat" coordinate encoding.
func parseYandexPos(pos string) (geo.Coords, bool) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return geo.Coords{}, false
	}
	lng, err1 := strconv.ParseFloat(parts[0], 64)
	lat, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return geo.Coords{}, false
	}
	return geo.Coords{Lat: lat, Lng: lng}, true
}

// ReverseGeocode returns a human-readable address, or the placeholder on
// any failure.
func (y *Yandex) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	raw, err := postProxy(ctx, y.client, y.endpoint, map[string]any{
		"type":      "yandex",
		"operation": "reverse",
		"lat":       lat,
		"lng":       lng,
	})
	if err != nil {
		log.Debug().Err(err).Msg("Yandex reverse geocode failed")
		return PlaceholderAddress
	}

	addr := gjson.GetBytes(raw,
		"response.GeoObjectCollection.featureMember.0.GeoObject.metaDataProperty.GeocoderMetaData.text").String()
	if addr == "" {
		return PlaceholderAddress
	}
	return addr
}

// Route has no provider routing endpoint; the straight-line estimate with
// the assumed average speed is used instead.
func (y *Yandex) Route(_ context.Context, origin, dest geo.Coords) (*Route, bool) {
	return estimateRoute(origin, dest), true
}
