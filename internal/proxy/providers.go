package proxy

import (
	"fmt"
	"net/url"
)

// Default upstream bases; overridable in Config for tests.
const (
	defaultGoogleBase = "https://maps.googleapis.com"
	defaultYandexBase = "https://geocode-maps.yandex.ru"
	defaultDGISBase   = "https://catalog.api.2gis.com"
)

// upstream resolves one provider's request parameters into a concrete
// third-party URL. The API key never leaves this layer.
type upstream struct {
	name string
	key  string
	base string
}

var errUnsupportedOp = fmt.Errorf("unsupported operation")

// resolve returns the upstream URL for a validated proxy request.
func (u *upstream) resolve(req *proxyRequest) (string, error) {
	switch u.name {
	case "google":
		return u.resolveGoogle(req)
	case "yandex":
		return u.resolveYandex(req)
	case "dgis":
		return u.resolveDGIS(req)
	}
	return "", fmt.Errorf("unknown provider %q", u.name)
}

func (u *upstream) resolveGoogle(req *proxyRequest) (string, error) {
	switch req.Operation {
	case "search":
		q := url.Values{}
		q.Set("query", req.Query)
		q.Set("language", "ru")
		q.Set("key", u.key)
		return u.base + "/maps/api/place/textsearch/json?" + q.Encode(), nil
	case "reverse":
		q := url.Values{}
		q.Set("latlng", fmt.Sprintf("%f,%f", *req.Lat, *req.Lng))
		q.Set("language", "ru")
		q.Set("key", u.key)
		return u.base + "/maps/api/geocode/json?" + q.Encode(), nil
	case "route":
		q := url.Values{}
		q.Set("origin", req.Origin)
		q.Set("destination", req.Destination)
		q.Set("key", u.key)
		return u.base + "/maps/api/directions/json?" + q.Encode(), nil
	}
	return "", errUnsupportedOp
}

func (u *upstream) resolveYandex(req *proxyRequest) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lang", "ru_RU")
	q.Set("apikey", u.key)

	switch req.Operation {
	case "search":
		q.Set("geocode", req.Query)
	case "reverse":
		// Yandex expects "lng,lat".
		q.Set("geocode", fmt.Sprintf("%f,%f", *req.Lng, *req.Lat))
	default:
		return "", errUnsupportedOp
	}
	return u.base + "/1.x/?" + q.Encode(), nil
}

func (u *upstream) resolveDGIS(req *proxyRequest) (string, error) {
	q := url.Values{}
	q.Set("key", u.key)
	q.Set("fields", "items.point,items.full_name")

	switch req.Operation {
	case "search":
		q.Set("q", req.Query)
		return u.base + "/3.0/items?" + q.Encode(), nil
	case "reverse":
		q.Set("lat", fmt.Sprintf("%f", *req.Lat))
		q.Set("lon", fmt.Sprintf("%f", *req.Lng))
		return u.base + "/3.0/items/geocode?" + q.Encode(), nil
	}
	return "", errUnsupportedOp
}
