// Package geo provides great-circle distance math used when no routing
// provider is available.
package geo

import "math"

const (
	earthRadiusKm = 6371.0

	// AverageSpeedKmh is the assumed intercity average speed used to derive
	// a duration estimate from straight-line distance.
	AverageSpeedKmh = 60.0
)

// Coords is a WGS84 coordinate pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Estimate is a straight-line route approximation.
type Estimate struct {
	DistanceKm  float64  `json:"distance_km"`
	DurationMin int      `json:"duration_min"`
	Path        []Coords `json:"path"`
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the haversine great-circle distance between two points
// in kilometers.
func Distance(a, b Coords) float64 {
	latA := degToRad(a.Lat)
	latB := degToRad(b.Lat)
	dLat := degToRad(b.Lat - a.Lat)
	dLng := degToRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// clamp to account for floating point error
	h = math.Max(0, math.Min(1, h))

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// EstimateRoute returns the straight-line distance between origin and
// destination with a duration derived from the assumed average speed.
// The path is just the two endpoints.
func EstimateRoute(origin, dest Coords) Estimate {
	dist := Distance(origin, dest)
	return Estimate{
		DistanceKm:  dist,
		DurationMin: int(math.Round(dist / AverageSpeedKmh * 60)),
		Path:        []Coords{origin, dest},
	}
}
