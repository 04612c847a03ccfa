// README: Pure geographic helpers for delivery distance.
package location

import (
	"errors"
	"math"

	"amazonia/internal/types"
)

const (
	// DefaultEarthRadiusKm is the mean Earth radius.
	DefaultEarthRadiusKm = 6371.0
	// LegacyEarthRadiusKm reproduces distances quoted by the first storefront release.
	LegacyEarthRadiusKm = 1371.0
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Engine computes great-circle distances on a sphere of RadiusKm.
// A zero Engine uses DefaultEarthRadiusKm.
type Engine struct {
	RadiusKm float64
}

// DistanceKm returns the haversine distance between a and b in kilometres,
// rounded to 2 decimals. Inputs are not validated.
func (e Engine) DistanceKm(a, b types.Point) float64 {
	r := e.RadiusKm
	if r <= 0 {
		r = DefaultEarthRadiusKm
	}
	return roundTo(haversineKm(a.Lat, a.Lng, b.Lat, b.Lng, r), 2)
}

// DistanceKm uses the default Earth radius.
func DistanceKm(a, b types.Point) float64 {
	return Engine{RadiusKm: DefaultEarthRadiusKm}.DistanceKm(a, b)
}

// ValidatePoint rejects non-finite or out-of-range coordinates.
func ValidatePoint(p types.Point) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return ErrInvalidCoordinates
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// haversineKm returns the great-circle distance between two points specified
// in decimal degrees on a sphere of the given radius.
func haversineKm(lat1, lng1, lat2, lng2, radiusKm float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
