// Package geo computes great-circle distances between WGS 84 coordinates.
package geo

import (
	"github.com/golang/geo/s2"

	"github.com/hazard-notifier/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius used for arc-to-length conversion.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between a and b in meters.
// Inputs are expected in range; out-of-range values are not checked.
// The points are put in a fixed order first so the result is bit-for-bit
// symmetric.
func Distance(a, b domain.GeoPoint) float64 {
	if less(b, a) {
		a, b = b, a
	}
	la := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	lb := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return la.Distance(lb).Radians() * EarthRadiusMeters
}

func less(a, b domain.GeoPoint) bool {
	if a.Latitude != b.Latitude {
		return a.Latitude < b.Latitude
	}
	return a.Longitude < b.Longitude
}
