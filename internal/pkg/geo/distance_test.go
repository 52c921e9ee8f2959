package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hazard-notifier/internal/domain"
)

func TestDistance_ZeroForCoincidentPoints(t *testing.T) {
	p := domain.GeoPoint{Latitude: 37.0, Longitude: -122.0}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]domain.GeoPoint{
		{{Latitude: 37, Longitude: -122}, {Latitude: 40, Longitude: -125}},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 51.5074, Longitude: -0.1278}},
		{{Latitude: 90, Longitude: 0}, {Latitude: -90, Longitude: 0}},
		{{Latitude: 0, Longitude: 179.9}, {Latitude: 0, Longitude: -179.9}},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
	}
}

func TestDistance_SymmetricBitForBit(t *testing.T) {
	sydney := domain.GeoPoint{Latitude: -33.8688, Longitude: 151.2093}
	london := domain.GeoPoint{Latitude: 51.5074, Longitude: -0.1278}
	sameLat := domain.GeoPoint{Latitude: -33.8688, Longitude: 10}

	assert.Equal(t, math.Float64bits(Distance(sydney, london)), math.Float64bits(Distance(london, sydney)))
	assert.Equal(t, math.Float64bits(Distance(sydney, sameLat)), math.Float64bits(Distance(sameLat, sydney)))
	assert.InDelta(t, 16_994_000, Distance(sydney, london), 5_000)
}

func TestDistance_KnownValues(t *testing.T) {
	hazard := domain.GeoPoint{Latitude: 37.0, Longitude: -122.0}

	near := Distance(hazard, domain.GeoPoint{Latitude: 37.0001, Longitude: -122.0001})
	assert.InDelta(t, 14.2, near, 0.5)

	far := Distance(hazard, domain.GeoPoint{Latitude: 40.0, Longitude: -125.0})
	assert.InDelta(t, 426_000, far, 15_000)
}

func TestDistance_MonotonicAlongMeridian(t *testing.T) {
	origin := domain.GeoPoint{Latitude: 10, Longitude: 20}
	prev := 0.0
	for _, dLat := range []float64{0.001, 0.01, 0.1, 1, 10, 45} {
		d := Distance(origin, domain.GeoPoint{Latitude: 10 + dLat, Longitude: 20})
		assert.Greater(t, d, prev)
		prev = d
	}
}

func TestDistance_AntipodalIsHalfCircumference(t *testing.T) {
	d := Distance(domain.GeoPoint{Latitude: 0, Longitude: 0}, domain.GeoPoint{Latitude: 0, Longitude: 180})
	assert.InDelta(t, 20_015_086.8, d, 2)
}
