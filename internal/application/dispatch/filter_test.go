package dispatch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazard-notifier/internal/domain"
	"github.com/hazard-notifier/internal/pkg/geo"
)

var origin = domain.GeoPoint{Latitude: 37.0, Longitude: -122.0}

func fixedDistance(d float64) DistanceFunc {
	return func(_, _ domain.GeoPoint) float64 { return d }
}

func TestNewFilter_DefaultsRadius(t *testing.T) {
	assert.Equal(t, DefaultRadiusMeters, NewFilter(0).RadiusMeters())
	assert.Equal(t, DefaultRadiusMeters, NewFilter(-1).RadiusMeters())
	assert.Equal(t, 1200.0, NewFilter(1200).RadiusMeters())
}

func TestDecide_NoTokenNeverEligible(t *testing.T) {
	f := NewFilter(DefaultRadiusMeters)
	cases := []domain.Recipient{
		{ID: "r1", Role: domain.RoleResponder},
		{ID: "r2", Role: domain.RoleResponder, PushToken: "   "},
		{ID: "u1", Role: domain.RoleUser, Location: &origin},
	}
	for _, r := range cases {
		d := f.Decide(origin, r)
		assert.False(t, d.ShouldNotify, r.ID)
		assert.Nil(t, d.DistanceMeters, r.ID)
		assert.Equal(t, "no push token", d.Reason)
	}
}

func TestDecide_ResponderUnconditional(t *testing.T) {
	f := NewFilter(DefaultRadiusMeters)
	f.distance = func(_, _ domain.GeoPoint) float64 {
		t.Fatal("distance must not be evaluated for responders")
		return 0
	}

	noLocation := domain.Recipient{ID: "r1", Role: domain.RoleResponder, PushToken: "T1"}
	farAway := domain.Recipient{ID: "r2", Role: domain.RoleResponder, PushToken: "T2",
		Location: &domain.GeoPoint{Latitude: -45, Longitude: 170}}

	for _, r := range []domain.Recipient{noLocation, farAway} {
		d := f.Decide(origin, r)
		assert.True(t, d.ShouldNotify, r.ID)
		assert.Nil(t, d.DistanceMeters, r.ID)
	}
}

func TestDecide_RadiusBoundaryInclusive(t *testing.T) {
	f := NewFilter(DefaultRadiusMeters)
	u := user("u1", "T", 0, 0)

	f.distance = fixedDistance(DefaultRadiusMeters)
	d := f.Decide(origin, u)
	assert.True(t, d.ShouldNotify)
	require.NotNil(t, d.DistanceMeters)
	assert.Equal(t, DefaultRadiusMeters, *d.DistanceMeters)

	f.distance = fixedDistance(math.Nextafter(DefaultRadiusMeters, math.Inf(1)))
	d = f.Decide(origin, u)
	assert.False(t, d.ShouldNotify)
	require.NotNil(t, d.DistanceMeters)
	assert.Equal(t, "outside radius", d.Reason)
}

func TestDecide_RadiusBoundaryRealGeometry(t *testing.T) {
	f := NewFilter(DefaultRadiusMeters)
	// Along a meridian the arc length is exactly R * dLat.
	dLatDeg := (DefaultRadiusMeters - 1) / geo.EarthRadiusMeters * 180 / math.Pi
	inside := user("in", "T1", origin.Latitude+dLatDeg, origin.Longitude)
	dLatDeg = (DefaultRadiusMeters + 1) / geo.EarthRadiusMeters * 180 / math.Pi
	outside := user("out", "T2", origin.Latitude+dLatDeg, origin.Longitude)

	assert.True(t, f.Decide(origin, inside).ShouldNotify)
	assert.False(t, f.Decide(origin, outside).ShouldNotify)
}

func TestDecide_UserWithoutLocationSkipped(t *testing.T) {
	f := NewFilter(DefaultRadiusMeters)
	d := f.Decide(origin, domain.Recipient{ID: "u1", Role: domain.RoleUser, PushToken: "T"})
	assert.False(t, d.ShouldNotify)
	assert.Nil(t, d.DistanceMeters)
	assert.Equal(t, "no location", d.Reason)
}

func TestDecide_NearbyUserKeepsDistance(t *testing.T) {
	f := NewFilter(DefaultRadiusMeters)
	u := user("u1", "T2", 37.0001, -122.0001)
	u.Role = domain.RoleUser

	d := f.Decide(origin, u)
	assert.True(t, d.ShouldNotify)
	require.NotNil(t, d.DistanceMeters)
	assert.InDelta(t, 14.2, *d.DistanceMeters, 0.5)
}
