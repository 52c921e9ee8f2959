package dispatch

import (
	"github.com/hazard-notifier/internal/domain"
	"github.com/hazard-notifier/internal/pkg/geo"
)

// DefaultRadiusMeters is the notification radius for location-aware users.
const DefaultRadiusMeters = 5000.0

// DistanceFunc returns the distance in meters between two points.
type DistanceFunc func(a, b domain.GeoPoint) float64

// Filter decides per candidate whether a notification should be sent.
// It holds no mutable state and is safe for concurrent use.
type Filter struct {
	radiusMeters float64
	distance     DistanceFunc
}

// NewFilter returns a Filter using great-circle distance. A non-positive
// radius falls back to DefaultRadiusMeters.
func NewFilter(radiusMeters float64) *Filter {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	return &Filter{radiusMeters: radiusMeters, distance: geo.Distance}
}

// RadiusMeters returns the configured inclusive radius.
func (f *Filter) RadiusMeters() float64 { return f.radiusMeters }

// Decide applies, in order: token gating, unconditional responders,
// the inclusive radius test for located users, and skipping unlocated users.
func (f *Filter) Decide(hazard domain.GeoPoint, r domain.Recipient) domain.EligibilityDecision {
	d := domain.EligibilityDecision{Recipient: r}

	if !r.HasToken() {
		d.Reason = "no push token"
		return d
	}
	if r.Role == domain.RoleResponder {
		d.ShouldNotify = true
		d.Reason = "responder"
		return d
	}
	if r.Location == nil {
		d.Reason = "no location"
		return d
	}

	dist := f.distance(hazard, *r.Location)
	d.DistanceMeters = &dist
	d.ShouldNotify = dist <= f.radiusMeters
	if d.ShouldNotify {
		d.Reason = "within radius"
	} else {
		d.Reason = "outside radius"
	}
	return d
}
