package domain

import (
	"fmt"
	"math"
)

// Fallback labels used when a hazard record omits its type or description.
const (
	DefaultHazardType  = "Road Hazard"
	DefaultDescription = "Hazard detected nearby"
)

// GeoPoint is a WGS 84 coordinate in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" dynamodbav:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" dynamodbav:"longitude" firestore:"longitude"`
}

// HazardEvent is the resolved input of one dispatch run. Coordinates are
// pointers so a missing field is distinguishable from the equator/meridian.
type HazardEvent struct {
	ID          string   `json:"id" dynamodbav:"hazard_id"`
	Latitude    *float64 `json:"latitude" dynamodbav:"latitude"`
	Longitude   *float64 `json:"longitude" dynamodbav:"longitude"`
	HazardType  string   `json:"type,omitempty" dynamodbav:"type,omitempty"`
	Description string   `json:"description,omitempty" dynamodbav:"description,omitempty"`
}

// Validate reports whether the event carries a usable location.
// The returned error always wraps ErrInvalidEvent.
func (e HazardEvent) Validate() error {
	if e.Latitude == nil || e.Longitude == nil {
		return fmt.Errorf("hazard %q has no location: %w", e.ID, ErrInvalidEvent)
	}
	lat, lng := *e.Latitude, *e.Longitude
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("hazard %q has non-finite coordinates: %w", e.ID, ErrInvalidEvent)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("hazard %q coordinates out of range (%v, %v): %w", e.ID, lat, lng, ErrInvalidEvent)
	}
	return nil
}

// Location returns the hazard coordinates. Only meaningful after Validate succeeds.
func (e HazardEvent) Location() GeoPoint {
	var p GeoPoint
	if e.Latitude != nil {
		p.Latitude = *e.Latitude
	}
	if e.Longitude != nil {
		p.Longitude = *e.Longitude
	}
	return p
}

// TypeLabel returns the hazard type or DefaultHazardType when unset.
func (e HazardEvent) TypeLabel() string {
	if e.HazardType == "" {
		return DefaultHazardType
	}
	return e.HazardType
}

// DescriptionText returns the description or DefaultDescription when unset.
func (e HazardEvent) DescriptionText() string {
	if e.Description == "" {
		return DefaultDescription
	}
	return e.Description
}
