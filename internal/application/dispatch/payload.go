package dispatch

import (
	"fmt"
	"strconv"

	"github.com/hazard-notifier/internal/domain"
)

// Data-map keys and fixed values shared with the mobile client.
const (
	DataKeyHazardID      = "hazardId"
	DataKeyHazardType    = "hazardType"
	DataKeyLatitude      = "latitude"
	DataKeyLongitude     = "longitude"
	DataKeyType          = "type"
	DataKeyRecipientRole = "recipientRole"
	DataKeyDistance      = "distance"

	alertType = "hazard_alert"
)

// DefaultHints are the platform hints attached to every hazard alert.
var DefaultHints = domain.PlatformHints{
	Priority:  "high",
	Sound:     "default",
	ChannelID: "hazard_alerts",
	Badge:     1,
}

// PayloadBuilder turns an accepted decision into a push payload.
type PayloadBuilder struct {
	hints domain.PlatformHints
}

func NewPayloadBuilder(hints domain.PlatformHints) *PayloadBuilder {
	return &PayloadBuilder{hints: hints}
}

// Build assumes d.ShouldNotify is true and the event has passed Validate.
func (b *PayloadBuilder) Build(event domain.HazardEvent, d domain.EligibilityDecision) domain.NotificationPayload {
	loc := event.Location()
	hazardType := event.TypeLabel()

	data := map[string]string{
		DataKeyHazardID:      event.ID,
		DataKeyHazardType:    hazardType,
		DataKeyLatitude:      formatFloat(loc.Latitude),
		DataKeyLongitude:     formatFloat(loc.Longitude),
		DataKeyType:          alertType,
		DataKeyRecipientRole: string(d.Recipient.Role),
	}

	p := domain.NotificationPayload{
		RecipientID: d.Recipient.ID,
		Token:       d.Recipient.Token(),
		Data:        data,
		Hints:       b.hints,
	}

	if d.Recipient.Role == domain.RoleResponder || d.DistanceMeters == nil {
		p.Title = fmt.Sprintf("🚨 %s Detected", hazardType)
		p.Body = event.DescriptionText()
		return p
	}

	meters := *d.DistanceMeters
	data[DataKeyDistance] = strconv.FormatFloat(meters, 'f', 0, 64)
	p.Title = fmt.Sprintf("⚠️ %s nearby", hazardType)
	p.Body = fmt.Sprintf("%s (%.1f km away)", event.DescriptionText(), meters/1000)
	return p
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
