package domain

import "strings"

// Role selects which notification rule applies to a recipient.
type Role string

const (
	RoleResponder Role = "responder"
	RoleUser      Role = "user"
)

// Recipient is one candidate returned by the recipient directory.
type Recipient struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	PushToken string    `json:"push_token,omitempty"`
	Location  *GeoPoint `json:"location,omitempty"`
}

// Token returns the push token without surrounding whitespace.
func (r Recipient) Token() string {
	return strings.TrimSpace(r.PushToken)
}

// HasToken reports whether the recipient can be reached at all.
func (r Recipient) HasToken() bool {
	return r.Token() != ""
}
