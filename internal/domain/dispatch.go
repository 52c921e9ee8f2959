package domain

import "time"

// EligibilityDecision is the filter verdict for one candidate.
type EligibilityDecision struct {
	Recipient      Recipient
	ShouldNotify   bool
	DistanceMeters *float64 // set only when a distance was evaluated
	Reason         string
}

// PlatformHints carries the delivery hints applied unchanged by the transport.
type PlatformHints struct {
	Priority  string `json:"priority"`
	Sound     string `json:"sound"`
	ChannelID string `json:"channel_id"`
	Badge     int    `json:"badge"`
}

// NotificationPayload is a transport-ready push message for one recipient.
type NotificationPayload struct {
	RecipientID string            `json:"-"`
	Token       string            `json:"token"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data"`
	Hints       PlatformHints     `json:"hints"`
}

// DeliveryResult is the outcome of one payload within a batch.
type DeliveryResult struct {
	Index       int
	RecipientID string
	Success     bool
	MessageID   string
	Err         error
}

// BatchResult aggregates every DeliveryResult of one batch send.
type BatchResult struct {
	Results      []DeliveryResult
	SuccessCount int
	FailureCount int
	// TransportErrors counts chunks rejected as a whole by the transport.
	TransportErrors int
	// Chunks is the number of transport calls issued.
	Chunks int
}

// Outcome is the terminal state of one dispatch run.
type Outcome string

const (
	OutcomeRejected   Outcome = "rejected"
	OutcomeEmpty      Outcome = "empty"
	OutcomeDispatched Outcome = "dispatched"
	OutcomeFailed     Outcome = "failed"
)

// DeliveryFailure describes one failed item for diagnostics.
type DeliveryFailure struct {
	Index       int    `json:"index" dynamodbav:"index"`
	RecipientID string `json:"recipient_id" dynamodbav:"recipient_id"`
	Error       string `json:"error" dynamodbav:"error"`
}

// DispatchSummary is the single result returned for a hazard event.
// NearbyCount counts every eligible recipient, responders included;
// ResponderCount is the unconditional share of it.
type DispatchSummary struct {
	DispatchID     string            `json:"dispatch_id" dynamodbav:"dispatch_id"`
	HazardID       string            `json:"hazard_id" dynamodbav:"hazard_id"`
	Outcome        Outcome           `json:"outcome" dynamodbav:"outcome"`
	Success        bool              `json:"success" dynamodbav:"success"`
	TotalSent      int               `json:"total_sent" dynamodbav:"total_sent"`
	TotalFailed    int               `json:"total_failed" dynamodbav:"total_failed"`
	NearbyCount    int               `json:"nearby_count" dynamodbav:"nearby_count"`
	ResponderCount int               `json:"responder_count" dynamodbav:"responder_count"`
	Message        string            `json:"message,omitempty" dynamodbav:"message,omitempty"`
	Error          string            `json:"error,omitempty" dynamodbav:"error,omitempty"`
	Failures       []DeliveryFailure `json:"failures,omitempty" dynamodbav:"failures,omitempty"`
	CreatedAt      time.Time         `json:"created" dynamodbav:"created_at"`
}
