package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"

	"github.com/hazard-notifier/internal/domain"
)

// MaxBatchSize is the FCM limit for one SendEach call.
const MaxBatchSize = 500

type batchSender interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

// Transport delivers payloads through Firebase Cloud Messaging.
type Transport struct {
	client batchSender
}

func NewTransport(ctx context.Context, app *firebase.App) (*Transport, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}
	return &Transport{client: client}, nil
}

func (t *Transport) MaxBatchSize() int { return MaxBatchSize }

// SendEach sends payloads as one FCM batch. FCM reports per-message outcomes in
// request order; a returned error means no message was attempted.
func (t *Transport) SendEach(ctx context.Context, payloads []domain.NotificationPayload) ([]domain.DeliveryResult, error) {
	if len(payloads) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds FCM limit of %d", len(payloads), MaxBatchSize)
	}
	messages := make([]*messaging.Message, len(payloads))
	for i, p := range payloads {
		messages[i] = toMessage(p)
	}

	resp, err := t.client.SendEach(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("fcm send each: %w", err)
	}

	n := min(len(payloads), len(resp.Responses))
	out := make([]domain.DeliveryResult, n)
	for i := 0; i < n; i++ {
		r := resp.Responses[i]
		if r == nil {
			out[i].Err = fmt.Errorf("fcm returned no response for message %d", i)
			continue
		}
		out[i] = domain.DeliveryResult{Success: r.Success, MessageID: r.MessageID, Err: r.Error}
		if !r.Success && r.Error == nil {
			out[i].Err = fmt.Errorf("fcm rejected message %d", i)
		}
	}
	return out, nil
}

func toMessage(p domain.NotificationPayload) *messaging.Message {
	badge := p.Hints.Badge
	apnsPriority := "5"
	if p.Hints.Priority == "high" {
		apnsPriority = "10"
	}
	return &messaging.Message{
		Token: p.Token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.Data,
		Android: &messaging.AndroidConfig{
			Priority: p.Hints.Priority,
			Notification: &messaging.AndroidNotification{
				Sound:     p.Hints.Sound,
				ChannelID: p.Hints.ChannelID,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": apnsPriority},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Badge: &badge,
					Sound: p.Hints.Sound,
				},
			},
		},
	}
}
