package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/hazard-notifier/internal/domain"
)

type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Transport delivers payloads to SNS mobile platform endpoints. The payload
// token is the endpoint ARN. SNS has no batch publish for endpoints, so each
// item is a separate call and never fails the whole batch.
type Transport struct {
	client publisher
}

func NewClient(awsCfg aws.Config, endpoint string) *sns.Client {
	return sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func NewTransport(client publisher) *Transport {
	return &Transport{client: client}
}

func (t *Transport) MaxBatchSize() int { return 0 }

func (t *Transport) SendEach(ctx context.Context, payloads []domain.NotificationPayload) ([]domain.DeliveryResult, error) {
	out := make([]domain.DeliveryResult, len(payloads))
	for i, p := range payloads {
		msg, err := platformMessage(p)
		if err != nil {
			out[i].Err = err
			continue
		}
		resp, err := t.client.Publish(ctx, &sns.PublishInput{
			TargetArn:        aws.String(p.Token),
			Message:          aws.String(msg),
			MessageStructure: aws.String("json"),
		})
		if err != nil {
			out[i].Err = fmt.Errorf("sns publish: %w", err)
			continue
		}
		out[i] = domain.DeliveryResult{Success: true, MessageID: aws.ToString(resp.MessageId)}
	}
	return out, nil
}

// platformMessage renders the per-platform JSON envelope SNS expects when
// MessageStructure is "json".
func platformMessage(p domain.NotificationPayload) (string, error) {
	gcm, err := json.Marshal(map[string]any{
		"notification": map[string]any{
			"title":              p.Title,
			"body":               p.Body,
			"sound":              p.Hints.Sound,
			"android_channel_id": p.Hints.ChannelID,
		},
		"data":     p.Data,
		"priority": p.Hints.Priority,
	})
	if err != nil {
		return "", fmt.Errorf("marshal gcm payload: %w", err)
	}
	aps := map[string]any{
		"alert": map[string]string{"title": p.Title, "body": p.Body},
		"sound": p.Hints.Sound,
		"badge": p.Hints.Badge,
	}
	apnsBody := map[string]any{"aps": aps}
	for k, v := range p.Data {
		apnsBody[k] = v
	}
	apns, err := json.Marshal(apnsBody)
	if err != nil {
		return "", fmt.Errorf("marshal apns payload: %w", err)
	}
	envelope, err := json.Marshal(map[string]string{
		"default":      p.Body,
		"GCM":          string(gcm),
		"APNS":         string(apns),
		"APNS_SANDBOX": string(apns),
	})
	if err != nil {
		return "", fmt.Errorf("marshal sns envelope: %w", err)
	}
	return string(envelope), nil
}
