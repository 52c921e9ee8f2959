package sns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazard-notifier/internal/domain"
)

type fakePublisher struct {
	inputs []*sns.PublishInput
	fail   map[string]bool
}

func (f *fakePublisher) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.fail[aws.ToString(in.TargetArn)] {
		return nil, errors.New("EndpointDisabled")
	}
	return &sns.PublishOutput{MessageId: aws.String("m-" + aws.ToString(in.TargetArn))}, nil
}

func TestSendEach_PublishesPerEndpoint(t *testing.T) {
	fp := &fakePublisher{fail: map[string]bool{"arn:b": true}}
	tr := NewTransport(fp)

	out, err := tr.SendEach(context.Background(), []domain.NotificationPayload{
		{Token: "arn:a", Title: "t", Body: "b"},
		{Token: "arn:b", Title: "t", Body: "b"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Success)
	assert.Equal(t, "m-arn:a", out[0].MessageID)
	assert.False(t, out[1].Success)
	assert.ErrorContains(t, out[1].Err, "EndpointDisabled")
	assert.Len(t, fp.inputs, 2)
	assert.Equal(t, "json", aws.ToString(fp.inputs[0].MessageStructure))
	assert.Equal(t, 0, tr.MaxBatchSize())
}

func TestPlatformMessage_Envelope(t *testing.T) {
	msg, err := platformMessage(domain.NotificationPayload{
		Title: "⚠️ Flood nearby",
		Body:  "Water on road (1.2 km away)",
		Data:  map[string]string{"hazardId": "hz-1"},
		Hints: domain.PlatformHints{Priority: "high", Sound: "default", ChannelID: "hazard_alerts", Badge: 1},
	})
	require.NoError(t, err)

	var env map[string]string
	require.NoError(t, json.Unmarshal([]byte(msg), &env))
	assert.Equal(t, "Water on road (1.2 km away)", env["default"])

	var gcm struct {
		Notification map[string]string `json:"notification"`
		Data         map[string]string `json:"data"`
		Priority     string            `json:"priority"`
	}
	require.NoError(t, json.Unmarshal([]byte(env["GCM"]), &gcm))
	assert.Equal(t, "hazard_alerts", gcm.Notification["android_channel_id"])
	assert.Equal(t, "hz-1", gcm.Data["hazardId"])
	assert.Equal(t, "high", gcm.Priority)

	var apns map[string]any
	require.NoError(t, json.Unmarshal([]byte(env["APNS"]), &apns))
	assert.Equal(t, "hz-1", apns["hazardId"])
	assert.Equal(t, float64(1), apns["aps"].(map[string]any)["badge"])
}
