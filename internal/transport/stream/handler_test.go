package stream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazard-notifier/internal/domain"
)

type fakeHazards struct {
	events []domain.HazardEvent
	err    error
}

func (f *fakeHazards) Handle(_ context.Context, ev domain.HazardEvent) (domain.DispatchSummary, error) {
	f.events = append(f.events, ev)
	return domain.DispatchSummary{HazardID: ev.ID}, f.err
}

func record(name string, keys, img map[string]events.DynamoDBAttributeValue) events.DynamoDBEventRecord {
	return events.DynamoDBEventRecord{
		EventID:   "evt-" + name,
		EventName: name,
		Change:    events.DynamoDBStreamRecord{Keys: keys, NewImage: img},
	}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHandle_OnlyInsertsDispatch(t *testing.T) {
	fh := &fakeHazards{}
	img := map[string]events.DynamoDBAttributeValue{
		"hazard_id":   events.NewStringAttribute("hz-1"),
		"latitude":    events.NewNumberAttribute("37.0"),
		"longitude":   events.NewNumberAttribute("-122.0"),
		"type":        events.NewStringAttribute("Pothole"),
		"description": events.NewStringAttribute("Deep"),
	}
	err := NewHandler(fh, quiet()).Handle(context.Background(), events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		record("INSERT", nil, img),
		record("MODIFY", nil, img),
		record("REMOVE", nil, nil),
	}})

	require.NoError(t, err)
	require.Len(t, fh.events, 1)
	ev := fh.events[0]
	assert.Equal(t, "hz-1", ev.ID)
	assert.Equal(t, 37.0, *ev.Latitude)
	assert.Equal(t, -122.0, *ev.Longitude)
	assert.Equal(t, "Pothole", ev.HazardType)
	assert.Equal(t, "Deep", ev.Description)
}

func TestHandle_NeverReturnsError(t *testing.T) {
	fh := &fakeHazards{err: errors.New("boom")}
	err := NewHandler(fh, quiet()).Handle(context.Background(), events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		record("INSERT", nil, map[string]events.DynamoDBAttributeValue{"hazard_id": events.NewStringAttribute("a")}),
		record("INSERT", nil, map[string]events.DynamoDBAttributeValue{"hazard_id": events.NewStringAttribute("b")}),
	}})
	assert.NoError(t, err)
	assert.Len(t, fh.events, 2, "a failing record must not stop the rest")
}

func TestToEvent_FallsBackToKeyAndParsesStringCoordinates(t *testing.T) {
	ev := toEvent(events.DynamoDBStreamRecord{
		Keys: map[string]events.DynamoDBAttributeValue{"hazard_id": events.NewStringAttribute("hz-key")},
		NewImage: map[string]events.DynamoDBAttributeValue{
			"latitude":  events.NewStringAttribute("0"),
			"longitude": events.NewStringAttribute("not-a-number"),
		},
	})
	assert.Equal(t, "hz-key", ev.ID)
	require.NotNil(t, ev.Latitude)
	assert.Equal(t, 0.0, *ev.Latitude)
	assert.Nil(t, ev.Longitude)
	assert.ErrorIs(t, ev.Validate(), domain.ErrInvalidEvent)
}
