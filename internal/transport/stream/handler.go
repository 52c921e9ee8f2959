package stream

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hazard-notifier/internal/domain"
)

// HazardHandler processes one hazard event.
type HazardHandler interface {
	Handle(ctx context.Context, event domain.HazardEvent) (domain.DispatchSummary, error)
}

// Handler turns DynamoDB Streams records of the hazards table into dispatch runs.
type Handler struct {
	hazards HazardHandler
	log     *slog.Logger
}

func NewHandler(hazards HazardHandler, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{hazards: hazards, log: log}
}

// Handle processes INSERT records one by one and never returns an error, so
// Lambda does not retry a batch whose notifications already went out.
func (h *Handler) Handle(ctx context.Context, e events.DynamoDBEvent) error {
	for _, rec := range e.Records {
		if rec.EventName != string(events.DynamoDBOperationTypeInsert) {
			continue
		}
		event := toEvent(rec.Change)
		summary, err := h.hazards.Handle(ctx, event)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			h.log.Info("duplicate stream record skipped", "hazard_id", event.ID, "event_id", rec.EventID)
		case err != nil:
			h.log.Error("stream record failed", "hazard_id", event.ID, "event_id", rec.EventID, "err", err)
		default:
			h.log.Info("stream record dispatched",
				"hazard_id", event.ID,
				"dispatch_id", summary.DispatchID,
				"outcome", summary.Outcome,
				"sent", summary.TotalSent,
				"failed", summary.TotalFailed,
			)
		}
	}
	return nil
}

// toEvent reads the flat hazard shape from NewImage. Coordinates that are
// absent or unparseable stay nil and the dispatch run rejects the event.
func toEvent(change events.DynamoDBStreamRecord) domain.HazardEvent {
	img := change.NewImage
	ev := domain.HazardEvent{
		ID:          str(img, "hazard_id"),
		Latitude:    num(img, "latitude"),
		Longitude:   num(img, "longitude"),
		HazardType:  str(img, "type"),
		Description: str(img, "description"),
	}
	if ev.ID == "" {
		ev.ID = str(change.Keys, "hazard_id")
	}
	return ev
}

func str(m map[string]events.DynamoDBAttributeValue, key string) string {
	v, ok := m[key]
	if !ok || v.DataType() != events.DataTypeString {
		return ""
	}
	return v.String()
}

func num(m map[string]events.DynamoDBAttributeValue, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	var raw string
	switch v.DataType() {
	case events.DataTypeNumber:
		raw = v.Number()
	case events.DataTypeString:
		raw = v.String()
	default:
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
