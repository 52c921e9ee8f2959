package dispatch

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hazard-notifier/internal/domain"
)

// --- mocks ---

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) ListResponders(ctx context.Context) ([]domain.Recipient, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]domain.Recipient)
	return rs, args.Error(1)
}

func (m *mockDirectory) ListUsers(ctx context.Context) ([]domain.Recipient, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]domain.Recipient)
	return rs, args.Error(1)
}

// fakeTransport records every SendEach call and fails the tokens listed in failTokens.
type fakeTransport struct {
	maxBatch   int
	failTokens map[string]bool
	batchErr   error
	calls      [][]domain.NotificationPayload
}

func (f *fakeTransport) MaxBatchSize() int { return f.maxBatch }

func (f *fakeTransport) SendEach(_ context.Context, payloads []domain.NotificationPayload) ([]domain.DeliveryResult, error) {
	f.calls = append(f.calls, payloads)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([]domain.DeliveryResult, len(payloads))
	for i, p := range payloads {
		if f.failTokens[p.Token] {
			out[i] = domain.DeliveryResult{Err: io.ErrUnexpectedEOF}
			continue
		}
		out[i] = domain.DeliveryResult{Success: true, MessageID: "msg-" + p.Token}
	}
	return out, nil
}

func (f *fakeTransport) sentTokens() []string {
	var tokens []string
	for _, call := range f.calls {
		for _, p := range call {
			tokens = append(tokens, p.Token)
		}
	}
	return tokens
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCoordinator(dir Directory, tr Transport) *Coordinator {
	c := NewCoordinator(CoordinatorDeps{
		Directory:    dir,
		Transport:    tr,
		RadiusMeters: DefaultRadiusMeters,
		Logger:       discardLogger(),
	})
	c.newID = func() string { return "01TESTDISPATCH" }
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func ptr(v float64) *float64 { return &v }

func hazardAt(lat, lng float64) domain.HazardEvent {
	return domain.HazardEvent{ID: "hz-1", Latitude: ptr(lat), Longitude: ptr(lng), HazardType: "Pothole", Description: "Deep pothole in lane 2"}
}

func user(id, token string, lat, lng float64) domain.Recipient {
	return domain.Recipient{ID: id, PushToken: token, Location: &domain.GeoPoint{Latitude: lat, Longitude: lng}}
}
