package hazard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hazard-notifier/internal/domain"
)

// --- mocks ---

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Dispatch(ctx context.Context, ev domain.HazardEvent) domain.DispatchSummary {
	return m.Called(ctx, ev).Get(0).(domain.DispatchSummary)
}

type mockGuard struct{ mock.Mock }

func (m *mockGuard) Claim(ctx context.Context, hazardID string) (bool, error) {
	args := m.Called(ctx, hazardID)
	return args.Bool(0), args.Error(1)
}
func (m *mockGuard) Release(ctx context.Context, hazardID string) error {
	return m.Called(ctx, hazardID).Error(0)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, s *domain.DispatchSummary) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockStore) Get(ctx context.Context, dispatchID string) (*domain.DispatchSummary, error) {
	args := m.Called(ctx, dispatchID)
	if s, _ := args.Get(0).(*domain.DispatchSummary); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListByHazard(ctx context.Context, hazardID string) ([]domain.DispatchSummary, error) {
	args := m.Called(ctx, hazardID)
	ss, _ := args.Get(0).([]domain.DispatchSummary)
	return ss, args.Error(1)
}

type mockArchive struct{ mock.Mock }

func (m *mockArchive) Put(ctx context.Context, s *domain.DispatchSummary) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func ptr(v float64) *float64 { return &v }

func event() domain.HazardEvent {
	return domain.HazardEvent{ID: "hz-1", Latitude: ptr(37), Longitude: ptr(-122)}
}

func dispatched() domain.DispatchSummary {
	return domain.DispatchSummary{DispatchID: "01D", HazardID: "hz-1", Outcome: domain.OutcomeDispatched, Success: true, TotalSent: 2}
}

// --- tests ---

func TestHandle_ClaimsDispatchesAndRecords(t *testing.T) {
	d, g, st, ar := &mockDispatcher{}, &mockGuard{}, &mockStore{}, &mockArchive{}
	g.On("Claim", mock.Anything, "hz-1").Return(true, nil)
	d.On("Dispatch", mock.Anything, event()).Return(dispatched())
	st.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.DispatchSummary) bool { return s.DispatchID == "01D" })).Return(nil)
	ar.On("Put", mock.Anything, mock.Anything).Return("s3://b/k", nil)

	svc := NewService(Deps{Dispatcher: d, Guard: g, Store: st, Archive: ar, Logger: quiet()})
	sum, err := svc.Handle(context.Background(), event())

	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalSent)
	g.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	d.AssertExpectations(t)
	st.AssertExpectations(t)
	ar.AssertExpectations(t)
}

func TestHandle_DuplicateSkipsDispatch(t *testing.T) {
	d, g := &mockDispatcher{}, &mockGuard{}
	g.On("Claim", mock.Anything, "hz-1").Return(false, nil)

	svc := NewService(Deps{Dispatcher: d, Guard: g, Logger: quiet()})
	sum, err := svc.Handle(context.Background(), event())

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "hz-1", sum.HazardID)
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestHandle_GuardErrorFailsOpen(t *testing.T) {
	d, g := &mockDispatcher{}, &mockGuard{}
	g.On("Claim", mock.Anything, "hz-1").Return(false, errors.New("redis down"))
	d.On("Dispatch", mock.Anything, event()).Return(dispatched())

	svc := NewService(Deps{Dispatcher: d, Guard: g, Logger: quiet()})
	sum, err := svc.Handle(context.Background(), event())

	require.NoError(t, err)
	assert.True(t, sum.Success)
	d.AssertExpectations(t)
}

func TestHandle_FailedDispatchReleasesClaim(t *testing.T) {
	d, g := &mockDispatcher{}, &mockGuard{}
	g.On("Claim", mock.Anything, "hz-1").Return(true, nil)
	g.On("Release", mock.Anything, "hz-1").Return(nil).Once()
	d.On("Dispatch", mock.Anything, event()).Return(domain.DispatchSummary{HazardID: "hz-1", Outcome: domain.OutcomeFailed, Error: "boom"})

	svc := NewService(Deps{Dispatcher: d, Guard: g, Logger: quiet()})
	sum, err := svc.Handle(context.Background(), event())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFailed, sum.Outcome)
	g.AssertExpectations(t)
}

func TestHandle_InvalidEventNotClaimed(t *testing.T) {
	d, g := &mockDispatcher{}, &mockGuard{}
	ev := domain.HazardEvent{ID: "hz-1", Latitude: ptr(37)}
	d.On("Dispatch", mock.Anything, ev).Return(domain.DispatchSummary{HazardID: "hz-1", Outcome: domain.OutcomeRejected})

	svc := NewService(Deps{Dispatcher: d, Guard: g, Logger: quiet()})
	sum, err := svc.Handle(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRejected, sum.Outcome)
	g.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
}

func TestHandle_SinkErrorsDoNotAlterSummary(t *testing.T) {
	d, st, ar := &mockDispatcher{}, &mockStore{}, &mockArchive{}
	d.On("Dispatch", mock.Anything, event()).Return(dispatched())
	st.On("Put", mock.Anything, mock.Anything).Return(errors.New("throttled"))
	ar.On("Put", mock.Anything, mock.Anything).Return("", errors.New("access denied"))

	svc := NewService(Deps{Dispatcher: d, Store: st, Archive: ar, Logger: quiet()})
	sum, err := svc.Handle(context.Background(), event())

	require.NoError(t, err)
	assert.Equal(t, dispatched(), sum)
}

func TestGet_WithoutStoreIsNotFound(t *testing.T) {
	svc := NewService(Deps{Dispatcher: &mockDispatcher{}, Logger: quiet()})
	_, err := svc.Get(context.Background(), "01D")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_DelegatesToStore(t *testing.T) {
	st := &mockStore{}
	want := dispatched()
	st.On("Get", mock.Anything, "01D").Return(&want, nil)

	svc := NewService(Deps{Dispatcher: &mockDispatcher{}, Store: st, Logger: quiet()})
	got, err := svc.Get(context.Background(), "01D")
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}
