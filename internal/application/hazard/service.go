package hazard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazard-notifier/internal/domain"
)

// Dispatcher runs the notification pipeline for one event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.HazardEvent) domain.DispatchSummary
}

// Guard deduplicates triggers for the same hazard.
type Guard interface {
	Claim(ctx context.Context, hazardID string) (bool, error)
	Release(ctx context.Context, hazardID string) error
}

// DispatchStore persists dispatch summaries.
type DispatchStore interface {
	Put(ctx context.Context, s *domain.DispatchSummary) error
	Get(ctx context.Context, dispatchID string) (*domain.DispatchSummary, error)
	ListByHazard(ctx context.Context, hazardID string) ([]domain.DispatchSummary, error)
}

// Archiver keeps a durable copy of each summary.
type Archiver interface {
	Put(ctx context.Context, s *domain.DispatchSummary) (string, error)
}

// Deps wires the service. Only Dispatcher is required.
type Deps struct {
	Dispatcher Dispatcher
	Guard      Guard
	Store      DispatchStore
	Archive    Archiver
	Logger     *slog.Logger
}

type Service interface {
	Handle(ctx context.Context, event domain.HazardEvent) (domain.DispatchSummary, error)
	Get(ctx context.Context, dispatchID string) (*domain.DispatchSummary, error)
	ListByHazard(ctx context.Context, hazardID string) ([]domain.DispatchSummary, error)
}

type service struct {
	dispatcher Dispatcher
	guard      Guard
	store      DispatchStore
	archive    Archiver
	log        *slog.Logger
}

func NewService(deps Deps) Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &service{
		dispatcher: deps.Dispatcher,
		guard:      deps.Guard,
		store:      deps.Store,
		archive:    deps.Archive,
		log:        log,
	}
}

// Handle dispatches event at most once per guard TTL. The summary is always
// returned; the error is non-nil only for ErrDuplicate.
func (s *service) Handle(ctx context.Context, event domain.HazardEvent) (domain.DispatchSummary, error) {
	claimed := false
	if s.guard != nil && event.ID != "" && event.Validate() == nil {
		ok, err := s.guard.Claim(ctx, event.ID)
		switch {
		case err != nil:
			s.log.Warn("dedupe guard unavailable, dispatching anyway", "hazard_id", event.ID, "err", err)
		case !ok:
			s.log.Info("duplicate hazard trigger ignored", "hazard_id", event.ID)
			return domain.DispatchSummary{
				HazardID: event.ID,
				Message:  "hazard already dispatched",
			}, fmt.Errorf("hazard %s: %w", event.ID, domain.ErrDuplicate)
		default:
			claimed = true
		}
	}

	summary := s.dispatcher.Dispatch(ctx, event)

	if claimed && summary.Outcome == domain.OutcomeFailed {
		if err := s.guard.Release(ctx, event.ID); err != nil {
			s.log.Warn("could not release dedupe claim", "hazard_id", event.ID, "err", err)
		}
	}

	s.record(ctx, &summary)
	return summary, nil
}

func (s *service) record(ctx context.Context, summary *domain.DispatchSummary) {
	if s.store != nil {
		if err := s.store.Put(ctx, summary); err != nil {
			s.log.Error("could not record dispatch", "dispatch_id", summary.DispatchID, "err", err)
		}
	}
	if s.archive != nil {
		url, err := s.archive.Put(ctx, summary)
		if err != nil {
			s.log.Error("could not archive dispatch", "dispatch_id", summary.DispatchID, "err", err)
			return
		}
		s.log.Debug("dispatch archived", "dispatch_id", summary.DispatchID, "url", url)
	}
}

func (s *service) Get(ctx context.Context, dispatchID string) (*domain.DispatchSummary, error) {
	if s.store == nil {
		return nil, fmt.Errorf("dispatch %s: %w", dispatchID, domain.ErrNotFound)
	}
	return s.store.Get(ctx, dispatchID)
}

func (s *service) ListByHazard(ctx context.Context, hazardID string) ([]domain.DispatchSummary, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListByHazard(ctx, hazardID)
}
