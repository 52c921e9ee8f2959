package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hazard-notifier/internal/domain"
	"github.com/hazard-notifier/internal/pkg/id"
)

// Directory enumerates the current recipients. Each call returns the complete
// set; the coordinator neither pages, retries, nor deduplicates.
type Directory interface {
	ListResponders(ctx context.Context) ([]domain.Recipient, error)
	ListUsers(ctx context.Context) ([]domain.Recipient, error)
}

const msgEmptyAudience = "no nearby users or responders"

// CoordinatorDeps groups the collaborators of a Coordinator.
type CoordinatorDeps struct {
	Directory    Directory
	Transport    Transport
	RadiusMeters float64
	Hints        *domain.PlatformHints
	Logger       *slog.Logger
}

// Coordinator runs the full dispatch pipeline for one hazard event.
type Coordinator struct {
	directory Directory
	filter    *Filter
	builder   *PayloadBuilder
	batch     *BatchDispatcher
	log       *slog.Logger
	now       func() time.Time
	newID     func() string
}

func NewCoordinator(deps CoordinatorDeps) *Coordinator {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	hints := DefaultHints
	if deps.Hints != nil {
		hints = *deps.Hints
	}
	return &Coordinator{
		directory: deps.Directory,
		filter:    NewFilter(deps.RadiusMeters),
		builder:   NewPayloadBuilder(hints),
		batch:     NewBatchDispatcher(deps.Transport, log),
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     id.New,
	}
}

// Dispatch never returns an error and never panics: every failure before or
// around the transport call is folded into a failed summary.
func (c *Coordinator) Dispatch(ctx context.Context, event domain.HazardEvent) (summary domain.DispatchSummary) {
	summary = domain.DispatchSummary{HazardID: event.ID}

	defer func() {
		if r := recover(); r != nil {
			summary = failed(summary, fmt.Errorf("panic during dispatch: %v", r))
			c.log.Error("dispatch aborted", "hazard_id", event.ID, "dispatch_id", summary.DispatchID, "err", summary.Error)
		}
	}()

	summary.DispatchID = c.newID()
	summary.CreatedAt = c.now()
	log := c.log.With("hazard_id", event.ID, "dispatch_id", summary.DispatchID)

	if err := event.Validate(); err != nil {
		log.Warn("hazard rejected", "err", err)
		summary.Outcome = domain.OutcomeRejected
		summary.Message = err.Error()
		return summary
	}
	hazard := event.Location()
	log.Info("hazard received",
		"latitude", hazard.Latitude,
		"longitude", hazard.Longitude,
		"type", event.TypeLabel(),
	)

	responders, users, err := c.enumerate(ctx)
	if err != nil {
		log.Error("recipient enumeration failed", "err", err)
		return failed(summary, err)
	}
	log.Info("recipients loaded", "responders", len(responders), "users", len(users))

	payloads := make([]domain.NotificationPayload, 0, len(responders)+len(users))
	for _, pass := range [][]domain.Recipient{responders, users} {
		for _, r := range pass {
			d := c.filter.Decide(hazard, r)
			if !d.ShouldNotify {
				log.Debug("recipient skipped", "recipient_id", r.ID, "role", r.Role, "reason", d.Reason)
				continue
			}
			summary.NearbyCount++
			if r.Role == domain.RoleResponder {
				summary.ResponderCount++
			}
			payloads = append(payloads, c.builder.Build(event, d))
		}
	}

	if len(payloads) == 0 {
		log.Info("nothing to send", "reason", msgEmptyAudience)
		summary.Outcome = domain.OutcomeEmpty
		summary.Success = true
		summary.Message = msgEmptyAudience
		return summary
	}

	res := c.batch.Send(ctx, payloads)
	summary.TotalSent = res.SuccessCount
	summary.TotalFailed = res.FailureCount
	for _, r := range res.Results {
		if r.Success {
			continue
		}
		msg := "unknown error"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		summary.Failures = append(summary.Failures, domain.DeliveryFailure{
			Index:       r.Index,
			RecipientID: r.RecipientID,
			Error:       msg,
		})
	}

	if res.Chunks > 0 && res.TransportErrors == res.Chunks {
		summary = failed(summary, fmt.Errorf("every push batch was rejected: %w", domain.ErrTransport))
		log.Error("dispatch failed", "err", summary.Error)
		return summary
	}

	summary.Outcome = domain.OutcomeDispatched
	summary.Success = true
	log.Info("dispatch complete",
		"sent", summary.TotalSent,
		"failed", summary.TotalFailed,
		"nearby", summary.NearbyCount,
	)
	return summary
}

// enumerate loads both recipient sets concurrently and stamps each set with
// the role of the pass it came from.
func (c *Coordinator) enumerate(ctx context.Context) (responders, users []domain.Recipient, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := safeList(gctx, "responders", c.directory.ListResponders)
		responders = withRole(rs, domain.RoleResponder)
		return err
	})
	g.Go(func() error {
		us, err := safeList(gctx, "users", c.directory.ListUsers)
		users = withRole(us, domain.RoleUser)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return responders, users, nil
}

func safeList(ctx context.Context, name string, list func(context.Context) ([]domain.Recipient, error)) (out []domain.Recipient, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("list %s: panic: %v", name, r)
		}
	}()
	out, err = list(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}
	return out, nil
}

func withRole(rs []domain.Recipient, role domain.Role) []domain.Recipient {
	out := make([]domain.Recipient, len(rs))
	for i, r := range rs {
		r.Role = role
		out[i] = r
	}
	return out
}

func failed(s domain.DispatchSummary, err error) domain.DispatchSummary {
	s.Outcome = domain.OutcomeFailed
	s.Success = false
	s.Error = err.Error()
	return s
}
