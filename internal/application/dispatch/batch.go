package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazard-notifier/internal/domain"
	"github.com/hazard-notifier/internal/pkg/fingerprint"
)

// Transport delivers a batch of payloads and reports one result per payload,
// in input order. A non-nil error means the whole batch was rejected.
type Transport interface {
	SendEach(ctx context.Context, payloads []domain.NotificationPayload) ([]domain.DeliveryResult, error)
	// MaxBatchSize is the largest slice SendEach accepts; <= 0 means unbounded.
	MaxBatchSize() int
}

var errNoResult = errors.New("transport returned no result for item")

// BatchDispatcher sends payloads through a Transport without letting one
// item's failure affect any other.
type BatchDispatcher struct {
	transport Transport
	log       *slog.Logger
}

func NewBatchDispatcher(transport Transport, log *slog.Logger) *BatchDispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &BatchDispatcher{transport: transport, log: log}
}

// Send submits payloads in chunks of at most MaxBatchSize. A chunk rejected
// as a whole marks each of its items failed; later chunks are still sent.
func (b *BatchDispatcher) Send(ctx context.Context, payloads []domain.NotificationPayload) domain.BatchResult {
	res := domain.BatchResult{Results: make([]domain.DeliveryResult, 0, len(payloads))}

	size := b.transport.MaxBatchSize()
	if size <= 0 {
		size = len(payloads)
	}

	for offset := 0; offset < len(payloads); offset += size {
		end := min(offset+size, len(payloads))
		chunk := payloads[offset:end]
		res.Chunks++

		results, err := b.transport.SendEach(ctx, chunk)
		if err != nil {
			res.TransportErrors++
			b.log.Error("push batch rejected", "offset", offset, "size", len(chunk), "err", err)
			err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}

		for i, p := range chunk {
			r := domain.DeliveryResult{Err: err}
			if err == nil {
				if i < len(results) {
					r = results[i]
				} else {
					r.Err = errNoResult
				}
			}
			r.Index = offset + i
			r.RecipientID = p.RecipientID
			if r.Err != nil {
				r.Success = false
			}

			if r.Success {
				res.SuccessCount++
			} else {
				res.FailureCount++
				b.log.Warn("push delivery failed",
					"index", r.Index,
					"recipient_id", r.RecipientID,
					"token", fingerprint.Token(p.Token),
					"err", r.Err,
				)
			}
			res.Results = append(res.Results, r)
		}
	}

	b.log.Info("push batch complete",
		"sent", res.SuccessCount,
		"failed", res.FailureCount,
		"chunks", res.Chunks,
	)
	return res
}
