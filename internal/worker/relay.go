package worker

import (
	"context"
	"log/slog"
	"time"

	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// Relay forwards outbox events to the broker. Delivery is at least once:
// a batch is marked only after the publisher accepted it.
type Relay struct {
	loop
	uow       shared.UnitOfWork
	publisher shared.EventPublisher
	clock     clock.Clock
	batch     int
}

func NewRelay(uow shared.UnitOfWork, publisher shared.EventPublisher, clk clock.Clock, interval time.Duration, batch int) *Relay {
	r := &Relay{uow: uow, publisher: publisher, clock: clk, batch: batch}
	r.loop = loop{name: "outbox-relay", interval: interval, tick: func(ctx context.Context) {
		if _, err := r.RunOnce(ctx); err != nil {
			slog.Error("outbox relay failed", "error", err.Error())
		}
	}}
	return r
}

// RunOnce relays a single batch and returns how many events it published.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events, err := tx.Outbox().FetchUnpublished(ctx, r.batch)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		if err := r.publisher.Publish(ctx, events); err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		if err := tx.Outbox().MarkPublished(ctx, ids, r.clock.Now()); err != nil {
			return err
		}
		published = len(events)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}
