package cache

import (
	"context"
	"sync"
	"time"

	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// LocalDeduper keeps claimed webhook events in process memory. Used when
// Redis is not configured; claims do not survive a restart.
type LocalDeduper struct {
	mu    sync.Mutex
	ttl   time.Duration
	clock clock.Clock
	seen  map[string]time.Time
}

func NewLocalDeduper(ttl time.Duration, clk clock.Clock) *LocalDeduper {
	return &LocalDeduper{ttl: ttl, clock: clk, seen: make(map[string]time.Time)}
}

var _ shared.WebhookDeduper = (*LocalDeduper)(nil)

func (d *LocalDeduper) FirstSeen(_ context.Context, provider, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	key := provider + ":" + eventID
	if at, ok := d.seen[key]; ok && now.Sub(at) < d.ttl {
		return false, nil
	}
	for k, at := range d.seen {
		if now.Sub(at) >= d.ttl {
			delete(d.seen, k)
		}
	}
	d.seen[key] = now
	return true, nil
}

func (d *LocalDeduper) Forget(_ context.Context, provider, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, provider+":"+eventID)
	return nil
}

// NoopStatusCache always misses.
type NoopStatusCache struct{}

var _ shared.OrderStatusCache = NoopStatusCache{}

func (NoopStatusCache) Get(context.Context, uuid.UUID) (*shared.OrderStatusView, bool, error) {
	return nil, false, nil
}

func (NoopStatusCache) Set(context.Context, shared.OrderStatusView) error { return nil }

func (NoopStatusCache) Invalidate(context.Context, uuid.UUID) error { return nil }
