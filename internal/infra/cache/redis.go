package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace-checkout/internal/pkg/config"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyWebhookEvent = "checkout:webhook:%s:%s"
	keyOrderStatus  = "checkout:order_status:%s"
)

// Connect returns nil when no address is configured.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errs.Wrapf(err, "failed to ping redis at %s", cfg.Addr)
	}
	return rdb, nil
}

type WebhookDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewWebhookDeduper(rdb *redis.Client, ttl time.Duration) *WebhookDeduper {
	return &WebhookDeduper{rdb: rdb, ttl: ttl}
}

var _ shared.WebhookDeduper = (*WebhookDeduper)(nil)

func (d *WebhookDeduper) FirstSeen(ctx context.Context, provider, eventID string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, fmt.Sprintf(keyWebhookEvent, provider, eventID), time.Now().UTC().Unix(), d.ttl).Result()
	if err != nil {
		return false, errs.Wrap(err, "claim webhook event")
	}
	return ok, nil
}

func (d *WebhookDeduper) Forget(ctx context.Context, provider, eventID string) error {
	if err := d.rdb.Del(ctx, fmt.Sprintf(keyWebhookEvent, provider, eventID)).Err(); err != nil {
		return errs.Wrap(err, "release webhook event")
	}
	return nil
}

type OrderStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOrderStatusCache(rdb *redis.Client, ttl time.Duration) *OrderStatusCache {
	return &OrderStatusCache{rdb: rdb, ttl: ttl}
}

var _ shared.OrderStatusCache = (*OrderStatusCache)(nil)

func (c *OrderStatusCache) Get(ctx context.Context, orderID uuid.UUID) (*shared.OrderStatusView, bool, error) {
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(keyOrderStatus, orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(err, "read order status cache")
	}
	var view shared.OrderStatusView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, false, errs.Wrap(err, "decode cached order status")
	}
	return &view, true, nil
}

func (c *OrderStatusCache) Set(ctx context.Context, view shared.OrderStatusView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, fmt.Sprintf(keyOrderStatus, view.OrderID), raw, c.ttl).Err(); err != nil {
		return errs.Wrap(err, "write order status cache")
	}
	return nil
}

func (c *OrderStatusCache) Invalidate(ctx context.Context, orderID uuid.UUID) error {
	if err := c.rdb.Del(ctx, fmt.Sprintf(keyOrderStatus, orderID)).Err(); err != nil {
		return errs.Wrap(err, "invalidate order status cache")
	}
	return nil
}
