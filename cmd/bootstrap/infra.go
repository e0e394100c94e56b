package bootstrap

import (
	"context"
	"log/slog"

	"marketplace-checkout/internal/infra/broker"
	"marketplace-checkout/internal/infra/cache"
	"marketplace-checkout/internal/infra/payment"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/config"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewRedis,
		NewWebhookDeduper,
		NewOrderStatusCache,
	),
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewEventPublisher,
	),
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		NewPaymentGateway,
	),
)

// NewRedis returns a nil client when REDIS_ADDR is empty.
func NewRedis(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	rdb, err := cache.Connect(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		slog.Warn("redis not configured, using in-process webhook dedup and no status cache")
		return nil, nil
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return rdb, nil
}

func NewWebhookDeduper(rdb *redis.Client, cfg config.Config, clk clock.Clock) shared.WebhookDeduper {
	if rdb == nil {
		return cache.NewLocalDeduper(cfg.Redis.DedupTTL, clk)
	}
	return cache.NewWebhookDeduper(rdb, cfg.Redis.DedupTTL)
}

func NewOrderStatusCache(rdb *redis.Client, cfg config.Config) shared.OrderStatusCache {
	if rdb == nil {
		return cache.NoopStatusCache{}
	}
	return cache.NewOrderStatusCache(rdb, cfg.Redis.StatusCacheTTL)
}

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config) shared.EventPublisher {
	if len(cfg.Kafka.Brokers) == 0 {
		slog.Warn("kafka not configured, outbox events are logged only")
		return broker.LogPublisher{}
	}
	p := broker.NewKafkaPublisher(cfg.Kafka)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})
	return p
}

func NewPaymentGateway(cfg config.Config) shared.PaymentGateway {
	if cfg.Payment.StripeSecretKey == "" {
		slog.Warn("stripe not configured, using the sandbox payment gateway")
		return payment.NewSandboxGateway(cfg.Payment.StripeWebhookSecret)
	}
	return payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.StripeWebhookSecret)
}
