//go:build e2e

package cache_test

import (
	"context"
	"testing"
	"time"

	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/infra/cache"
	"marketplace-checkout/internal/pkg/config"
	"marketplace-checkout/tests/common/builder"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Redisコンテナの起動に失敗")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb, err := cache.Connect(ctx, config.RedisConfig{Addr: endpoint})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisAdapters(t *testing.T) {
	ctx := context.Background()
	rdb := startRedis(t)

	t.Run("未設定なら接続しない", func(t *testing.T) {
		client, err := cache.Connect(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("Webhookの重複排除", func(t *testing.T) {
		d := cache.NewWebhookDeduper(rdb, time.Hour)

		first, err := d.FirstSeen(ctx, "stripe", "evt_redis_1")
		require.NoError(t, err)
		again, err := d.FirstSeen(ctx, "stripe", "evt_redis_1")
		require.NoError(t, err)
		assert.True(t, first)
		assert.False(t, again)

		require.NoError(t, d.Forget(ctx, "stripe", "evt_redis_1"))
		retry, err := d.FirstSeen(ctx, "stripe", "evt_redis_1")
		require.NoError(t, err)
		assert.True(t, retry)

		ttl, err := rdb.TTL(ctx, "checkout:webhook:stripe:evt_redis_1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)
	})

	t.Run("注文ステータスのキャッシュ", func(t *testing.T) {
		c := cache.NewOrderStatusCache(rdb, time.Minute)
		view := builder.NewOrderBuilder().WithStatus(order.StatusShipped).BuildStatusView()

		_, hit, err := c.Get(ctx, view.OrderID)
		require.NoError(t, err)
		assert.False(t, hit)

		require.NoError(t, c.Set(ctx, *view))
		got, hit, err := c.Get(ctx, view.OrderID)
		require.NoError(t, err)
		require.True(t, hit)
		assert.Equal(t, view.OrderNumber, got.OrderNumber)
		assert.Equal(t, "shipped", got.Status)
		assert.True(t, view.UpdatedAt.Equal(got.UpdatedAt))

		require.NoError(t, c.Invalidate(ctx, view.OrderID))
		_, hit, err = c.Get(ctx, view.OrderID)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}
