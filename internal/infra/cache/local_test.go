//go:build unit

package cache_test

import (
	"context"
	"testing"
	"time"

	"marketplace-checkout/internal/infra/cache"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDeduper(t *testing.T) {
	ctx := context.Background()

	t.Run("2回目は重複", func(t *testing.T) {
		d := cache.NewLocalDeduper(time.Hour, clock.NewMockClock(builder.FixedNow))

		first, err := d.FirstSeen(ctx, "stripe", "evt_1")
		require.NoError(t, err)
		again, err := d.FirstSeen(ctx, "stripe", "evt_1")
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, again)
	})

	t.Run("プロバイダごとに独立", func(t *testing.T) {
		d := cache.NewLocalDeduper(time.Hour, clock.NewMockClock(builder.FixedNow))

		_, err := d.FirstSeen(ctx, "stripe", "evt_1")
		require.NoError(t, err)
		other, err := d.FirstSeen(ctx, "sandbox", "evt_1")
		require.NoError(t, err)
		assert.True(t, other)
	})

	t.Run("TTL経過後は再処理できる", func(t *testing.T) {
		clk := clock.NewMockClock(builder.FixedNow)
		d := cache.NewLocalDeduper(time.Hour, clk)

		_, err := d.FirstSeen(ctx, "stripe", "evt_1")
		require.NoError(t, err)

		clk.Add(59 * time.Minute)
		seen, err := d.FirstSeen(ctx, "stripe", "evt_1")
		require.NoError(t, err)
		assert.False(t, seen)

		clk.Add(time.Minute)
		seen, err = d.FirstSeen(ctx, "stripe", "evt_1")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("Forgetで解放", func(t *testing.T) {
		d := cache.NewLocalDeduper(time.Hour, clock.NewMockClock(builder.FixedNow))

		_, err := d.FirstSeen(ctx, "stripe", "evt_1")
		require.NoError(t, err)
		require.NoError(t, d.Forget(ctx, "stripe", "evt_1"))

		seen, err := d.FirstSeen(ctx, "stripe", "evt_1")
		require.NoError(t, err)
		assert.True(t, seen)
	})
}

func TestNoopStatusCache(t *testing.T) {
	c := cache.NoopStatusCache{}
	view := builder.NewOrderBuilder().BuildStatusView()

	require.NoError(t, c.Set(context.Background(), *view))
	_, hit, err := c.Get(context.Background(), view.OrderID)
	require.NoError(t, err)
	assert.False(t, hit)
}
