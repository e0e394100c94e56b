//go:build unit

package queries_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/infra/memstore"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/queries"
	"marketplace-checkout/internal/usecase/shared"
	"marketplace-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCache is a map-backed status cache that counts reads and can be made to fail.
type recordingCache struct {
	views   map[uuid.UUID]shared.OrderStatusView
	hits    int
	sets    int
	failGet bool
}

func newRecordingCache() *recordingCache {
	return &recordingCache{views: map[uuid.UUID]shared.OrderStatusView{}}
}

func (c *recordingCache) Get(_ context.Context, id uuid.UUID) (*shared.OrderStatusView, bool, error) {
	if c.failGet {
		return nil, false, errors.New("redis: connection refused")
	}
	v, ok := c.views[id]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &v, true, nil
}

func (c *recordingCache) Set(_ context.Context, v shared.OrderStatusView) error {
	c.sets++
	c.views[v.OrderID] = v
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, id uuid.UUID) error {
	delete(c.views, id)
	return nil
}

type orderFixture struct {
	store   *memstore.Store
	cache   *recordingCache
	queries queries.OrderQueries
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{store: memstore.New(), cache: newRecordingCache()}
	f.queries = queries.NewOrderQueries(f.store, f.store, identity.NewRolePolicy(), f.cache)
	return f
}

func (f *orderFixture) insert(t *testing.T, b *builder.OrderBuilder) *order.Order {
	t.Helper()
	o := b.BuildDomain()
	err := f.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Create(ctx, o)
	})
	require.NoError(t, err)
	return o
}

// seedHistory inserts n orders for buyer and seller, newest first, one minute apart.
func (f *orderFixture) seedHistory(t *testing.T, buyer *builder.BuyerBuilder, seller *builder.SellerBuilder, n int) []*order.Order {
	t.Helper()
	out := make([]*order.Order, 0, n)
	for i := range n {
		out = append(out, f.insert(t, builder.NewOrderBuilder().
			WithBuyer(buyer.BuildSnapshot()).
			WithSeller(seller.BuildSnapshot()).
			With(func(b *builder.OrderBuilder) {
				b.Number = fmt.Sprintf("ORD-20250129-A%05d", i)
				b.CreatedAt = builder.FixedNow.Add(-time.Duration(i) * time.Minute)
			})))
	}
	return out
}

func listIDs(items []*queries.OrderListItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func orderIDs(orders []*order.Order) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids
}

func TestOrderQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	buyer := builder.NewBuyerBuilder()
	seller := builder.NewSellerBuilder()

	cases := []struct {
		name  string
		actor identity.Actor
		errIs error
	}{
		{name: "購入者OK", actor: buyer.Actor()},
		{name: "出品者OK", actor: seller.Actor()},
		{name: "管理者OK", actor: identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}},
		{name: "第三者は存在しない扱い", actor: builder.NewBuyerBuilder().Actor(), errIs: errs.ErrOrderNotFound},
		{name: "他の出品者は存在しない扱い", actor: builder.NewSellerBuilder().Actor(), errIs: errs.ErrOrderNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newOrderFixture()
			o := f.insert(t, builder.NewOrderBuilder().WithBuyer(buyer.BuildSnapshot()).WithSeller(seller.BuildSnapshot()))

			got, err := f.queries.GetByID(ctx, tc.actor, o.ID())
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, o.Number(), got.Number())
			assert.True(t, got.TotalAmount().Equal(builder.Money("105.00")))
		})
	}

	t.Run("存在しない注文NG", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.queries.GetByID(ctx, buyer.Actor(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})
}

func TestOrderQueries_List(t *testing.T) {
	ctx := context.Background()

	t.Run("カーソルで全件を辿る", func(t *testing.T) {
		f := newOrderFixture()
		buyer := builder.NewBuyerBuilder()
		orders := f.seedHistory(t, buyer, builder.NewSellerBuilder(), 5)

		var seen []uuid.UUID
		var cursor *queries.Cursor
		pages := 0
		for {
			items, next, err := f.queries.List(ctx, buyer.Actor(), queries.ScopeBuyer, queries.OrderFilters{}, cursor, 2)
			require.NoError(t, err)
			pages++
			seen = append(seen, listIDs(items)...)
			if next == nil {
				break
			}
			cursor = next
		}

		assert.Equal(t, 3, pages)
		assert.Equal(t, orderIDs(orders), seen, "newest first without gaps or repeats")
	})

	t.Run("ちょうどlimit件なら次カーソルなし", func(t *testing.T) {
		f := newOrderFixture()
		buyer := builder.NewBuyerBuilder()
		f.seedHistory(t, buyer, builder.NewSellerBuilder(), 2)

		items, next, err := f.queries.List(ctx, buyer.Actor(), "", queries.OrderFilters{}, nil, 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Nil(t, next)
	})

	t.Run("出品者スコープ", func(t *testing.T) {
		f := newOrderFixture()
		seller := builder.NewSellerBuilder()
		seller.Seed(f.store)
		mine := f.seedHistory(t, builder.NewBuyerBuilder(), seller, 2)
		f.insert(t, builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.Number = "ORD-20250129-ZZZZZ1" }))

		items, _, err := f.queries.List(ctx, seller.Actor(), queries.ScopeSeller, queries.OrderFilters{}, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, orderIDs(mine), listIDs(items))
		assert.Equal(t, seller.ShopName, items[0].ShopName)
		assert.Equal(t, 1, items[0].ItemCount)
	})

	t.Run("ステータスで絞り込み", func(t *testing.T) {
		f := newOrderFixture()
		buyer := builder.NewBuyerBuilder()
		f.seedHistory(t, buyer, builder.NewSellerBuilder(), 2)
		shipped := f.insert(t, builder.NewOrderBuilder().
			WithBuyer(buyer.BuildSnapshot()).
			WithStatus(order.StatusShipped).
			With(func(b *builder.OrderBuilder) { b.Number = "ORD-20250129-SHIP01" }))

		items, _, err := f.queries.List(ctx, buyer.Actor(), queries.ScopeBuyer, queries.OrderFilters{Status: "shipped"}, nil, 10)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{shipped.ID()}, listIDs(items))
	})

	t.Run("入力の検証", func(t *testing.T) {
		cases := []struct {
			name    string
			actor   identity.Actor
			scope   queries.ListScope
			filters queries.OrderFilters
			cursor  *queries.Cursor
			errIs   error
		}{
			{name: "不正なステータスNG", scope: queries.ScopeBuyer, filters: queries.OrderFilters{Status: "lost"}, errIs: errs.ErrValidation},
			{name: "不正なスコープNG", scope: "admin", errIs: errs.ErrValidation},
			{name: "壊れたカーソルNG", scope: queries.ScopeBuyer, cursor: &queries.Cursor{After: "%%%"}, errIs: queries.ErrInvalidCursor},
			{name: "出品者でない利用者NG", scope: queries.ScopeSeller, errIs: queries.ErrNotASeller},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newOrderFixture()
				_, _, err := f.queries.List(ctx, builder.NewBuyerBuilder().Actor(), tc.scope, tc.filters, tc.cursor, 10)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestOrderQueries_GetStatus(t *testing.T) {
	ctx := context.Background()
	buyer := builder.NewBuyerBuilder()

	t.Run("初回は読み込んでキャッシュする", func(t *testing.T) {
		f := newOrderFixture()
		o := f.insert(t, builder.NewOrderBuilder().WithBuyer(buyer.BuildSnapshot()))

		view, err := f.queries.GetStatus(ctx, buyer.Actor(), o.ID())
		require.NoError(t, err)
		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, 0, f.cache.hits)
		assert.Equal(t, 1, f.cache.sets)

		_, err = f.queries.GetStatus(ctx, buyer.Actor(), o.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.hits)
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("キャッシュ障害時はストアから読む", func(t *testing.T) {
		f := newOrderFixture()
		f.cache.failGet = true
		o := f.insert(t, builder.NewOrderBuilder().WithBuyer(buyer.BuildSnapshot()))

		view, err := f.queries.GetStatus(ctx, buyer.Actor(), o.ID())
		require.NoError(t, err)
		assert.Equal(t, o.Number(), view.OrderNumber)
	})

	t.Run("キャッシュ済みでも権限を確認する", func(t *testing.T) {
		f := newOrderFixture()
		o := f.insert(t, builder.NewOrderBuilder().WithBuyer(buyer.BuildSnapshot()))
		_, err := f.queries.GetStatus(ctx, buyer.Actor(), o.ID())
		require.NoError(t, err)

		_, err = f.queries.GetStatus(ctx, builder.NewBuyerBuilder().Actor(), o.ID())
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})

	t.Run("存在しない注文NG", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.queries.GetStatus(ctx, buyer.Actor(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
		assert.Equal(t, 0, f.cache.sets)
	})
}
