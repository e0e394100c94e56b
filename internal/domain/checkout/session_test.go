//go:build unit

package checkout_test

import (
	"testing"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		s := builder.NewSessionBuilder().Build()

		assert.NotEqual(t, uuid.Nil, s.ID())
		assert.Equal(t, checkout.StatusPending, s.Status())
		assert.Equal(t, builder.FixedNow.Add(10*time.Minute), s.ExpiresAt())
		assert.Equal(t, 1, s.Version())
		require.Len(t, s.SellerGroups(), 1)
		assert.True(t, s.Pricing().TotalAmount.Equal(builder.Money("100.00")))
	})

	t.Run("入力検証", func(t *testing.T) {
		item := checkout.Item{ListingID: uuid.New(), SellerID: uuid.New(), UnitPrice: builder.Money("10"), Quantity: 1}

		cases := []struct {
			name  string
			typ   checkout.SessionType
			items []checkout.Item
			errIs error
		}{
			{name: "カート1件OK", typ: checkout.SessionCart, items: []checkout.Item{item}},
			{name: "直接購入1件OK", typ: checkout.SessionDirect, items: []checkout.Item{item}},
			{name: "明細なしNG", typ: checkout.SessionCart, errIs: checkout.ErrNoItems},
			{name: "直接購入で複数明細NG", typ: checkout.SessionDirect, items: []checkout.Item{item, item}, errIs: checkout.ErrDirectSingleItem},
			{name: "不正なセッション種別NG", typ: "wishlist", items: []checkout.Item{item}, errIs: checkout.ErrInvalidSessionType},
			{
				name:  "数量ゼロNG",
				typ:   checkout.SessionCart,
				items: []checkout.Item{{ListingID: uuid.New(), SellerID: uuid.New(), Quantity: 0}},
				errIs: checkout.ErrInvalidQuantity,
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := checkout.NewSession(checkout.NewSessionParams{
					UserID: uuid.New(),
					Type:   tc.typ,
					Items:  tc.items,
					Now:    builder.FixedNow,
				})
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
					assert.ErrorIs(t, err, errs.ErrValidation)
					return
				}
				assert.NoError(t, err)
			})
		}
	})
}

func TestSessionExpiry(t *testing.T) {
	s := builder.NewSessionBuilder().Build()
	deadline := builder.FixedNow.Add(checkout.DefaultTTL)

	t.Run("期限の直前は有効", func(t *testing.T) {
		now := deadline.Add(-time.Nanosecond)
		assert.False(t, s.IsExpired(now))
		assert.True(t, s.CanModify(now))
		assert.NoError(t, s.EnsureModifiable(now))
		assert.Equal(t, checkout.StatusPending, s.EffectiveStatus(now))
	})

	t.Run("期限ちょうどで失効", func(t *testing.T) {
		assert.True(t, s.IsExpired(deadline))
		assert.True(t, s.NeedsExpiry(deadline))
		assert.False(t, s.CanModify(deadline))
		assert.ErrorIs(t, s.EnsureModifiable(deadline), errs.ErrSessionExpired)
		assert.Equal(t, checkout.StatusExpired, s.EffectiveStatus(deadline))
	})

	t.Run("期限前のExpireはNG", func(t *testing.T) {
		s := builder.NewSessionBuilder().Build()
		changed, err := s.Expire(builder.FixedNow.Add(time.Minute))
		assert.ErrorIs(t, err, checkout.ErrInvalidTransition)
		assert.False(t, changed)
	})

	t.Run("Expireは冪等", func(t *testing.T) {
		s := builder.NewSessionBuilder().Build()

		changed, err := s.Expire(deadline)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, checkout.StatusExpired, s.Status())

		changed, err = s.Expire(deadline.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestSessionTransitions(t *testing.T) {
	now := builder.FixedNow.Add(time.Minute)

	t.Run("決済開始から完了まで", func(t *testing.T) {
		s := builder.NewSessionBuilder().Build()

		require.NoError(t, s.MarkPaymentIntentCreated("pi_123", now))
		assert.Equal(t, checkout.StatusPaymentIntentCreated, s.Status())
		assert.Equal(t, "pi_123", s.PaymentIntentRef())
		assert.ErrorIs(t, s.EnsureModifiable(now), errs.ErrSessionNotModifiable)

		require.NoError(t, s.MarkPaymentIntentCreated("pi_123", now), "same intent is a no-op")

		orderIDs := []uuid.UUID{uuid.New(), uuid.New()}
		changed, err := s.Complete(orderIDs, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, orderIDs, s.OrderIDs())

		changed, err = s.Complete(orderIDs, now)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("pendingから直接完了はNG", func(t *testing.T) {
		s := builder.NewSessionBuilder().Build()
		_, err := s.Complete(nil, now)
		assert.ErrorIs(t, err, errs.ErrSessionNotModifiable)
	})

	t.Run("失効後の決済開始はNG", func(t *testing.T) {
		s := builder.NewSessionBuilder().Build()
		err := s.MarkPaymentIntentCreated("pi_late", builder.FixedNow.Add(checkout.DefaultTTL))
		assert.ErrorIs(t, err, errs.ErrSessionExpired)
	})

	t.Run("キャンセルは冪等", func(t *testing.T) {
		s := builder.NewSessionBuilder().Build()

		changed, err := s.Cancel(now)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = s.Cancel(now)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("終端状態からの遷移はNG", func(t *testing.T) {
		for _, from := range []checkout.Status{checkout.StatusCompleted, checkout.StatusCancelled, checkout.StatusExpired} {
			for _, to := range []checkout.Status{checkout.StatusPending, checkout.StatusPaymentIntentCreated, checkout.StatusCompleted, checkout.StatusCancelled, checkout.StatusExpired} {
				assert.False(t, checkout.CanTransition(from, to), "%s -> %s", from, to)
			}
			assert.True(t, from.IsTerminal())
			assert.False(t, from.IsActive())
		}
	})
}

func TestSessionQuantity(t *testing.T) {
	seller := builder.NewSellerBuilder()
	listing := seller.Listing()
	s := builder.NewSessionBuilder().WithItem(seller.BuildProfile(), *listing, 1).Build()
	now := builder.FixedNow.Add(time.Minute)

	require.NoError(t, s.SetQuantity(listing.ID, 3, now))
	it, ok := s.Item(listing.ID)
	require.True(t, ok)
	assert.Equal(t, 3, it.Quantity)

	assert.ErrorIs(t, s.SetQuantity(listing.ID, 0, now), checkout.ErrInvalidQuantity)
	assert.ErrorIs(t, s.SetQuantity(uuid.New(), 1, now), checkout.ErrItemNotInSession)
}

func TestReadyForPayment(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*builder.SessionBuilder)
		wantErr error
	}{
		{
			name:   "店頭受取は住所不要OK",
			mutate: func(b *builder.SessionBuilder) { b.WithDelivery(pricing.DeliveryPickup, nil) },
		},
		{
			name:   "配送は住所ありOK",
			mutate: func(b *builder.SessionBuilder) { b.WithDelivery(pricing.DeliveryCampus, builder.SampleAddress()) },
		},
		{
			name:    "配送で住所なしNG",
			mutate:  func(b *builder.SessionBuilder) { b.WithDelivery(pricing.DeliveryPersonal, nil) },
			wantErr: checkout.ErrMissingDelivery,
		},
		{
			name:    "配送方法未設定NG",
			mutate:  func(b *builder.SessionBuilder) { b.WithDelivery("", nil) },
			wantErr: checkout.ErrMissingDelivery,
		},
		{
			name:    "支払い方法未設定NG",
			mutate:  func(b *builder.SessionBuilder) { b.WithPayment("") },
			wantErr: checkout.ErrMissingPayment,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewSessionBuilder()
			tc.mutate(b)
			err := b.Build().ReadyForPayment()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMergeRequested(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("重複をまとめて順序を保つ", func(t *testing.T) {
		got, err := checkout.MergeRequested([]checkout.RequestedItem{
			{ListingID: a, Quantity: 1},
			{ListingID: b, Quantity: 2},
			{ListingID: a, Quantity: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, []checkout.RequestedItem{
			{ListingID: a, Quantity: 4},
			{ListingID: b, Quantity: 2},
		}, got)
	})

	t.Run("空NG", func(t *testing.T) {
		_, err := checkout.MergeRequested(nil)
		assert.ErrorIs(t, err, checkout.ErrNoItems)
	})

	t.Run("負の数量NG", func(t *testing.T) {
		_, err := checkout.MergeRequested([]checkout.RequestedItem{{ListingID: a, Quantity: -1}})
		assert.ErrorIs(t, err, checkout.ErrInvalidQuantity)
	})
}

func TestGroupBySeller(t *testing.T) {
	s1 := builder.NewSellerBuilder().WithShopName("Shop One")
	s2 := builder.NewSellerBuilder().WithShopName("Shop Two")
	sellers := map[uuid.UUID]checkout.SellerProfile{
		s1.SellerID: s1.BuildProfile(),
		s2.SellerID: s2.BuildProfile(),
	}
	items := []checkout.Item{
		{ListingID: uuid.New(), SellerID: s2.SellerID, Quantity: 1},
		{ListingID: uuid.New(), SellerID: s1.SellerID, Quantity: 1},
		{ListingID: uuid.New(), SellerID: s2.SellerID, Quantity: 2},
	}

	t.Run("初出順にグループ化", func(t *testing.T) {
		groups, err := checkout.GroupBySeller(items, sellers)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "Shop Two", groups[0].ShopName)
		assert.Len(t, groups[0].Items, 2)
		assert.Equal(t, "Shop One", groups[1].ShopName)
		assert.Len(t, groups[1].Items, 1)
	})

	t.Run("未知の出品者NG", func(t *testing.T) {
		_, err := checkout.GroupBySeller(items, map[uuid.UUID]checkout.SellerProfile{s1.SellerID: s1.BuildProfile()})
		assert.ErrorIs(t, err, errs.ErrItemUnavailable)
	})
}

func TestReprice(t *testing.T) {
	s1 := builder.NewSellerBuilder()
	s2 := builder.NewSellerBuilder()
	s := builder.NewSessionBuilder().
		WithItem(s1.BuildProfile(), *s1.Listing().WithPrice("100.00"), 1).
		WithItem(s2.BuildProfile(), *s2.Listing().WithPrice("50.00"), 1).
		WithPayment(pricing.PaymentCard).
		Build()

	groups := s.SellerGroups()
	require.Len(t, groups, 2)
	assert.True(t, groups[0].Pricing.TotalAmount.Equal(builder.Money("100.00")))
	assert.True(t, groups[1].Pricing.TotalAmount.Equal(builder.Money("50.00")))
	assert.True(t, s.Pricing().TotalAmount.Equal(builder.Money("150.00")))
	assert.ElementsMatch(t, []uuid.UUID{s1.SellerID, s2.SellerID}, s.SellerIDs())
}
