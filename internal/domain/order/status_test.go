//go:build unit

package order_test

import (
	"testing"
	"time"

	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []order.Status{
	order.StatusPending,
	order.StatusConfirmed,
	order.StatusProcessing,
	order.StatusShipped,
	order.StatusDelivered,
	order.StatusCompleted,
	order.StatusCancelled,
	order.StatusRefunded,
}

func TestStatusTable(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.StatusPending:    {order.StatusConfirmed, order.StatusProcessing, order.StatusCancelled},
		order.StatusConfirmed:  {order.StatusProcessing, order.StatusShipped, order.StatusCompleted, order.StatusCancelled},
		order.StatusProcessing: {order.StatusShipped, order.StatusDelivered, order.StatusCompleted, order.StatusCancelled},
		order.StatusShipped:    {order.StatusDelivered, order.StatusCompleted},
		order.StatusDelivered:  {order.StatusCompleted},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)

			err := order.ValidateTransition(from, to)
			if want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []order.Status{order.StatusCompleted, order.StatusCancelled, order.StatusRefunded} {
		assert.True(t, s.IsTerminal(), s)
		assert.Empty(t, s.NextStatuses(), s)
	}
	for _, s := range []order.Status{order.StatusPending, order.StatusShipped} {
		assert.False(t, s.IsTerminal(), s)
	}

	_, err := order.NewStatus("lost")
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

func TestUpdateStatus(t *testing.T) {
	actor := uuid.New()
	now := builder.FixedNow.Add(time.Hour)

	t.Run("基本成功ケース", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()

		require.NoError(t, o.UpdateStatus(order.StatusConfirmed, "seller accepted", actor, now))

		assert.Equal(t, order.StatusConfirmed, o.Status())
		assert.Equal(t, now, o.UpdatedAt())
		history := o.History()
		require.Len(t, history, 2)
		assert.Equal(t, order.HistoryEntry{
			Status:    order.StatusConfirmed,
			Note:      "seller accepted",
			UpdatedAt: now,
			UpdatedBy: actor,
		}, history[1])
		require.NotNil(t, o.Milestones().ConfirmedAt)
		assert.Equal(t, now, *o.Milestones().ConfirmedAt)
	})

	t.Run("店頭受取はpendingから直接completed", func(t *testing.T) {
		o := builder.NewOrderBuilder().WithDeliveryMethod(pricing.DeliveryPickup).BuildDomain()
		assert.Contains(t, o.NextStatuses(), order.StatusCompleted)

		require.NoError(t, o.UpdateStatus(order.StatusCompleted, "collected", actor, now))
		assert.Equal(t, order.StatusCompleted, o.Status())
		require.NotNil(t, o.Milestones().CompletedAt)

		err := o.UpdateStatus(order.StatusShipped, "", actor, now)
		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
		assert.Equal(t, order.StatusCompleted, o.Status())
		assert.Len(t, o.History(), 2)
	})

	t.Run("配送注文はpendingから直接completedNG", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		assert.NotContains(t, o.NextStatuses(), order.StatusCompleted)

		err := o.UpdateStatus(order.StatusCompleted, "", actor, now)
		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
		assert.Equal(t, order.StatusPending, o.Status())
	})

	t.Run("逆戻りNG", func(t *testing.T) {
		o := builder.NewOrderBuilder().WithStatus(order.StatusShipped).BuildDomain()
		err := o.UpdateStatus(order.StatusProcessing, "", actor, now)
		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	})

	t.Run("終端状態からは全てNG", func(t *testing.T) {
		for _, from := range []order.Status{order.StatusCompleted, order.StatusCancelled, order.StatusRefunded} {
			for _, to := range allStatuses {
				o := builder.NewOrderBuilder().WithStatus(from).WithDeliveryMethod(pricing.DeliveryPickup).BuildDomain()
				err := o.UpdateStatus(to, "", actor, now)
				assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition, "%s -> %s", from, to)
				assert.Equal(t, from, o.Status())
			}
		}
	})

	t.Run("不正なステータスNG", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		err := o.UpdateStatus(order.Status("lost"), "", actor, now)
		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	})
}

func TestCanCancel(t *testing.T) {
	cases := map[order.Status]bool{
		order.StatusPending:    true,
		order.StatusConfirmed:  true,
		order.StatusProcessing: true,
		order.StatusShipped:    false,
		order.StatusDelivered:  false,
		order.StatusCompleted:  false,
	}
	for status, want := range cases {
		o := builder.NewOrderBuilder().WithStatus(status).BuildDomain()
		assert.Equal(t, want, o.CanCancel(), status)
	}
}

func TestMarkPaid(t *testing.T) {
	o := builder.NewOrderBuilder().BuildDomain()
	now := builder.FixedNow.Add(time.Minute)

	o.MarkPaid("pi_123", now)
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
	assert.Equal(t, "pi_123", o.PaymentIntentRef())

	o.MarkPaid("pi_other", now.Add(time.Minute))
	assert.Equal(t, "pi_123", o.PaymentIntentRef())
	assert.Equal(t, now, o.UpdatedAt())
}
