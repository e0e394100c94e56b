package commands

import (
	"context"
	"log/slog"

	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrOrderNotModifiable = &errs.DomainError{Kind: errs.ErrForbidden, Field: "status", Message: "not allowed to change this order"}

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/commands/mock_order_status.go -package=commandsmock

type OrderStatusCommands interface {
	UpdateStatus(ctx context.Context, actor identity.Actor, orderID uuid.UUID, in UpdateOrderStatusInput) (*order.Order, error)
}

type orderStatusImpl struct {
	uow    shared.UnitOfWork
	access shared.AccessControl
	cache  shared.OrderStatusCache
	clock  clock.Clock
}

func NewOrderStatusCommands(uow shared.UnitOfWork, access shared.AccessControl, cache shared.OrderStatusCache, clk clock.Clock) OrderStatusCommands {
	return &orderStatusImpl{uow: uow, access: access, cache: cache, clock: clk}
}

// UpdateStatus applies one transition. Authorization is checked before the
// state machine so a forbidden caller learns nothing about legal targets.
func (u *orderStatusImpl) UpdateStatus(ctx context.Context, actor identity.Actor, orderID uuid.UUID, in UpdateOrderStatusInput) (*order.Order, error) {
	next, err := order.NewStatus(in.Status)
	if err != nil {
		return nil, errs.NewValidation("status", err.Error())
	}

	var updated *order.Order
	var previous order.Status
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrOrderNotFound
			}
			return err
		}
		if !u.access.CanUserView(actor, o.Parties()) {
			return errs.ErrOrderNotFound
		}
		if !u.access.CanUserModify(actor, o.Parties(), o.Status().String(), next.String()) {
			return ErrOrderNotModifiable
		}

		previous = o.Status()
		if err := o.UpdateStatus(next, in.Note, actor.UserID, u.clock.Now()); err != nil {
			return err
		}
		if next == order.StatusCancelled {
			if err := restock(ctx, tx, o); err != nil {
				return err
			}
		}
		if err := tx.Orders().Update(ctx, o); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.ErrConflict
			}
			return err
		}
		updated = o
		return enqueueOrderEvent(ctx, tx, shared.TopicOrderStatusChanged, o, previous)
	})
	if err != nil {
		return nil, err
	}

	if cerr := u.cache.Invalidate(ctx, orderID); cerr != nil {
		slog.Warn("failed to invalidate order status cache", "order_id", orderID, "error", cerr.Error())
	}
	slog.Info("order status updated",
		"order_id", orderID,
		"order_number", updated.Number(),
		"from", previous,
		"to", next,
		"actor_id", actor.UserID)
	return updated, nil
}

// restock returns the committed units of a cancelled order to the ledger.
func restock(ctx context.Context, tx shared.Tx, o *order.Order) error {
	for _, it := range o.Items() {
		if err := tx.Ledger().AtomicIncrement(ctx, it.ListingID, it.Quantity); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				slog.Warn("cancelled order references a deleted listing", "order_id", o.ID(), "listing_id", it.ListingID)
				continue
			}
			return err
		}
	}
	return nil
}
