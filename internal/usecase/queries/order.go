package queries

import (
	"context"
	"log/slog"
	"time"

	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrNotASeller = &errs.DomainError{Kind: errs.ErrForbidden, Field: "scope", Message: "caller has no seller profile"}

type OrderReadStore interface {
	FindFirstPage(ctx context.Context, scope ListScope, ownerID uuid.UUID, status string, limit int32) ([]*OrderListItem, error)
	FindKeyset(ctx context.Context, scope ListScope, ownerID uuid.UUID, status string, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*OrderListItem, error)
	FindStatus(ctx context.Context, orderID uuid.UUID) (*shared.OrderStatusView, error)
	SellerIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/queries/mock_order.go -package=queriesmock

type OrderQueries interface {
	GetByID(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*order.Order, error)
	List(ctx context.Context, actor identity.Actor, scope ListScope, filters OrderFilters, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
	GetStatus(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*shared.OrderStatusView, error)
}

type orderQueriesImpl struct {
	uow    shared.UnitOfWork
	store  OrderReadStore
	access shared.AccessControl
	cache  shared.OrderStatusCache
}

func NewOrderQueries(uow shared.UnitOfWork, store OrderReadStore, access shared.AccessControl, cache shared.OrderStatusCache) OrderQueries {
	return &orderQueriesImpl{uow: uow, store: store, access: access, cache: cache}
}

// GetByID hides orders the caller may not view behind ErrOrderNotFound.
func (q *orderQueriesImpl) GetByID(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*order.Order, error) {
	var o *order.Order
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var ferr error
		o, ferr = tx.Orders().FindByID(ctx, orderID)
		return ferr
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, err
	}
	if !q.access.CanUserView(actor, o.Parties()) {
		return nil, errs.ErrOrderNotFound
	}
	return o, nil
}

func (q *orderQueriesImpl) List(ctx context.Context, actor identity.Actor, scope ListScope, filters OrderFilters, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	if filters.Status != "" {
		if _, err := order.NewStatus(filters.Status); err != nil {
			return nil, nil, errs.NewValidation("status", err.Error())
		}
	}

	ownerID := actor.UserID
	switch scope {
	case ScopeBuyer, "":
		scope = ScopeBuyer
	case ScopeSeller:
		sellerID, err := q.store.SellerIDForUser(ctx, actor.UserID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, nil, ErrNotASeller
			}
			return nil, nil, err
		}
		ownerID = sellerID
	default:
		return nil, nil, errs.NewValidation("scope", "must be buyer or seller")
	}

	var rows []*OrderListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindFirstPage(ctx, scope, ownerID, filters.Status, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, derr
		}
		rows, err = q.store.FindKeyset(ctx, scope, ownerID, filters.Status, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

// GetStatus is served from the status cache when possible.
func (q *orderQueriesImpl) GetStatus(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*shared.OrderStatusView, error) {
	view, hit, err := q.cache.Get(ctx, orderID)
	if err != nil {
		slog.Warn("order status cache read failed", "order_id", orderID, "error", err.Error())
		hit = false
	}
	if !hit {
		view, err = q.store.FindStatus(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.ErrOrderNotFound
			}
			return nil, err
		}
		if serr := q.cache.Set(ctx, *view); serr != nil {
			slog.Warn("order status cache write failed", "order_id", orderID, "error", serr.Error())
		}
	}

	parties := identity.OrderParties{BuyerID: view.BuyerID, SellerUserID: view.SellerUserID}
	if !q.access.CanUserView(actor, parties) {
		return nil, errs.ErrOrderNotFound
	}
	return view, nil
}
