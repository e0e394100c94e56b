package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	maxOrderNumberAttempts = 5
	webhookProvider        = "payment"
)

var ErrSessionNotPayable = &errs.DomainError{Kind: errs.ErrSessionNotModifiable, Field: "status", Message: "session has no payment in progress"}

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/commands/mock_order_factory.go -package=commandsmock

type OrderFactoryCommands interface {
	CreateOrders(ctx context.Context, sessionID uuid.UUID) ([]*order.Order, error)
	ConfirmPayment(ctx context.Context, payload []byte, signature string) (*ConfirmPaymentResult, error)
}

type orderFactoryImpl struct {
	uow         shared.UnitOfWork
	stock       *StockManager
	factory     *order.Factory
	gateway     shared.PaymentGateway
	dedup       shared.WebhookDeduper
	statusCache shared.OrderStatusCache
	clock       clock.Clock
}

func NewOrderFactoryCommands(
	uow shared.UnitOfWork,
	stock *StockManager,
	factory *order.Factory,
	gateway shared.PaymentGateway,
	dedup shared.WebhookDeduper,
	statusCache shared.OrderStatusCache,
	clk clock.Clock,
) OrderFactoryCommands {
	return &orderFactoryImpl{
		uow:         uow,
		stock:       stock,
		factory:     factory,
		gateway:     gateway,
		dedup:       dedup,
		statusCache: statusCache,
		clock:       clk,
	}
}

// CreateOrders writes one order per seller group in a single transaction.
// Either every order of the session is persisted and its reservations
// committed, or nothing is and the reservations stay held.
func (f *orderFactoryImpl) CreateOrders(ctx context.Context, sessionID uuid.UUID) ([]*order.Order, error) {
	var created []*order.Order
	replayed := false
	err := f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = nil
		s, err := findSessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		replayed = s.Status() == checkout.StatusCompleted
		orders, err := f.placeOrders(ctx, tx, s, nil)
		if err != nil {
			return err
		}
		created = orders
		return nil
	})
	if err != nil {
		slog.Warn("order creation rolled back", "session_id", sessionID, "error", err.Error())
		return nil, orderCreationError(err)
	}
	if !replayed {
		slog.Info("orders created", "session_id", sessionID, "count", len(created))
	}
	return created, nil
}

// placeOrders runs inside the caller's transaction. With a confirmation the
// orders are inserted already paid. A completed session returns its existing
// orders.
func (f *orderFactoryImpl) placeOrders(ctx context.Context, tx shared.Tx, s *checkout.Session, paid *shared.PaymentConfirmation) ([]*order.Order, error) {
	now := f.clock.Now()
	if s.Status() == checkout.StatusCompleted {
		existing, err := tx.Orders().FindBySession(ctx, s.ID())
		if err != nil {
			return nil, err
		}
		if paid == nil {
			return existing, nil
		}
		for _, o := range existing {
			if o.PaymentStatus() == order.PaymentPaid {
				continue
			}
			o.MarkPaid(paid.IntentID, now)
			if err := tx.Orders().Update(ctx, o); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if s.Status() != checkout.StatusPaymentIntentCreated {
		return nil, ErrSessionNotPayable
	}
	if s.IsExpired(now) {
		return nil, errs.ErrSessionExpired
	}

	orders, err := f.buildOrders(ctx, tx, s)
	if err != nil {
		return nil, err
	}
	if err := f.commitHolds(ctx, tx, s); err != nil {
		return nil, err
	}
	for i, o := range orders {
		if paid != nil {
			o.MarkPaid(paid.IntentID, now)
		}
		persisted, perr := f.insertWithFreshNumber(ctx, tx, o)
		if perr != nil {
			return nil, perr
		}
		orders[i] = persisted
		if err := enqueueOrderEvent(ctx, tx, shared.TopicOrderCreated, persisted, ""); err != nil {
			return nil, err
		}
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID()
	}
	if _, err := s.Complete(ids, now); err != nil {
		return nil, err
	}
	if err := tx.Sessions().Update(ctx, s); err != nil {
		return nil, err
	}
	return orders, nil
}

func (f *orderFactoryImpl) buildOrders(ctx context.Context, tx shared.Tx, s *checkout.Session) ([]*order.Order, error) {
	groups := s.SellerGroups()
	if len(groups) == 0 {
		return nil, checkout.ErrNoItems
	}
	buyer, err := tx.Directory().BuyerSnapshot(ctx, s.UserID())
	if err != nil {
		return nil, err
	}
	orders := make([]*order.Order, 0, len(groups))
	for _, g := range groups {
		seller, serr := tx.Directory().SellerSnapshot(ctx, g.SellerID)
		if serr != nil {
			return nil, serr
		}
		o, oerr := f.factory.FromSellerGroup(s, g, buyer, seller)
		if oerr != nil {
			return nil, oerr
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// commitHolds requires one held reservation per session item.
func (f *orderFactoryImpl) commitHolds(ctx context.Context, tx shared.Tx, s *checkout.Session) error {
	reservations, err := tx.Reservations().FindBySession(ctx, s.ID())
	if err != nil {
		return err
	}
	held := make(map[uuid.UUID]*inventory.Reservation, len(reservations))
	for _, r := range reservations {
		if r.IsHeld() {
			held[r.ListingID()] = r
		}
	}
	for _, it := range s.Items() {
		r, ok := held[it.ListingID]
		if !ok || r.Quantity() != it.Quantity {
			return ErrReservationNotHeld
		}
		if err := f.stock.Commit(ctx, tx, r.ID()); err != nil {
			return err
		}
	}
	return nil
}

// insertWithFreshNumber retries with a new order number when the random
// suffix collides with an existing order.
func (f *orderFactoryImpl) insertWithFreshNumber(ctx context.Context, tx shared.Tx, o *order.Order) (*order.Order, error) {
	current := o
	for attempt := 1; ; attempt++ {
		err := tx.Orders().Create(ctx, current)
		if err == nil {
			return current, nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) || attempt >= maxOrderNumberAttempts {
			return nil, err
		}
		slog.Warn("order number collision, regenerating", "order_number", current.Number(), "attempt", attempt)
		next, nerr := f.factory.WithNumber(current, f.clock.Now())
		if nerr != nil {
			return nil, nerr
		}
		current = next
	}
}

func (f *orderFactoryImpl) ConfirmPayment(ctx context.Context, payload []byte, signature string) (*ConfirmPaymentResult, error) {
	conf, err := f.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return nil, errs.NewValidation("signature", err.Error())
	}

	first, err := f.dedup.FirstSeen(ctx, webhookProvider, conf.EventID)
	if err != nil {
		// Order creation is idempotent per session, so a dedup outage only
		// costs an extra lookup.
		slog.Warn("webhook dedup unavailable", "event_id", conf.EventID, "error", err.Error())
		first = true
	}
	if !first {
		slog.Info("duplicate payment webhook ignored", "event_id", conf.EventID)
		return &ConfirmPaymentResult{SessionID: conf.SessionID, Duplicate: true}, nil
	}
	if !conf.Succeeded {
		slog.Info("non-success payment webhook ignored", "event_id", conf.EventID, "intent_id", conf.IntentID)
		return &ConfirmPaymentResult{SessionID: conf.SessionID, Ignored: true}, nil
	}

	result, err := f.confirm(ctx, conf)
	if err != nil {
		if ferr := f.dedup.Forget(ctx, webhookProvider, conf.EventID); ferr != nil {
			slog.Warn("failed to release webhook dedup key", "event_id", conf.EventID, "error", ferr.Error())
		}
		return nil, err
	}
	return result, nil
}

// confirm records the payment, creates the orders and marks them paid in
// one transaction. A capture that no longer matches a payable session is
// recorded as orphaned for refund instead of failing the callback.
func (f *orderFactoryImpl) confirm(ctx context.Context, conf shared.PaymentConfirmation) (*ConfirmPaymentResult, error) {
	result := &ConfirmPaymentResult{}
	err := f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		*result = ConfirmPaymentResult{}
		s, err := f.sessionForConfirmation(ctx, tx, conf)
		if err != nil {
			return err
		}
		result.SessionID = s.ID()
		now := f.clock.Now()

		if reason := orphanReason(s, conf, now); reason != "" {
			result.Orphaned = true
			result.OrphanReason = reason
			return enqueueOrphanedPayment(ctx, tx, s, conf, reason, now)
		}
		if s.Status() == checkout.StatusPending {
			// The callback overtook our own bookkeeping of the intent.
			if err := s.MarkPaymentIntentCreated(conf.IntentID, now); err != nil {
				return err
			}
			if err := tx.Sessions().Update(ctx, s); err != nil {
				return err
			}
		}
		orders, err := f.placeOrders(ctx, tx, s, &conf)
		if err != nil {
			return err
		}
		result.Orders = orders
		return nil
	})
	if err != nil {
		slog.Warn("payment confirmation rolled back", "event_id", conf.EventID, "intent_id", conf.IntentID, "error", err.Error())
		return nil, orderCreationError(err)
	}

	if result.Orphaned {
		slog.Warn("captured payment recorded as orphaned",
			"session_id", result.SessionID,
			"intent_id", conf.IntentID,
			"amount", conf.Amount.StringFixed(2),
			"reason", result.OrphanReason,
		)
		return result, nil
	}
	for _, o := range result.Orders {
		if cerr := f.statusCache.Invalidate(ctx, o.ID()); cerr != nil {
			slog.Warn("failed to invalidate order status cache", "order_id", o.ID(), "error", cerr.Error())
		}
	}
	slog.Info("payment confirmed", "session_id", result.SessionID, "intent_id", conf.IntentID, "orders", len(result.Orders))
	return result, nil
}

const (
	orphanSessionExpired   = "session_expired"
	orphanSessionCancelled = "session_cancelled"
	orphanIntentMismatch   = "intent_mismatch"
	orphanAmountMismatch   = "amount_mismatch"
)

// orphanReason is empty when the capture belongs to the session as it
// stands now.
func orphanReason(s *checkout.Session, conf shared.PaymentConfirmation, now time.Time) string {
	switch s.Status() {
	case checkout.StatusCancelled:
		return orphanSessionCancelled
	case checkout.StatusExpired:
		return orphanSessionExpired
	case checkout.StatusCompleted:
		if s.PaymentIntentRef() != conf.IntentID {
			return orphanIntentMismatch
		}
		return ""
	}
	if s.IsExpired(now) {
		return orphanSessionExpired
	}
	if ref := s.PaymentIntentRef(); ref != "" && ref != conf.IntentID {
		return orphanIntentMismatch
	}
	if !conf.Amount.Equal(s.Pricing().TotalAmount) {
		return orphanAmountMismatch
	}
	return ""
}

func enqueueOrphanedPayment(ctx context.Context, tx shared.Tx, s *checkout.Session, conf shared.PaymentConfirmation, reason string, now time.Time) error {
	payload := map[string]any{
		"event_id":        conf.EventID,
		"intent_id":       conf.IntentID,
		"session_id":      s.ID(),
		"buyer_id":        s.UserID(),
		"session_status":  s.Status(),
		"amount":          conf.Amount.StringFixed(2),
		"expected_amount": s.Pricing().TotalAmount.StringFixed(2),
		"reason":          reason,
		"occurred_at":     now.Format(time.RFC3339Nano),
	}
	evt, err := shared.NewOutboxEvent(shared.TopicPaymentOrphaned, conf.IntentID, payload, now)
	if err != nil {
		return errs.Wrap(err, "encode orphaned payment event")
	}
	return tx.Outbox().Enqueue(ctx, evt)
}

func (f *orderFactoryImpl) sessionForConfirmation(ctx context.Context, tx shared.Tx, conf shared.PaymentConfirmation) (*checkout.Session, error) {
	if conf.SessionID != uuid.Nil {
		return findSessionForUpdate(ctx, tx, conf.SessionID)
	}
	s, err := tx.Sessions().FindByPaymentIntent(ctx, conf.IntentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	return findSessionForUpdate(ctx, tx, s.ID())
}

func enqueueOrderEvent(ctx context.Context, tx shared.Tx, topic string, o *order.Order, previous order.Status) error {
	payload := map[string]any{
		"order_id":       o.ID(),
		"order_number":   o.Number(),
		"session_id":     o.SessionID(),
		"buyer_id":       o.Buyer().UserID,
		"seller_id":      o.Seller().SellerID,
		"status":         o.Status(),
		"payment_status": o.PaymentStatus(),
		"total_amount":   o.TotalAmount().StringFixed(2),
		"occurred_at":    o.UpdatedAt().Format(time.RFC3339Nano),
	}
	if previous != "" {
		payload["previous_status"] = previous
	}
	evt, err := shared.NewOutboxEvent(topic, o.ID().String(), payload, o.UpdatedAt())
	if err != nil {
		return errs.Wrap(err, "encode order event")
	}
	return tx.Outbox().Enqueue(ctx, evt)
}

// orderCreationError keeps caller-actionable kinds and folds everything
// else into ErrOrderCreation.
func orderCreationError(err error) error {
	for _, kind := range []error{
		errs.ErrOrderCreation,
		errs.ErrSessionExpired,
		errs.ErrSessionNotFound,
		errs.ErrSessionNotModifiable,
		errs.ErrValidation,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return errs.Wrap(&errs.DomainError{Kind: errs.ErrOrderCreation, Message: "orders could not be created"}, err.Error())
}
