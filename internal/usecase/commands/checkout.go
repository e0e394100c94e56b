package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/pkg/patch"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSessionNotOwned = &errs.DomainError{Kind: errs.ErrForbidden, Field: "session_id", Message: "session belongs to another user"}
	ErrTooManyItems    = &errs.DomainError{Kind: errs.ErrValidation, Field: "items", Message: "too many distinct items"}
	// ErrSessionChanged means the session was edited while its payment
	// intent was being created; the intent no longer matches its total.
	ErrSessionChanged = &errs.DomainError{Kind: errs.ErrConflict, Field: "session", Message: "session changed while payment was being prepared"}
)

const cashIntentPrefix = "cash_"

// CheckoutSettings is the slice of configuration the orchestrator needs.
type CheckoutSettings struct {
	SessionTTL time.Duration
	MaxItems   int
	Currency   string
}

// OrderPlacer turns a paid session into orders.
type OrderPlacer interface {
	CreateOrders(ctx context.Context, sessionID uuid.UUID) ([]*order.Order, error)
}

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/commands/mock_checkout.go -package=commandsmock

type CheckoutCommands interface {
	Create(ctx context.Context, actor identity.Actor, in CreateSessionInput) (*checkout.Session, error)
	Update(ctx context.Context, actor identity.Actor, sessionID uuid.UUID, in UpdateSessionInput) (*checkout.Session, error)
	// MarkPaymentIntentCreated fails with ErrSessionChanged when expectedVersion
	// is positive and the stored session has moved past it.
	MarkPaymentIntentCreated(ctx context.Context, sessionID uuid.UUID, intentRef string, expectedVersion int) (*checkout.Session, error)
	StartPayment(ctx context.Context, actor identity.Actor, sessionID uuid.UUID) (*StartPaymentResult, error)
	Commit(ctx context.Context, sessionID uuid.UUID, orderIDs []uuid.UUID) (*checkout.Session, error)
	Cancel(ctx context.Context, actor identity.Actor, sessionID uuid.UUID) (*checkout.Session, error)
	Expire(ctx context.Context, sessionID uuid.UUID) (bool, error)
	ExpireOverdue(ctx context.Context, limit int) (int, error)
	PurgeTerminal(ctx context.Context, retention time.Duration, limit int) (int64, error)
}

type checkoutCommandsImpl struct {
	uow      shared.UnitOfWork
	stock    *StockManager
	engine   *pricing.Engine
	gateway  shared.PaymentGateway
	orders   OrderPlacer
	clock    clock.Clock
	settings CheckoutSettings
}

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	stock *StockManager,
	engine *pricing.Engine,
	gateway shared.PaymentGateway,
	orders OrderPlacer,
	clk clock.Clock,
	settings CheckoutSettings,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		uow:      uow,
		stock:    stock,
		engine:   engine,
		gateway:  gateway,
		orders:   orders,
		clock:    clk,
		settings: settings,
	}
}

func (c *checkoutCommandsImpl) Create(ctx context.Context, actor identity.Actor, in CreateSessionInput) (*checkout.Session, error) {
	requested, err := checkout.MergeRequested(in.Items)
	if err != nil {
		return nil, err
	}
	if c.settings.MaxItems > 0 && len(requested) > c.settings.MaxItems {
		return nil, ErrTooManyItems
	}
	dm, pm, err := parseMethods(in.DeliveryMethod, in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var created *checkout.Session
	// A concurrent create for the same user loses on the active-session
	// unique index; the retry then supersedes the winner.
	for attempt := 0; ; attempt++ {
		err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			s, cerr := c.create(ctx, tx, actor.UserID, in.Type, requested, dm, pm, in.DeliveryAddress)
			created = s
			return cerr
		})
		if err == nil || attempt >= 1 || !infra.IsKind(err, infra.KindDuplicateKey) {
			break
		}
		slog.Warn("concurrent checkout session for user, retrying", "user_id", actor.UserID)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("checkout session created",
		"session_id", created.ID(),
		"user_id", actor.UserID,
		"seller_groups", len(created.SellerGroups()),
		"total_amount", created.Pricing().TotalAmount.StringFixed(2),
		"expires_at", created.ExpiresAt())
	return created, nil
}

func (c *checkoutCommandsImpl) create(
	ctx context.Context,
	tx shared.Tx,
	userID uuid.UUID,
	sessionType checkout.SessionType,
	requested []checkout.RequestedItem,
	dm pricing.DeliveryMethod,
	pm pricing.PaymentMethod,
	addr *checkout.Address,
) (*checkout.Session, error) {
	now := c.clock.Now()
	if err := c.supersedeActive(ctx, tx, userID, now); err != nil {
		return nil, err
	}

	listingIDs := make([]uuid.UUID, len(requested))
	for i, r := range requested {
		listingIDs[i] = r.ListingID
	}
	if err := c.reclaimOverdue(ctx, tx, listingIDs, now); err != nil {
		return nil, err
	}

	items, err := c.snapshotItems(ctx, tx, requested)
	if err != nil {
		return nil, err
	}
	sellers, err := tx.Directory().SellerProfiles(ctx, sellerIDsOf(items))
	if err != nil {
		return nil, err
	}

	session, err := checkout.NewSession(checkout.NewSessionParams{
		UserID:         userID,
		Type:           sessionType,
		Items:          items,
		DeliveryMethod: dm,
		PaymentMethod:  pm,
		Now:            now,
		TTL:            c.settings.SessionTTL,
	})
	if err != nil {
		return nil, err
	}
	if addr != nil {
		session.SetDelivery(dm, addr, now)
	}
	if err := session.Reprice(c.engine, sellers); err != nil {
		return nil, pricingError(err)
	}

	if err := tx.Sessions().Create(ctx, session); err != nil {
		return nil, err
	}

	reservationIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range session.Items() {
		res, rerr := c.stock.Reserve(ctx, tx, session.ID(), it.ListingID, it.Quantity)
		if rerr != nil {
			slog.Warn("stock reservation failed, rolling back checkout",
				"session_id", session.ID(),
				"listing_id", it.ListingID,
				"error", rerr.Error())
			return nil, rerr
		}
		reservationIDs = append(reservationIDs, res.ID())
	}
	session.SetReservations(reservationIDs)
	return session, nil
}

func (c *checkoutCommandsImpl) snapshotItems(ctx context.Context, tx shared.Tx, requested []checkout.RequestedItem) ([]checkout.Item, error) {
	ids := make([]uuid.UUID, len(requested))
	for i, r := range requested {
		ids[i] = r.ListingID
	}
	listings, err := tx.Directory().ListingsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]checkout.Item, 0, len(requested))
	for _, r := range requested {
		l, ok := listings[r.ListingID]
		if !ok {
			return nil, errs.NewItemUnavailable(r.ListingID, "listing not found")
		}
		if !l.IsActive {
			return nil, errs.NewItemUnavailable(r.ListingID, "listing is not active")
		}
		if l.Stock < r.Quantity {
			return nil, errs.NewInsufficientStock(r.ListingID, r.Quantity, l.Stock)
		}
		items = append(items, snapshotItem(l, r.Quantity))
	}
	return items, nil
}

func snapshotItem(l inventory.Listing, qty int) checkout.Item {
	return checkout.Item{
		ListingID:       l.ID,
		SellerID:        l.SellerID,
		Title:           l.Title,
		UnitPrice:       l.Price,
		UnitDiscount:    l.Price.Sub(l.EffectivePrice()),
		Quantity:        qty,
		StockAtCheckout: l.Stock,
	}
}

// supersedeActive closes the user's previous active session, if any, and
// gives its stock back.
func (c *checkoutCommandsImpl) supersedeActive(ctx context.Context, tx shared.Tx, userID uuid.UUID, now time.Time) error {
	active, err := tx.Sessions().FindActiveByUser(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}
	prev, err := findSessionForUpdate(ctx, tx, active.ID())
	if err != nil {
		return err
	}
	if !prev.Status().IsActive() {
		return nil
	}
	if prev.IsExpired(now) {
		return c.expireLocked(ctx, tx, prev, now)
	}
	if _, err := prev.Cancel(now); err != nil {
		return err
	}
	return c.closeLocked(ctx, tx, prev, "superseded")
}

// reclaimOverdue expires other sessions whose deadline has passed but still
// hold stock on the given listings, so a lagging reaper never blocks a buyer.
func (c *checkoutCommandsImpl) reclaimOverdue(ctx context.Context, tx shared.Tx, listingIDs []uuid.UUID, now time.Time) error {
	ids, err := tx.Sessions().ListOverdueHolding(ctx, listingIDs, now)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s, err := findSessionForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !s.NeedsExpiry(now) {
			continue
		}
		if err := c.expireLocked(ctx, tx, s, now); err != nil {
			return err
		}
	}
	return nil
}

func (c *checkoutCommandsImpl) Update(ctx context.Context, actor identity.Actor, sessionID uuid.UUID, in UpdateSessionInput) (*checkout.Session, error) {
	var updated *checkout.Session
	expired := false
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := c.loadOwned(ctx, tx, actor, sessionID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		if s.NeedsExpiry(now) {
			expired = true
			return c.expireLocked(ctx, tx, s, now)
		}
		if err := s.EnsureModifiable(now); err != nil {
			return err
		}

		if in.DeliveryMethod != nil || in.DeliveryAddress != nil {
			dm, derr := parseDelivery(patch.Coalesce(in.DeliveryMethod, s.DeliveryMethod().String()))
			if derr != nil {
				return derr
			}
			s.SetDelivery(dm, in.DeliveryAddress, now)
		}
		if in.PaymentMethod != nil {
			pm, perr := parsePayment(*in.PaymentMethod)
			if perr != nil {
				return perr
			}
			s.SetPaymentMethod(pm, now)
		}
		if len(in.Quantities) > 0 {
			if err := c.changeQuantities(ctx, tx, s, in.Quantities, now); err != nil {
				return err
			}
		}

		sellers, err := tx.Directory().SellerProfiles(ctx, sellerIDsOf(s.Items()))
		if err != nil {
			return err
		}
		if err := s.Reprice(c.engine, sellers); err != nil {
			return pricingError(err)
		}
		if err := tx.Sessions().Update(ctx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, errs.ErrSessionExpired
	}
	return updated, nil
}

// changeQuantities releases the old hold before placing the new one. A failed
// reserve aborts the transaction, which restores the old hold as well.
func (c *checkoutCommandsImpl) changeQuantities(ctx context.Context, tx shared.Tx, s *checkout.Session, changes []checkout.RequestedItem, now time.Time) error {
	merged, err := checkout.MergeRequested(changes)
	if err != nil {
		return err
	}
	changed := make([]uuid.UUID, 0, len(merged))
	for _, ch := range merged {
		changed = append(changed, ch.ListingID)
	}
	if err := c.reclaimOverdue(ctx, tx, changed, now); err != nil {
		return err
	}

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

	for _, ch := range merged {
		item, ok := s.Item(ch.ListingID)
		if !ok {
			return checkout.ErrItemNotInSession
		}
		if item.Quantity == ch.Quantity {
			continue
		}
		if old, ok := held[ch.ListingID]; ok {
			if _, err := c.stock.Release(ctx, tx, old.ID()); err != nil {
				return err
			}
		}
		res, err := c.stock.Reserve(ctx, tx, s.ID(), ch.ListingID, ch.Quantity)
		if err != nil {
			return err
		}
		held[ch.ListingID] = res
		if err := s.SetQuantity(ch.ListingID, ch.Quantity, now); err != nil {
			return err
		}
	}

	ids := make([]uuid.UUID, 0, len(held))
	for _, it := range s.Items() {
		if r, ok := held[it.ListingID]; ok {
			ids = append(ids, r.ID())
		}
	}
	s.SetReservations(ids)
	return nil
}

func (c *checkoutCommandsImpl) MarkPaymentIntentCreated(ctx context.Context, sessionID uuid.UUID, intentRef string, expectedVersion int) (*checkout.Session, error) {
	if intentRef == "" {
		return nil, errs.NewValidation("payment_intent", "intent reference is required")
	}
	var marked *checkout.Session
	expired := false
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := findSessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		if s.NeedsExpiry(now) {
			expired = true
			return c.expireLocked(ctx, tx, s, now)
		}
		alreadyMarked := s.Status() == checkout.StatusPaymentIntentCreated && s.PaymentIntentRef() == intentRef
		if expectedVersion > 0 && !alreadyMarked && s.Version() != expectedVersion {
			return ErrSessionChanged
		}
		before := s.Status()
		if err := s.MarkPaymentIntentCreated(intentRef, now); err != nil {
			return err
		}
		if before != s.Status() {
			if err := tx.Sessions().Update(ctx, s); err != nil {
				return err
			}
		}
		marked = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, errs.ErrSessionExpired
	}
	slog.Info("payment intent recorded", "session_id", sessionID, "intent_ref", intentRef)
	return marked, nil
}

func (c *checkoutCommandsImpl) StartPayment(ctx context.Context, actor identity.Actor, sessionID uuid.UUID) (*StartPaymentResult, error) {
	var s *checkout.Session
	expired := false
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		loaded, err := c.loadOwned(ctx, tx, actor, sessionID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		if loaded.NeedsExpiry(now) {
			expired = true
			return c.expireLocked(ctx, tx, loaded, now)
		}
		if err := loaded.EnsureModifiable(now); err != nil {
			return err
		}
		if err := loaded.ReadyForPayment(); err != nil {
			return err
		}
		s = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, errs.ErrSessionExpired
	}

	if !s.PaymentMethod().RoutesThroughGateway() {
		return c.settleOffline(ctx, s)
	}

	intent, err := c.gateway.CreatePaymentIntent(ctx, s.Pricing().TotalAmount, c.settings.Currency, map[string]string{
		"session_id":      s.ID().String(),
		"session_version": strconv.Itoa(s.Version()),
		"user_id":         s.UserID().String(),
	})
	if err != nil {
		slog.Error("payment intent creation failed",
			"session_id", s.ID(),
			"error", err.Error(),
			"stack", errs.ExtractStackLines(err, 5))
		return nil, &errs.DomainError{Kind: errs.ErrPaymentGateway, Field: "payment", Message: err.Error()}
	}

	// The session lock was released while the gateway was called. Recording
	// the intent only succeeds if the priced version is still current.
	marked, err := c.MarkPaymentIntentCreated(ctx, s.ID(), intent.IntentID, s.Version())
	if err != nil {
		if cerr := c.gateway.CancelPaymentIntent(ctx, intent.IntentID); cerr != nil {
			slog.Error("failed to cancel stale payment intent",
				"session_id", s.ID(),
				"intent_id", intent.IntentID,
				"error", cerr.Error())
		} else {
			slog.Warn("stale payment intent cancelled", "session_id", s.ID(), "intent_id", intent.IntentID, "reason", err.Error())
		}
		return nil, err
	}
	return &StartPaymentResult{
		Session:      marked,
		IntentID:     intent.IntentID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// settleOffline places orders right away for payment methods that never
// touch the gateway.
func (c *checkoutCommandsImpl) settleOffline(ctx context.Context, s *checkout.Session) (*StartPaymentResult, error) {
	ref := cashIntentPrefix + s.ID().String()
	if _, err := c.MarkPaymentIntentCreated(ctx, s.ID(), ref, s.Version()); err != nil {
		return nil, err
	}
	orders, err := c.orders.CreateOrders(ctx, s.ID())
	if err != nil {
		return nil, err
	}

	var completed *checkout.Session
	err = c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var ferr error
		completed, ferr = tx.Sessions().FindByID(ctx, s.ID())
		return ferr
	})
	if err != nil {
		return nil, err
	}
	return &StartPaymentResult{Session: completed, IntentID: ref, Orders: orders}, nil
}

func (c *checkoutCommandsImpl) Commit(ctx context.Context, sessionID uuid.UUID, orderIDs []uuid.UUID) (*checkout.Session, error) {
	var committed *checkout.Session
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := findSessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		changed, err := s.Complete(orderIDs, c.clock.Now())
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Sessions().Update(ctx, s); err != nil {
				return err
			}
		}
		committed = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

func (c *checkoutCommandsImpl) Cancel(ctx context.Context, actor identity.Actor, sessionID uuid.UUID) (*checkout.Session, error) {
	var cancelled *checkout.Session
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := c.loadOwned(ctx, tx, actor, sessionID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		cancelled = s
		if s.NeedsExpiry(now) {
			return c.expireLocked(ctx, tx, s, now)
		}
		changed, err := s.Cancel(now)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return c.closeLocked(ctx, tx, s, "cancelled")
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Expire applies expiry to one overdue session. It is a no-op for sessions
// that are not past their deadline or already closed.
func (c *checkoutCommandsImpl) Expire(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	expired := false
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := findSessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		if !s.NeedsExpiry(now) {
			return nil
		}
		expired = true
		return c.expireLocked(ctx, tx, s, now)
	})
	return expired, err
}

func (c *checkoutCommandsImpl) ExpireOverdue(ctx context.Context, limit int) (int, error) {
	var ids []uuid.UUID
	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var lerr error
		ids, lerr = tx.Sessions().ListOverdue(ctx, c.clock.Now(), limit)
		return lerr
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}
		ok, eerr := c.Expire(ctx, id)
		if eerr != nil {
			slog.Warn("failed to expire checkout session", "session_id", id, "error", eerr.Error())
			continue
		}
		if ok {
			count++
		}
	}
	return count, nil
}

func (c *checkoutCommandsImpl) PurgeTerminal(ctx context.Context, retention time.Duration, limit int) (int64, error) {
	var deleted int64
	cutoff := c.clock.Now().Add(-retention)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var derr error
		deleted, derr = tx.Sessions().DeleteTerminalBefore(ctx, cutoff, limit)
		return derr
	})
	return deleted, err
}

func (c *checkoutCommandsImpl) expireLocked(ctx context.Context, tx shared.Tx, s *checkout.Session, now time.Time) error {
	if _, err := s.Expire(now); err != nil {
		return err
	}
	return c.closeLocked(ctx, tx, s, "expired")
}

// closeLocked releases stock and persists a session that just reached a
// closing state.
func (c *checkoutCommandsImpl) closeLocked(ctx context.Context, tx shared.Tx, s *checkout.Session, reason string) error {
	released, err := c.stock.ReleaseSession(ctx, tx, s.ID())
	if err != nil {
		return err
	}
	if err := tx.Sessions().Update(ctx, s); err != nil {
		return err
	}
	evt, err := shared.NewOutboxEvent(shared.TopicSessionClosed, s.ID().String(), map[string]any{
		"session_id": s.ID(),
		"user_id":    s.UserID(),
		"status":     s.Status(),
		"reason":     reason,
		"released":   released,
	}, s.UpdatedAt())
	if err != nil {
		return errs.Wrap(err, "encode session event")
	}
	if err := tx.Outbox().Enqueue(ctx, evt); err != nil {
		return err
	}
	slog.Info("checkout session closed",
		"session_id", s.ID(),
		"status", s.Status(),
		"reason", reason,
		"released_reservations", released)
	return nil
}

func (c *checkoutCommandsImpl) loadOwned(ctx context.Context, tx shared.Tx, actor identity.Actor, sessionID uuid.UUID) (*checkout.Session, error) {
	s, err := findSessionForUpdate(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.UserID() != actor.UserID && !actor.IsAdmin() {
		return nil, ErrSessionNotOwned
	}
	return s, nil
}

func findSessionForUpdate(ctx context.Context, tx shared.Tx, sessionID uuid.UUID) (*checkout.Session, error) {
	s, err := tx.Sessions().FindByIDForUpdate(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

func sellerIDsOf(items []checkout.Item) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if !seen[it.SellerID] {
			seen[it.SellerID] = true
			ids = append(ids, it.SellerID)
		}
	}
	return ids
}

func parseMethods(delivery, payment string) (pricing.DeliveryMethod, pricing.PaymentMethod, error) {
	dm, err := parseDelivery(delivery)
	if err != nil {
		return "", "", err
	}
	pm, err := parsePayment(payment)
	if err != nil {
		return "", "", err
	}
	return dm, pm, nil
}

// Empty strings mean "not chosen yet".
func parseDelivery(s string) (pricing.DeliveryMethod, error) {
	if s == "" {
		return "", nil
	}
	dm, err := pricing.NewDeliveryMethod(s)
	if err != nil {
		return "", errs.NewValidation("delivery_method", err.Error())
	}
	return dm, nil
}

func parsePayment(s string) (pricing.PaymentMethod, error) {
	if s == "" {
		return "", nil
	}
	pm, err := pricing.NewPaymentMethod(s)
	if err != nil {
		return "", errs.NewValidation("payment_method", err.Error())
	}
	return pm, nil
}

func pricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrDeliveryNotOffered), errors.Is(err, pricing.ErrInvalidDeliveryMethod):
		return errs.NewValidation("delivery_method", err.Error())
	case errors.Is(err, pricing.ErrInvalidPaymentMethod):
		return errs.NewValidation("payment_method", err.Error())
	case errors.Is(err, pricing.ErrInvalidLine):
		return errs.NewValidation("items", err.Error())
	default:
		return errs.Wrap(err, "price session")
	}
}
