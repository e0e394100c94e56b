package memstore

import (
	"context"
	"slices"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/repository/converter"
	"marketplace-checkout/internal/pkg/pgconv"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

type memTx struct {
	t *tables
}

func (x *memTx) Ledger() shared.InventoryLedger             { return ledger{x.t} }
func (x *memTx) Reservations() shared.ReservationRepository { return reservations{x.t} }
func (x *memTx) Sessions() shared.SessionRepository         { return sessions{x.t} }
func (x *memTx) Orders() shared.OrderRepository             { return orders{x.t} }
func (x *memTx) Outbox() shared.OutboxRepository            { return outbox{x.t} }
func (x *memTx) Directory() shared.Directory                { return directory{x.t} }

type ledger struct{ t *tables }

func (l ledger) GetAvailability(_ context.Context, listingID uuid.UUID) (int, error) {
	listing, ok := l.t.listings[listingID]
	if !ok {
		return 0, infra.NotFound("listing not found")
	}
	if !listing.IsActive {
		return 0, nil
	}
	return listing.Stock, nil
}

func (l ledger) AtomicDecrement(_ context.Context, listingID uuid.UUID, qty int) (bool, error) {
	listing, ok := l.t.listings[listingID]
	if !ok || !listing.IsActive || listing.Stock < qty {
		return false, nil
	}
	listing.Stock -= qty
	l.t.listings[listingID] = listing
	return true, nil
}

func (l ledger) AtomicIncrement(_ context.Context, listingID uuid.UUID, qty int) error {
	listing, ok := l.t.listings[listingID]
	if !ok {
		return infra.NotFound("listing not found")
	}
	listing.Stock += qty
	l.t.listings[listingID] = listing
	return nil
}

type reservations struct{ t *tables }

func (r reservations) Create(_ context.Context, res *inventory.Reservation) error {
	if _, ok := r.t.sessions[res.SessionID()]; !ok {
		return infra.WrapRepoErr("session does not exist", nil, infra.KindForeignKeyViolated)
	}
	if _, ok := r.t.reservations[res.ID()]; ok {
		return infra.WrapRepoErr("stock reservation already exists", nil, infra.KindDuplicateKey)
	}
	r.t.reservations[res.ID()] = *res
	return nil
}

func (r reservations) FindByID(_ context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	res, ok := r.t.reservations[id]
	if !ok {
		return nil, infra.NotFound("stock reservation not found")
	}
	return &res, nil
}

func (r reservations) FindBySession(_ context.Context, sessionID uuid.UUID) ([]*inventory.Reservation, error) {
	stored := r.t.sessionReservations(sessionID, true)
	out := make([]*inventory.Reservation, len(stored))
	for i := range stored {
		out[i] = &stored[i]
	}
	return out, nil
}

func (r reservations) MarkReleased(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.flip(id, inventory.ReservationReleased, at)
}

func (r reservations) MarkCommitted(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.flip(id, inventory.ReservationCommitted, at)
}

func (r reservations) flip(id uuid.UUID, to inventory.ReservationStatus, at time.Time) (bool, error) {
	res, ok := r.t.reservations[id]
	if !ok || !res.IsHeld() {
		return false, nil
	}
	var releasedAt, committedAt *time.Time
	if to == inventory.ReservationReleased {
		releasedAt = &at
	} else {
		committedAt = &at
	}
	r.t.reservations[id] = *inventory.ReconstructReservation(
		res.ID(), res.SessionID(), res.ListingID(), res.Quantity(), to, res.ReservedAt(), releasedAt, committedAt)
	return true, nil
}

type sessions struct{ t *tables }

func (s sessions) Create(_ context.Context, sess *checkout.Session) error {
	if _, ok := s.t.sessions[sess.ID()]; ok {
		return infra.WrapRepoErr("checkout session already exists", nil, infra.KindDuplicateKey)
	}
	row, err := converter.SessionToRow(sess)
	if err != nil {
		return infra.WrapRepoErr("failed to encode checkout session", err)
	}
	if err := s.checkUnique(row); err != nil {
		return err
	}
	s.t.sessions[row.ID] = row
	return nil
}

func (s sessions) Update(_ context.Context, sess *checkout.Session) error {
	current, ok := s.t.sessions[sess.ID()]
	if !ok || current.Version != sess.Version() {
		return infra.Conflict("checkout session was modified concurrently")
	}
	row, err := converter.SessionToRow(sess)
	if err != nil {
		return infra.WrapRepoErr("failed to encode checkout session", err)
	}
	if err := s.checkUnique(row); err != nil {
		return err
	}
	row.Version = current.Version + 1
	s.t.sessions[row.ID] = row
	sess.AdvanceVersion()
	return nil
}

// checkUnique enforces the one-active-session-per-user and one-session-per-intent indexes.
func (s sessions) checkUnique(row converter.SessionRow) error {
	active := checkout.Status(row.Status).IsActive()
	for id, other := range s.t.sessions {
		if id == row.ID {
			continue
		}
		if active && other.UserID == row.UserID && checkout.Status(other.Status).IsActive() {
			return infra.WrapRepoErr("user already has an active checkout session", nil, infra.KindDuplicateKey)
		}
		if row.PaymentIntentRef.Valid && other.PaymentIntentRef.Valid && other.PaymentIntentRef.String == row.PaymentIntentRef.String {
			return infra.WrapRepoErr("payment intent already bound to a session", nil, infra.KindDuplicateKey)
		}
	}
	return nil
}

func (s sessions) FindByID(_ context.Context, id uuid.UUID) (*checkout.Session, error) {
	row, ok := s.t.sessions[id]
	if !ok {
		return nil, infra.NotFound("checkout session not found")
	}
	return s.decode(row)
}

func (s sessions) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	return s.FindByID(ctx, id)
}

func (s sessions) FindActiveByUser(_ context.Context, userID uuid.UUID) (*checkout.Session, error) {
	for _, row := range s.t.sessions {
		if row.UserID == userID && checkout.Status(row.Status).IsActive() {
			return s.decode(row)
		}
	}
	return nil, infra.NotFound("checkout session not found")
}

func (s sessions) FindByPaymentIntent(_ context.Context, intentRef string) (*checkout.Session, error) {
	for _, row := range s.t.sessions {
		if row.PaymentIntentRef.Valid && row.PaymentIntentRef.String == intentRef {
			return s.decode(row)
		}
	}
	return nil, infra.NotFound("checkout session not found")
}

func (s sessions) ListOverdue(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var overdue []converter.SessionRow
	for _, row := range s.t.sessions {
		if checkout.Status(row.Status).IsActive() && !row.ExpiresAt.After(now) {
			overdue = append(overdue, row)
		}
	}
	slices.SortFunc(overdue, func(a, b converter.SessionRow) int {
		if c := a.ExpiresAt.Compare(b.ExpiresAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	if limit > 0 && len(overdue) > limit {
		overdue = overdue[:limit]
	}
	ids := make([]uuid.UUID, len(overdue))
	for i, row := range overdue {
		ids[i] = row.ID
	}
	return ids, nil
}

func (s sessions) ListOverdueHolding(_ context.Context, listingIDs []uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, res := range s.t.reservations {
		if !res.IsHeld() || !slices.Contains(listingIDs, res.ListingID()) || seen[res.SessionID()] {
			continue
		}
		row, ok := s.t.sessions[res.SessionID()]
		if !ok || !checkout.Status(row.Status).IsActive() || row.ExpiresAt.After(now) {
			continue
		}
		seen[row.ID] = true
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (s sessions) DeleteTerminalBefore(_ context.Context, cutoff time.Time, limit int) (int64, error) {
	var deleted int64
	for id, row := range s.t.sessions {
		if limit > 0 && deleted >= int64(limit) {
			break
		}
		if !checkout.Status(row.Status).IsTerminal() || !row.UpdatedAt.Before(cutoff) {
			continue
		}
		delete(s.t.sessions, id)
		for rid, res := range s.t.reservations {
			if res.SessionID() == id {
				delete(s.t.reservations, rid)
			}
		}
		deleted++
	}
	return deleted, nil
}

// decode attaches the derived reservation and order ids the way the SQL read does.
func (s sessions) decode(row converter.SessionRow) (*checkout.Session, error) {
	var resIDs []uuid.UUID
	for _, res := range s.t.sessionReservations(row.ID, false) {
		resIDs = append(resIDs, res.ID())
	}
	var orderIDs []uuid.UUID
	for _, o := range s.t.ordersOfSession(row.ID) {
		orderIDs = append(orderIDs, o.ID)
	}
	row.ReservationIDs = pgconv.UUIDArray(resIDs)
	row.OrderIDs = pgconv.UUIDArray(orderIDs)

	sess, err := converter.SessionFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode checkout session", err)
	}
	return sess, nil
}

func (t *tables) ordersOfSession(sessionID uuid.UUID) []converter.OrderRow {
	var out []converter.OrderRow
	for _, row := range t.orders {
		if row.SessionID == sessionID {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b converter.OrderRow) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return out
}

type orders struct{ t *tables }

func (o orders) Create(_ context.Context, ord *order.Order) error {
	if _, taken := o.t.orderNumbers[ord.Number()]; taken {
		return infra.WrapRepoErr("order number already taken", nil, infra.KindDuplicateKey)
	}
	row, err := converter.OrderToRow(ord)
	if err != nil {
		return infra.WrapRepoErr("failed to encode order", err)
	}
	o.t.orders[row.ID] = row
	o.t.orderNumbers[row.OrderNumber] = row.ID
	return nil
}

func (o orders) Update(_ context.Context, ord *order.Order) error {
	current, ok := o.t.orders[ord.ID()]
	if !ok || current.Version != ord.Version() {
		return infra.Conflict("order was modified concurrently")
	}
	row, err := converter.OrderToRow(ord)
	if err != nil {
		return infra.WrapRepoErr("failed to encode order", err)
	}
	row.Version = current.Version + 1
	o.t.orders[row.ID] = row
	ord.AdvanceVersion()
	return nil
}

func (o orders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	row, ok := o.t.orders[id]
	if !ok {
		return nil, infra.NotFound("order not found")
	}
	return decodeOrder(row)
}

func (o orders) FindBySession(_ context.Context, sessionID uuid.UUID) ([]*order.Order, error) {
	rows := o.t.ordersOfSession(sessionID)
	out := make([]*order.Order, 0, len(rows))
	for _, row := range rows {
		ord, err := decodeOrder(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, nil
}

func decodeOrder(row converter.OrderRow) (*order.Order, error) {
	ord, err := converter.OrderFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode order", err)
	}
	return ord, nil
}

type outbox struct{ t *tables }

func (b outbox) Enqueue(_ context.Context, e shared.OutboxEvent) error {
	b.t.outbox = append(b.t.outbox, e)
	return nil
}

func (b outbox) FetchUnpublished(_ context.Context, limit int) ([]shared.OutboxEvent, error) {
	var out []shared.OutboxEvent
	for _, e := range b.t.outbox {
		if e.PublishedAt != nil {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (b outbox) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	for i, e := range b.t.outbox {
		if e.PublishedAt == nil && slices.Contains(ids, e.ID) {
			published := at
			b.t.outbox[i].PublishedAt = &published
		}
	}
	return nil
}

type directory struct{ t *tables }

func (d directory) ListingsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]inventory.Listing, error) {
	out := make(map[uuid.UUID]inventory.Listing, len(ids))
	for _, id := range ids {
		if l, ok := d.t.listings[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

func (d directory) SellerProfiles(_ context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]checkout.SellerProfile, error) {
	out := make(map[uuid.UUID]checkout.SellerProfile, len(sellerIDs))
	for _, id := range sellerIDs {
		if rec, ok := d.t.sellers[id]; ok && rec.active {
			out[id] = rec.profile
		}
	}
	return out, nil
}

func (d directory) BuyerSnapshot(_ context.Context, userID uuid.UUID) (identity.BuyerSnapshot, error) {
	b, ok := d.t.buyers[userID]
	if !ok {
		return identity.BuyerSnapshot{}, infra.NotFound("buyer not found")
	}
	return b, nil
}

func (d directory) SellerSnapshot(_ context.Context, sellerID uuid.UUID) (identity.SellerSnapshot, error) {
	rec, ok := d.t.sellers[sellerID]
	if !ok {
		return identity.SellerSnapshot{}, infra.NotFound("seller not found")
	}
	return rec.snapshot, nil
}
