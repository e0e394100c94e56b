// Package memstore is an in-process implementation of the unit of work.
// Transactions are serialized on one mutex and rolled back by restoring a
// copy of the tables taken when the transaction began. Stored values are
// never mutated in place, so copying the maps is enough.
package memstore

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/infra/repository/converter"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

type sellerRecord struct {
	profile  checkout.SellerProfile
	snapshot identity.SellerSnapshot
	active   bool
}

type tables struct {
	listings     map[uuid.UUID]inventory.Listing
	sellers      map[uuid.UUID]sellerRecord
	buyers       map[uuid.UUID]identity.BuyerSnapshot
	sessions     map[uuid.UUID]converter.SessionRow
	reservations map[uuid.UUID]inventory.Reservation
	orders       map[uuid.UUID]converter.OrderRow
	orderNumbers map[string]uuid.UUID
	outbox       []shared.OutboxEvent
}

func newTables() *tables {
	return &tables{
		listings:     make(map[uuid.UUID]inventory.Listing),
		sellers:      make(map[uuid.UUID]sellerRecord),
		buyers:       make(map[uuid.UUID]identity.BuyerSnapshot),
		sessions:     make(map[uuid.UUID]converter.SessionRow),
		reservations: make(map[uuid.UUID]inventory.Reservation),
		orders:       make(map[uuid.UUID]converter.OrderRow),
		orderNumbers: make(map[string]uuid.UUID),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		listings:     maps.Clone(t.listings),
		sellers:      maps.Clone(t.sellers),
		buyers:       maps.Clone(t.buyers),
		sessions:     maps.Clone(t.sessions),
		reservations: maps.Clone(t.reservations),
		orders:       maps.Clone(t.orders),
		orderNumbers: maps.Clone(t.orderNumbers),
		outbox:       slices.Clone(t.outbox),
	}
}

type Store struct {
	mu   sync.Mutex
	data *tables
}

func New() *Store {
	return &Store{data: newTables()}
}

var _ shared.UnitOfWork = (*Store)(nil)

// Within must not be nested; the store lock is not reentrant.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	before := s.data.clone()
	if err := fn(ctx, &memTx{t: s.data}); err != nil {
		s.data = before
		return err
	}
	return nil
}

// WithinReadOnly discards anything fn wrote.
func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	before := s.data.clone()
	err := fn(ctx, &memTx{t: s.data})
	s.data = before
	return err
}

// AddBuyer seeds an active user.
func (s *Store) AddBuyer(b identity.BuyerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.buyers[b.UserID] = b
}

// AddSeller seeds a seller and its owning user.
func (s *Store) AddSeller(profile checkout.SellerProfile, snapshot identity.SellerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.SellerID = profile.SellerID
	if snapshot.ShopName == "" {
		snapshot.ShopName = profile.ShopName
	}
	s.data.sellers[profile.SellerID] = sellerRecord{profile: profile, snapshot: snapshot, active: true}
}

func (s *Store) AddListing(l inventory.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.listings[l.ID] = l
}

func (s *Store) Listing(id uuid.UUID) (inventory.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.data.listings[id]
	return l, ok
}

// SetStock overwrites a listing's counter, as a catalogue edit would.
func (s *Store) SetStock(id uuid.UUID, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.data.listings[id]; ok {
		l.Stock = stock
		s.data.listings[id] = l
	}
}

// Reservations returns every reservation of a session, in creation order.
func (s *Store) Reservations(sessionID uuid.UUID) []inventory.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.sessionReservations(sessionID, true)
}

func (s *Store) Events() []shared.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.outbox)
}

func (t *tables) sessionReservations(sessionID uuid.UUID, includeReleased bool) []inventory.Reservation {
	var out []inventory.Reservation
	for _, r := range t.reservations {
		if r.SessionID() != sessionID {
			continue
		}
		if !includeReleased && r.Status() == inventory.ReservationReleased {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b inventory.Reservation) int {
		if c := a.ReservedAt().Compare(b.ReservedAt()); c != 0 {
			return c
		}
		return compareIDs(a.ID(), b.ID())
	})
	return out
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
