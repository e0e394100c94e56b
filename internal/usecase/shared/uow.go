package shared

import (
	"context"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/domain/order"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx hands out repositories bound to one transaction.
type Tx interface {
	Ledger() InventoryLedger
	Reservations() ReservationRepository
	Sessions() SessionRepository
	Orders() OrderRepository
	Outbox() OutboxRepository
	Directory() Directory
}

// InventoryLedger is the authoritative per-listing stock counter.
// Every write is a single conditional statement; there is no read-modify-write.
type InventoryLedger interface {
	GetAvailability(ctx context.Context, listingID uuid.UUID) (int, error)
	// AtomicDecrement returns false when fewer than qty units are available.
	AtomicDecrement(ctx context.Context, listingID uuid.UUID, qty int) (bool, error)
	AtomicIncrement(ctx context.Context, listingID uuid.UUID, qty int) error
}

type ReservationRepository interface {
	Create(ctx context.Context, r *inventory.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*inventory.Reservation, error)
	// MarkReleased flips held -> released and reports whether this call did it.
	MarkReleased(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// MarkCommitted flips held -> committed and reports whether this call did it.
	MarkCommitted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *checkout.Session) error
	// Update is an optimistic write keyed on the session version.
	Update(ctx context.Context, s *checkout.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*checkout.Session, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*checkout.Session, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*checkout.Session, error)
	FindByPaymentIntent(ctx context.Context, intentRef string) (*checkout.Session, error)
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	// ListOverdueHolding finds overdue active sessions with held stock on any of the listings.
	ListOverdueHolding(ctx context.Context, listingIDs []uuid.UUID, now time.Time) ([]uuid.UUID, error)
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	// Update is an optimistic write keyed on the order version.
	Update(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*order.Order, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, e OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Directory is the identity and catalogue lookup used while building snapshots.
type Directory interface {
	ListingsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]inventory.Listing, error)
	SellerProfiles(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]checkout.SellerProfile, error)
	BuyerSnapshot(ctx context.Context, userID uuid.UUID) (identity.BuyerSnapshot, error)
	SellerSnapshot(ctx context.Context, sellerID uuid.UUID) (identity.SellerSnapshot, error)
}
