package commands

import (
	"context"
	"log/slog"

	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrReservationNotHeld = &errs.DomainError{Kind: errs.ErrOrderCreation, Field: "reservation", Message: "stock reservation is no longer held"}

// StockManager places, releases and commits holds against the inventory
// ledger. It always runs inside the caller's transaction so a failed
// checkout rolls its holds back with everything else.
type StockManager struct {
	clock clock.Clock
}

func NewStockManager(clk clock.Clock) *StockManager {
	return &StockManager{clock: clk}
}

// Reserve takes qty units with one conditional decrement. There is no
// separate availability read before the write.
func (m *StockManager) Reserve(ctx context.Context, tx shared.Tx, sessionID, listingID uuid.UUID, qty int) (*inventory.Reservation, error) {
	res, err := inventory.NewReservation(sessionID, listingID, qty, m.clock.Now())
	if err != nil {
		return nil, errs.NewValidation("quantity", err.Error())
	}

	ok, err := tx.Ledger().AtomicDecrement(ctx, listingID, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		available, aerr := tx.Ledger().GetAvailability(ctx, listingID)
		if aerr != nil {
			if infra.IsKind(aerr, infra.KindNotFound) {
				return nil, errs.NewItemUnavailable(listingID, "listing no longer exists")
			}
			return nil, aerr
		}
		return nil, errs.NewInsufficientStock(listingID, qty, available)
	}

	if err := tx.Reservations().Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Release gives the held quantity back. Releasing twice restores stock once:
// only the call that flips the row out of held increments the ledger.
func (m *StockManager) Release(ctx context.Context, tx shared.Tx, reservationID uuid.UUID) (bool, error) {
	res, err := tx.Reservations().FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, errs.ErrReservationNotFound
		}
		return false, err
	}
	return m.release(ctx, tx, res)
}

// ReleaseSession releases every held reservation of a session and returns
// how many were actually released by this call.
func (m *StockManager) ReleaseSession(ctx context.Context, tx shared.Tx, sessionID uuid.UUID) (int, error) {
	reservations, err := tx.Reservations().FindBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	released := 0
	for _, res := range reservations {
		ok, rerr := m.release(ctx, tx, res)
		if rerr != nil {
			return released, rerr
		}
		if ok {
			released++
		}
	}
	return released, nil
}

func (m *StockManager) release(ctx context.Context, tx shared.Tx, res *inventory.Reservation) (bool, error) {
	if !res.IsHeld() {
		return false, nil
	}
	flipped, err := tx.Reservations().MarkReleased(ctx, res.ID(), m.clock.Now())
	if err != nil {
		return false, err
	}
	if !flipped {
		return false, nil
	}
	if err := tx.Ledger().AtomicIncrement(ctx, res.ListingID(), res.Quantity()); err != nil {
		return false, err
	}
	slog.Debug("stock reservation released",
		"reservation_id", res.ID(),
		"listing_id", res.ListingID(),
		"quantity", res.Quantity())
	return true, nil
}

// Commit turns a held reservation into a permanent deduction. The ledger was
// already decremented at reserve time, so availability is not checked again.
func (m *StockManager) Commit(ctx context.Context, tx shared.Tx, reservationID uuid.UUID) error {
	flipped, err := tx.Reservations().MarkCommitted(ctx, reservationID, m.clock.Now())
	if err != nil {
		return err
	}
	if !flipped {
		return ErrReservationNotHeld
	}
	return nil
}
