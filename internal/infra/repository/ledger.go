package repository

import (
	"context"

	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/db"
	"marketplace-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	getAvailabilitySQL = `
SELECT CASE WHEN is_active THEN stock ELSE 0 END
FROM listings
WHERE id = $1`

	// The stock >= $2 guard is the whole concurrency story: two buyers
	// racing for the last unit cannot both match the row.
	atomicDecrementSQL = `
UPDATE listings
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND is_active AND stock >= $2`

	atomicIncrementSQL = `
UPDATE listings
SET stock = stock + $2, updated_at = now()
WHERE id = $1`
)

type InventoryLedger struct {
	db db.DBTX
}

func NewInventoryLedger(db db.DBTX) *InventoryLedger {
	return &InventoryLedger{db: db}
}

func (l *InventoryLedger) GetAvailability(ctx context.Context, listingID uuid.UUID) (int, error) {
	var stock int
	if err := l.db.QueryRow(ctx, getAvailabilitySQL, listingID).Scan(&stock); err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to read stock", err)
	}
	return stock, nil
}

func (l *InventoryLedger) AtomicDecrement(ctx context.Context, listingID uuid.UUID, qty int) (bool, error) {
	tag, err := l.db.Exec(ctx, atomicDecrementSQL, listingID, qty)
	if err != nil {
		return false, infra.WrapRepoErr("failed to decrement stock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (l *InventoryLedger) AtomicIncrement(ctx context.Context, listingID uuid.UUID, qty int) error {
	tag, err := l.db.Exec(ctx, atomicIncrementSQL, listingID, qty)
	if err != nil {
		return infra.WrapRepoErr("failed to increment stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("listing not found")
	}
	return nil
}
