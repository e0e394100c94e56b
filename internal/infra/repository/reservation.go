package repository

import (
	"context"
	"time"

	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/db"
	"marketplace-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	reservationColumns = `id, session_id, listing_id, quantity, status, reserved_at, released_at, committed_at`

	createReservationSQL = `
INSERT INTO stock_reservations (id, session_id, listing_id, quantity, status, reserved_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	findReservationByIDSQL = `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE id = $1`

	findReservationsBySessionSQL = `SELECT ` + reservationColumns + `
FROM stock_reservations
WHERE session_id = $1
ORDER BY reserved_at, id`

	markReservationReleasedSQL = `
UPDATE stock_reservations
SET status = 'released', released_at = $2
WHERE id = $1 AND status = 'held'`

	markReservationCommittedSQL = `
UPDATE stock_reservations
SET status = 'committed', committed_at = $2
WHERE id = $1 AND status = 'held'`
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(db db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *inventory.Reservation) error {
	_, err := r.db.Exec(ctx, createReservationSQL,
		res.ID(), res.SessionID(), res.ListingID(), res.Quantity(), res.Status().String(), res.ReservedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create stock reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, findReservationByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("stock reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get stock reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*inventory.Reservation, error) {
	rows, err := r.db.Query(ctx, findReservationsBySessionSQL, sessionID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stock reservations", err)
	}
	defer rows.Close()

	var out []*inventory.Reservation
	for rows.Next() {
		res, serr := scanReservation(rows)
		if serr != nil {
			return nil, infra.WrapRepoErr("failed to scan stock reservation", serr)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list stock reservations", err)
	}
	return out, nil
}

func (r *ReservationRepository) MarkReleased(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, markReservationReleasedSQL, id, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to release stock reservation", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepository) MarkCommitted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, markReservationCommittedSQL, id, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to commit stock reservation", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanReservation(row pgx.Row) (*inventory.Reservation, error) {
	var (
		id, sessionID, listingID uuid.UUID
		quantity                 int
		status                   string
		reservedAt               time.Time
		releasedAt, committedAt  pgtype.Timestamptz
	)
	if err := row.Scan(&id, &sessionID, &listingID, &quantity, &status, &reservedAt, &releasedAt, &committedAt); err != nil {
		return nil, err
	}
	return inventory.ReconstructReservation(
		id, sessionID, listingID,
		quantity,
		inventory.ReservationStatus(status),
		reservedAt,
		pgconv.TimePtrFromPgtype(releasedAt),
		pgconv.TimePtrFromPgtype(committedAt),
	), nil
}
