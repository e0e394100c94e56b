package repository

import (
	"context"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/db"
	"marketplace-checkout/internal/infra/repository/converter"
	"marketplace-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	sessionSelect = `
SELECT s.id, s.user_id, s.session_type, s.items, s.seller_groups, s.pricing, s.total_amount,
       s.delivery_method, s.delivery_address, s.payment_method, s.payment_intent_ref, s.status,
       s.created_at, s.updated_at, s.expires_at, s.version,
       ARRAY(SELECT r.id FROM stock_reservations r WHERE r.session_id = s.id AND r.status <> 'released' ORDER BY r.reserved_at, r.id),
       ARRAY(SELECT o.id FROM orders o WHERE o.session_id = s.id ORDER BY o.created_at, o.id)
FROM checkout_sessions s`

	activeStatuses = `('pending', 'payment_intent_created')`

	createSessionSQL = `
INSERT INTO checkout_sessions (
    id, user_id, session_type, items, seller_groups, pricing, total_amount,
    delivery_method, delivery_address, payment_method, payment_intent_ref, status,
    created_at, updated_at, expires_at, version
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	updateSessionSQL = `
UPDATE checkout_sessions
SET items = $3, seller_groups = $4, pricing = $5, total_amount = $6,
    delivery_method = $7, delivery_address = $8, payment_method = $9,
    payment_intent_ref = $10, status = $11, updated_at = $12,
    version = version + 1
WHERE id = $1 AND version = $2`

	findSessionByIDSQL          = sessionSelect + ` WHERE s.id = $1`
	findSessionByIDForUpdateSQL = sessionSelect + ` WHERE s.id = $1 FOR UPDATE OF s`
	findActiveSessionByUserSQL  = sessionSelect + ` WHERE s.user_id = $1 AND s.status IN ` + activeStatuses
	findSessionByIntentSQL      = sessionSelect + ` WHERE s.payment_intent_ref = $1`

	listOverdueSessionsSQL = `
SELECT id FROM checkout_sessions
WHERE status IN ` + activeStatuses + ` AND expires_at <= $1
ORDER BY expires_at, id
LIMIT $2`

	listOverdueHoldingSQL = `
SELECT DISTINCT s.id
FROM checkout_sessions s
JOIN stock_reservations r ON r.session_id = s.id
WHERE r.status = 'held'
  AND r.listing_id = ANY($1)
  AND s.status IN ` + activeStatuses + `
  AND s.expires_at <= $2`

	deleteTerminalSessionsSQL = `
DELETE FROM checkout_sessions
WHERE id IN (
    SELECT id FROM checkout_sessions
    WHERE status IN ('completed', 'cancelled', 'expired') AND updated_at < $1
    ORDER BY updated_at
    LIMIT $2
)`
)

type SessionRepository struct {
	db db.DBTX
}

func NewSessionRepository(db db.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *checkout.Session) error {
	row, err := converter.SessionToRow(s)
	if err != nil {
		return infra.WrapRepoErr("failed to encode checkout session", err)
	}
	_, err = r.db.Exec(ctx, createSessionSQL,
		row.ID, row.UserID, row.SessionType, row.Items, row.SellerGroups, row.Pricing, row.TotalAmount,
		row.DeliveryMethod, row.DeliveryAddress, row.PaymentMethod, row.PaymentIntentRef, row.Status,
		row.CreatedAt, row.UpdatedAt, row.ExpiresAt, row.Version)
	if err != nil {
		return infra.WrapRepoErr("failed to create checkout session", err)
	}
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, s *checkout.Session) error {
	row, err := converter.SessionToRow(s)
	if err != nil {
		return infra.WrapRepoErr("failed to encode checkout session", err)
	}
	tag, err := r.db.Exec(ctx, updateSessionSQL,
		row.ID, row.Version, row.Items, row.SellerGroups, row.Pricing, row.TotalAmount,
		row.DeliveryMethod, row.DeliveryAddress, row.PaymentMethod,
		row.PaymentIntentRef, row.Status, row.UpdatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update checkout session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.Conflict("checkout session was modified concurrently")
	}
	s.AdvanceVersion()
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	return r.findOne(ctx, findSessionByIDSQL, id)
}

func (r *SessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	return r.findOne(ctx, findSessionByIDForUpdateSQL, id)
}

func (r *SessionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*checkout.Session, error) {
	return r.findOne(ctx, findActiveSessionByUserSQL, userID)
}

func (r *SessionRepository) FindByPaymentIntent(ctx context.Context, intentRef string) (*checkout.Session, error) {
	return r.findOne(ctx, findSessionByIntentSQL, intentRef)
}

func (r *SessionRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	return r.listIDs(ctx, listOverdueSessionsSQL, now, limit)
}

func (r *SessionRepository) ListOverdueHolding(ctx context.Context, listingIDs []uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}
	return r.listIDs(ctx, listOverdueHoldingSQL, pgconv.UUIDArray(listingIDs), now)
}

func (r *SessionRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteTerminalSessionsSQL, cutoff, limit)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to purge checkout sessions", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepository) findOne(ctx context.Context, query string, arg any) (*checkout.Session, error) {
	var row converter.SessionRow
	if err := r.db.QueryRow(ctx, query, arg).Scan(row.ScanTargets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("checkout session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get checkout session", err)
	}
	s, err := converter.SessionFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode checkout session", err)
	}
	return s, nil
}

func (r *SessionRepository) listIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list checkout sessions", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan checkout session id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list checkout sessions", err)
	}
	return ids, nil
}
