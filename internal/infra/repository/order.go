package repository

import (
	"context"

	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/db"
	"marketplace-checkout/internal/infra/repository/converter"
	"marketplace-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	orderColumns = `
id, order_number, session_id, buyer_id, seller_id, seller_user_id,
buyer_snapshot, seller_snapshot, items,
items_total, shipping_fee, service_fee, total_discount, total_amount, seller_receives,
delivery_method, delivery_address, payment_method, payment_intent_ref, payment_status,
status, status_history, milestones, created_at, updated_at, version`

	// A clashing order number inserts nothing instead of raising 23505,
	// which would abort the surrounding transaction.
	createOrderSQL = `
INSERT INTO orders (` + orderColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
ON CONFLICT (order_number) DO NOTHING
RETURNING id`

	updateOrderSQL = `
UPDATE orders
SET payment_intent_ref = $3, payment_status = $4, status = $5,
    status_history = $6, milestones = $7, updated_at = $8,
    version = version + 1
WHERE id = $1 AND version = $2`

	findOrderByIDSQL       = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	findOrdersBySessionSQL = `SELECT ` + orderColumns + ` FROM orders WHERE session_id = $1 ORDER BY created_at, id`
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(db db.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	row, err := converter.OrderToRow(o)
	if err != nil {
		return infra.WrapRepoErr("failed to encode order", err)
	}
	var id uuid.UUID
	err = r.db.QueryRow(ctx, createOrderSQL,
		row.ID, row.OrderNumber, row.SessionID, row.BuyerID, row.SellerID, row.SellerUserID,
		row.BuyerSnapshot, row.SellerSnapshot, row.Items,
		row.ItemsTotal, row.ShippingFee, row.ServiceFee, row.TotalDiscount, row.TotalAmount, row.SellerReceives,
		row.DeliveryMethod, row.DeliveryAddress, row.PaymentMethod, row.PaymentIntentRef, row.PaymentStatus,
		row.Status, row.StatusHistory, row.Milestones, row.CreatedAt, row.UpdatedAt, row.Version,
	).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("order number already taken", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create order", err)
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	row, err := converter.OrderToRow(o)
	if err != nil {
		return infra.WrapRepoErr("failed to encode order", err)
	}
	tag, err := r.db.Exec(ctx, updateOrderSQL,
		row.ID, row.Version, row.PaymentIntentRef, row.PaymentStatus, row.Status,
		row.StatusHistory, row.Milestones, row.UpdatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.Conflict("order was modified concurrently")
	}
	o.AdvanceVersion()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var row converter.OrderRow
	if err := r.db.QueryRow(ctx, findOrderByIDSQL, id).Scan(row.ScanTargets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order", err)
	}
	o, err := converter.OrderFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode order", err)
	}
	return o, nil
}

func (r *OrderRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*order.Order, error) {
	rows, err := r.db.Query(ctx, findOrdersBySessionSQL, sessionID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		var row converter.OrderRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order", err)
		}
		o, cerr := converter.OrderFromRow(row)
		if cerr != nil {
			return nil, infra.WrapRepoErr("failed to decode order", cerr)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	return out, nil
}
