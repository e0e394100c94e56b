package readstore

import (
	"context"
	"time"

	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/db"
	"marketplace-checkout/internal/pkg/pgconv"
	"marketplace-checkout/internal/usecase/queries"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	orderListColumns = `
SELECT o.id, o.order_number, o.buyer_id, o.seller_id,
       COALESCE(o.seller_snapshot->>'shop_name', ''),
       o.status, o.payment_status, jsonb_array_length(o.items), o.total_amount, o.created_at
FROM orders o`

	statusFilter = ` AND ($2::text = '' OR o.status = $2::text)`
	keysetOrder  = ` ORDER BY o.created_at DESC, o.id DESC`

	buyerFirstPageSQL  = orderListColumns + ` WHERE o.buyer_id = $1` + statusFilter + keysetOrder + ` LIMIT $3`
	sellerFirstPageSQL = orderListColumns + ` WHERE o.seller_id = $1` + statusFilter + keysetOrder + ` LIMIT $3`

	buyerKeysetSQL = orderListColumns + ` WHERE o.buyer_id = $1` + statusFilter +
		` AND (o.created_at, o.id) < ($3, $4)` + keysetOrder + ` LIMIT $5`
	sellerKeysetSQL = orderListColumns + ` WHERE o.seller_id = $1` + statusFilter +
		` AND (o.created_at, o.id) < ($3, $4)` + keysetOrder + ` LIMIT $5`

	orderStatusViewSQL = `
SELECT id, order_number, status, payment_status, buyer_id, seller_user_id, updated_at
FROM orders
WHERE id = $1`

	sellerIDForUserSQL = `SELECT id FROM sellers WHERE user_id = $1`
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(db db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: db}
}

func (r *OrderReadStore) FindFirstPage(ctx context.Context, scope queries.ListScope, ownerID uuid.UUID, status string, limit int32) ([]*queries.OrderListItem, error) {
	query := buyerFirstPageSQL
	if scope == queries.ScopeSeller {
		query = sellerFirstPageSQL
	}
	rows, err := r.db.Query(ctx, query, ownerID, status, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get orders first page", err)
	}
	return collectOrderListRows(rows)
}

func (r *OrderReadStore) FindKeyset(ctx context.Context, scope queries.ListScope, ownerID uuid.UUID, status string, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	query := buyerKeysetSQL
	if scope == queries.ScopeSeller {
		query = sellerKeysetSQL
	}
	rows, err := r.db.Query(ctx, query, ownerID, status, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get orders keyset", err)
	}
	return collectOrderListRows(rows)
}

func (r *OrderReadStore) FindStatus(ctx context.Context, orderID uuid.UUID) (*shared.OrderStatusView, error) {
	var v shared.OrderStatusView
	err := r.db.QueryRow(ctx, orderStatusViewSQL, orderID).
		Scan(&v.OrderID, &v.OrderNumber, &v.Status, &v.PaymentStatus, &v.BuyerID, &v.SellerUserID, &v.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order status", err)
	}
	return &v, nil
}

func (r *OrderReadStore) SellerIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.db.QueryRow(ctx, sellerIDForUserSQL, userID).Scan(&id); err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("seller profile not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to get seller profile", err)
	}
	return id, nil
}

func collectOrderListRows(rows pgx.Rows) ([]*queries.OrderListItem, error) {
	defer rows.Close()

	result := make([]*queries.OrderListItem, 0)
	for rows.Next() {
		item := &queries.OrderListItem{}
		err := rows.Scan(&item.ID, &item.OrderNumber, &item.BuyerID, &item.SellerID, &item.ShopName,
			&item.Status, &item.PaymentStatus, &item.ItemCount, &item.TotalAmount, &item.CreatedAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order rows", err)
	}
	return result, nil
}
