package memstore

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/repository/converter"
	"marketplace-checkout/internal/usecase/queries"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

var _ queries.OrderReadStore = (*Store)(nil)

func (s *Store) FindFirstPage(_ context.Context, scope queries.ListScope, ownerID uuid.UUID, status string, limit int32) ([]*queries.OrderListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page(scope, ownerID, status, nil, uuid.Nil, limit), nil
}

func (s *Store) FindKeyset(_ context.Context, scope queries.ListScope, ownerID uuid.UUID, status string, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page(scope, ownerID, status, &lastCreatedAt, lastID, limit), nil
}

func (s *Store) FindStatus(_ context.Context, orderID uuid.UUID) (*shared.OrderStatusView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data.orders[orderID]
	if !ok {
		return nil, infra.NotFound("order not found")
	}
	return &shared.OrderStatusView{
		OrderID:       row.ID,
		OrderNumber:   row.OrderNumber,
		Status:        row.Status,
		PaymentStatus: row.PaymentStatus,
		BuyerID:       row.BuyerID,
		SellerUserID:  row.SellerUserID,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func (s *Store) SellerIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.data.sellers {
		if rec.snapshot.UserID == userID {
			return id, nil
		}
	}
	return uuid.Nil, infra.NotFound("seller profile not found")
}

// page orders newest first with the same (created_at, id) keyset as the SQL store.
func (s *Store) page(scope queries.ListScope, ownerID uuid.UUID, status string, afterAt *time.Time, afterID uuid.UUID, limit int32) []*queries.OrderListItem {
	var rows []converter.OrderRow
	for _, row := range s.data.orders {
		owner := row.BuyerID
		if scope == queries.ScopeSeller {
			owner = row.SellerID
		}
		if owner != ownerID || (status != "" && row.Status != status) {
			continue
		}
		if afterAt != nil {
			c := row.CreatedAt.Compare(*afterAt)
			if c > 0 || (c == 0 && compareIDs(row.ID, afterID) >= 0) {
				continue
			}
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b converter.OrderRow) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})
	if limit > 0 && len(rows) > int(limit) {
		rows = rows[:limit]
	}

	out := make([]*queries.OrderListItem, 0, len(rows))
	for _, row := range rows {
		var seller struct {
			ShopName string `json:"shop_name"`
		}
		var items []json.RawMessage
		_ = json.Unmarshal(row.SellerSnapshot, &seller)
		_ = json.Unmarshal(row.Items, &items)
		out = append(out, &queries.OrderListItem{
			ID:            row.ID,
			OrderNumber:   row.OrderNumber,
			BuyerID:       row.BuyerID,
			SellerID:      row.SellerID,
			ShopName:      seller.ShopName,
			Status:        row.Status,
			PaymentStatus: row.PaymentStatus,
			ItemCount:     len(items),
			TotalAmount:   row.TotalAmount,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out
}
