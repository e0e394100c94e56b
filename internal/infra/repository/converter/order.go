package converter

import (
	"encoding/json"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderRow struct {
	ID               uuid.UUID
	OrderNumber      string
	SessionID        uuid.UUID
	BuyerID          uuid.UUID
	SellerID         uuid.UUID
	SellerUserID     uuid.UUID
	BuyerSnapshot    []byte
	SellerSnapshot   []byte
	Items            []byte
	ItemsTotal       decimal.Decimal
	ShippingFee      decimal.Decimal
	ServiceFee       decimal.Decimal
	TotalDiscount    decimal.Decimal
	TotalAmount      decimal.Decimal
	SellerReceives   decimal.Decimal
	DeliveryMethod   string
	DeliveryAddress  []byte
	PaymentMethod    string
	PaymentIntentRef string
	PaymentStatus    string
	Status           string
	StatusHistory    []byte
	Milestones       []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int
}

func (r *OrderRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.OrderNumber, &r.SessionID, &r.BuyerID, &r.SellerID, &r.SellerUserID,
		&r.BuyerSnapshot, &r.SellerSnapshot, &r.Items,
		&r.ItemsTotal, &r.ShippingFee, &r.ServiceFee, &r.TotalDiscount, &r.TotalAmount, &r.SellerReceives,
		&r.DeliveryMethod, &r.DeliveryAddress, &r.PaymentMethod, &r.PaymentIntentRef, &r.PaymentStatus,
		&r.Status, &r.StatusHistory, &r.Milestones, &r.CreatedAt, &r.UpdatedAt, &r.Version,
	}
}

func OrderToRow(o *order.Order) (OrderRow, error) {
	buyer, err := json.Marshal(o.Buyer())
	if err != nil {
		return OrderRow{}, err
	}
	seller, err := json.Marshal(o.Seller())
	if err != nil {
		return OrderRow{}, err
	}
	items, err := json.Marshal(o.Items())
	if err != nil {
		return OrderRow{}, err
	}
	history, err := json.Marshal(o.History())
	if err != nil {
		return OrderRow{}, err
	}
	milestones, err := json.Marshal(o.Milestones())
	if err != nil {
		return OrderRow{}, err
	}
	var addr []byte
	if o.DeliveryAddress() != nil {
		if addr, err = json.Marshal(o.DeliveryAddress()); err != nil {
			return OrderRow{}, err
		}
	}
	return OrderRow{
		ID:               o.ID(),
		OrderNumber:      o.Number(),
		SessionID:        o.SessionID(),
		BuyerID:          o.Buyer().UserID,
		SellerID:         o.Seller().SellerID,
		SellerUserID:     o.Seller().UserID,
		BuyerSnapshot:    buyer,
		SellerSnapshot:   seller,
		Items:            items,
		ItemsTotal:       o.ItemsTotal(),
		ShippingFee:      o.ShippingFee(),
		ServiceFee:       o.ServiceFee(),
		TotalDiscount:    o.TotalDiscount(),
		TotalAmount:      o.TotalAmount(),
		SellerReceives:   o.SellerReceives(),
		DeliveryMethod:   o.DeliveryMethod().String(),
		DeliveryAddress:  addr,
		PaymentMethod:    o.PaymentMethod().String(),
		PaymentIntentRef: o.PaymentIntentRef(),
		PaymentStatus:    o.PaymentStatus().String(),
		Status:           o.Status().String(),
		StatusHistory:    history,
		Milestones:       milestones,
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
		Version:          o.Version(),
	}, nil
}

func OrderFromRow(r OrderRow) (*order.Order, error) {
	var buyer identity.BuyerSnapshot
	if err := json.Unmarshal(r.BuyerSnapshot, &buyer); err != nil {
		return nil, err
	}
	var seller identity.SellerSnapshot
	if err := json.Unmarshal(r.SellerSnapshot, &seller); err != nil {
		return nil, err
	}
	var items []order.Item
	if err := json.Unmarshal(r.Items, &items); err != nil {
		return nil, err
	}
	var history []order.HistoryEntry
	if len(r.StatusHistory) > 0 {
		if err := json.Unmarshal(r.StatusHistory, &history); err != nil {
			return nil, err
		}
	}
	var milestones order.Milestones
	if len(r.Milestones) > 0 {
		if err := json.Unmarshal(r.Milestones, &milestones); err != nil {
			return nil, err
		}
	}
	var addr *checkout.Address
	if len(r.DeliveryAddress) > 0 {
		addr = &checkout.Address{}
		if err := json.Unmarshal(r.DeliveryAddress, addr); err != nil {
			return nil, err
		}
	}
	return order.Reconstruct(order.ReconstructParams{
		ID:               r.ID,
		Number:           r.OrderNumber,
		SessionID:        r.SessionID,
		Buyer:            buyer,
		Seller:           seller,
		Items:            items,
		ItemsTotal:       r.ItemsTotal,
		ShippingFee:      r.ShippingFee,
		ServiceFee:       r.ServiceFee,
		TotalDiscount:    r.TotalDiscount,
		TotalAmount:      r.TotalAmount,
		SellerReceives:   r.SellerReceives,
		DeliveryMethod:   pricing.DeliveryMethod(r.DeliveryMethod),
		DeliveryAddress:  addr,
		PaymentMethod:    pricing.PaymentMethod(r.PaymentMethod),
		PaymentIntentRef: r.PaymentIntentRef,
		PaymentStatus:    order.PaymentStatus(r.PaymentStatus),
		Status:           order.Status(r.Status),
		History:          history,
		Milestones:       milestones,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Version:          r.Version,
	}), nil
}
