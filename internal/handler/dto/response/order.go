package response

import (
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/usecase/queries"
	"marketplace-checkout/internal/usecase/shared"
)

type OrderItemResponse struct {
	ListingID    string `json:"listing_id"`
	Title        string `json:"title"`
	UnitPrice    string `json:"unit_price"`
	UnitDiscount string `json:"unit_discount"`
	Quantity     int    `json:"quantity"`
	LineTotal    string `json:"line_total"`
}

type OrderHistoryResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by"`
}

type OrderResponse struct {
	ID               string                  `json:"id"`
	OrderNumber      string                  `json:"order_number"`
	SessionID        string                  `json:"session_id"`
	Buyer            identity.BuyerSnapshot  `json:"buyer"`
	Seller           identity.SellerSnapshot `json:"seller"`
	Items            []OrderItemResponse     `json:"items"`
	ItemsTotal       string                  `json:"items_total"`
	ShippingFee      string                  `json:"shipping_fee"`
	ServiceFee       string                  `json:"service_fee"`
	TotalDiscount    string                  `json:"total_discount"`
	TotalAmount      string                  `json:"total_amount"`
	SellerReceives   string                  `json:"seller_receives"`
	DeliveryMethod   string                  `json:"delivery_method"`
	DeliveryAddress  *checkout.Address       `json:"delivery_address,omitempty"`
	PaymentMethod    string                  `json:"payment_method"`
	PaymentIntentRef string                  `json:"payment_intent_ref,omitempty"`
	PaymentStatus    string                  `json:"payment_status"`
	Status           string                  `json:"status"`
	StatusHistory    []OrderHistoryResponse  `json:"status_history"`
	Milestones       order.Milestones        `json:"milestones"`
	NextStatuses     []string                `json:"next_statuses"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

func FromOrder(o *order.Order) *OrderResponse {
	res := &OrderResponse{
		ID:               o.ID().String(),
		OrderNumber:      o.Number(),
		SessionID:        o.SessionID().String(),
		Buyer:            o.Buyer(),
		Seller:           o.Seller(),
		Items:            make([]OrderItemResponse, len(o.Items())),
		ItemsTotal:       o.ItemsTotal().StringFixed(2),
		ShippingFee:      o.ShippingFee().StringFixed(2),
		ServiceFee:       o.ServiceFee().StringFixed(2),
		TotalDiscount:    o.TotalDiscount().StringFixed(2),
		TotalAmount:      o.TotalAmount().StringFixed(2),
		SellerReceives:   o.SellerReceives().StringFixed(2),
		DeliveryMethod:   o.DeliveryMethod().String(),
		DeliveryAddress:  o.DeliveryAddress(),
		PaymentMethod:    o.PaymentMethod().String(),
		PaymentIntentRef: o.PaymentIntentRef(),
		PaymentStatus:    o.PaymentStatus().String(),
		Status:           o.Status().String(),
		Milestones:       o.Milestones(),
		NextStatuses:     []string{},
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
	}
	for i, it := range o.Items() {
		mustCopy(&res.Items[i], it)
	}
	for _, h := range o.History() {
		res.StatusHistory = append(res.StatusHistory, OrderHistoryResponse{
			Status:    h.Status.String(),
			Note:      h.Note,
			UpdatedAt: h.UpdatedAt,
			UpdatedBy: h.UpdatedBy.String(),
		})
	}
	for _, s := range o.NextStatuses() {
		res.NextStatuses = append(res.NextStatuses, s.String())
	}
	return res
}

func FromOrders(orders []*order.Order) []*OrderResponse {
	if len(orders) == 0 {
		return nil
	}
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = FromOrder(o)
	}
	return out
}

type OrderListItemResponse struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	BuyerID       string    `json:"buyer_id"`
	SellerID      string    `json:"seller_id"`
	ShopName      string    `json:"shop_name"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	ItemCount     int       `json:"item_count"`
	TotalAmount   string    `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromOrderList(items []*queries.OrderListItem) []*OrderListItemResponse {
	res := make([]*OrderListItemResponse, len(items))
	for i, it := range items {
		res[i] = &OrderListItemResponse{}
		mustCopy(res[i], it)
	}
	return res
}

type OrderStatusResponse struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromOrderStatus(v *shared.OrderStatusView) *OrderStatusResponse {
	res := &OrderStatusResponse{}
	mustCopy(res, v)
	return res
}
