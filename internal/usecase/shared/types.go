package shared

import (
	"context"
	"encoding/json"
	"time"

	"marketplace-checkout/internal/domain/identity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
	TopicSessionClosed      = "checkout.session_closed"
	TopicPaymentOrphaned    = "payment.orphaned"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and relayed to the broker afterwards.
type OutboxEvent struct {
	ID          uuid.UUID
	Topic       string
	Key         string
	Payload     json.RawMessage
	CreatedAt   time.Time
	PublishedAt *time.Time
}

func NewOutboxEvent(topic, key string, payload any, now time.Time) (OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, err
	}
	return OutboxEvent{
		ID:        uuid.New(),
		Topic:     topic,
		Key:       key,
		Payload:   raw,
		CreatedAt: now,
	}, nil
}

type PaymentIntent struct {
	IntentID     string
	ClientSecret string
}

// PaymentConfirmation is a verified gateway callback.
type PaymentConfirmation struct {
	EventID   string
	IntentID  string
	SessionID uuid.UUID
	Succeeded bool
	Amount    decimal.Decimal
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (PaymentIntent, error)
	// CancelPaymentIntent voids an intent that no longer matches its session.
	CancelPaymentIntent(ctx context.Context, intentID string) error
	// ParseWebhook verifies the signature and decodes the callback.
	ParseWebhook(payload []byte, signature string) (PaymentConfirmation, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, events []OutboxEvent) error
}

// WebhookDeduper remembers processed gateway events.
type WebhookDeduper interface {
	// FirstSeen returns false when the event was already claimed.
	FirstSeen(ctx context.Context, provider, eventID string) (bool, error)
	Forget(ctx context.Context, provider, eventID string) error
}

type OrderStatusCache interface {
	Get(ctx context.Context, orderID uuid.UUID) (*OrderStatusView, bool, error)
	Set(ctx context.Context, view OrderStatusView) error
	Invalidate(ctx context.Context, orderID uuid.UUID) error
}

type OrderStatusView struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	SellerUserID  uuid.UUID `json:"seller_user_id"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccessControl decides who may read or move an order.
type AccessControl interface {
	CanUserView(actor identity.Actor, parties identity.OrderParties) bool
	CanUserModify(actor identity.Actor, parties identity.OrderParties, current, target string) bool
}
