package converter

import (
	"encoding/json"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// SessionRow mirrors checkout_sessions plus the derived reservation and order id arrays.
type SessionRow struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SessionType      string
	Items            []byte
	SellerGroups     []byte
	Pricing          []byte
	TotalAmount      decimal.Decimal
	DeliveryMethod   string
	DeliveryAddress  []byte
	PaymentMethod    string
	PaymentIntentRef pgtype.Text
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ExpiresAt        time.Time
	Version          int
	ReservationIDs   []pgtype.UUID
	OrderIDs         []pgtype.UUID
}

// ScanTargets lists the destinations in column order.
func (r *SessionRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.UserID, &r.SessionType, &r.Items, &r.SellerGroups, &r.Pricing, &r.TotalAmount,
		&r.DeliveryMethod, &r.DeliveryAddress, &r.PaymentMethod, &r.PaymentIntentRef, &r.Status,
		&r.CreatedAt, &r.UpdatedAt, &r.ExpiresAt, &r.Version, &r.ReservationIDs, &r.OrderIDs,
	}
}

func SessionToRow(s *checkout.Session) (SessionRow, error) {
	items, err := json.Marshal(s.Items())
	if err != nil {
		return SessionRow{}, err
	}
	groups, err := json.Marshal(s.SellerGroups())
	if err != nil {
		return SessionRow{}, err
	}
	breakdown, err := json.Marshal(s.Pricing())
	if err != nil {
		return SessionRow{}, err
	}
	var addr []byte
	if s.DeliveryAddress() != nil {
		if addr, err = json.Marshal(s.DeliveryAddress()); err != nil {
			return SessionRow{}, err
		}
	}
	return SessionRow{
		ID:               s.ID(),
		UserID:           s.UserID(),
		SessionType:      string(s.Type()),
		Items:            items,
		SellerGroups:     groups,
		Pricing:          breakdown,
		TotalAmount:      s.Pricing().TotalAmount,
		DeliveryMethod:   s.DeliveryMethod().String(),
		DeliveryAddress:  addr,
		PaymentMethod:    s.PaymentMethod().String(),
		PaymentIntentRef: pgconv.EmptyToNullText(s.PaymentIntentRef()),
		Status:           s.Status().String(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
		ExpiresAt:        s.ExpiresAt(),
		Version:          s.Version(),
	}, nil
}

func SessionFromRow(r SessionRow) (*checkout.Session, error) {
	var items []checkout.Item
	if err := json.Unmarshal(r.Items, &items); err != nil {
		return nil, err
	}
	var groups []checkout.SellerGroup
	if len(r.SellerGroups) > 0 {
		if err := json.Unmarshal(r.SellerGroups, &groups); err != nil {
			return nil, err
		}
	}
	var breakdown pricing.Breakdown
	if len(r.Pricing) > 0 {
		if err := json.Unmarshal(r.Pricing, &breakdown); err != nil {
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
	return checkout.ReconstructSession(checkout.ReconstructParams{
		ID:               r.ID,
		UserID:           r.UserID,
		Type:             checkout.SessionType(r.SessionType),
		Items:            items,
		SellerGroups:     groups,
		Pricing:          breakdown,
		DeliveryMethod:   pricing.DeliveryMethod(r.DeliveryMethod),
		DeliveryAddress:  addr,
		PaymentMethod:    pricing.PaymentMethod(r.PaymentMethod),
		PaymentIntentRef: pgconv.StringFromPgtype(r.PaymentIntentRef),
		Status:           checkout.Status(r.Status),
		ReservationIDs:   pgconv.UUIDsFromPgtype(r.ReservationIDs),
		OrderIDs:         pgconv.UUIDsFromPgtype(r.OrderIDs),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		ExpiresAt:        r.ExpiresAt,
		Version:          r.Version,
	}), nil
}
