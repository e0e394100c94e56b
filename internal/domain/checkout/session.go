package checkout

import (
	"slices"
	"time"

	"marketplace-checkout/internal/domain/pricing"

	"github.com/google/uuid"
)

type Session struct {
	id               uuid.UUID
	userID           uuid.UUID
	sessionType      SessionType
	items            []Item
	sellerGroups     []SellerGroup
	pricing          pricing.Breakdown
	deliveryMethod   pricing.DeliveryMethod
	deliveryAddress  *Address
	paymentMethod    pricing.PaymentMethod
	paymentIntentRef string
	status           Status
	reservationIDs   []uuid.UUID
	orderIDs         []uuid.UUID
	createdAt        time.Time
	updatedAt        time.Time
	expiresAt        time.Time
	version          int
}

type NewSessionParams struct {
	UserID         uuid.UUID
	Type           SessionType
	Items          []Item
	DeliveryMethod pricing.DeliveryMethod
	PaymentMethod  pricing.PaymentMethod
	Now            time.Time
	// Zero means DefaultTTL.
	TTL time.Duration
}

// NewSession validates the snapshot and opens a pending session.
// Seller groups and pricing are attached with Reprice before persisting.
func NewSession(p NewSessionParams) (*Session, error) {
	if len(p.Items) == 0 {
		return nil, ErrNoItems
	}
	if p.Type != SessionCart && p.Type != SessionDirect {
		return nil, ErrInvalidSessionType
	}
	if p.Type == SessionDirect && len(p.Items) != 1 {
		return nil, ErrDirectSingleItem
	}
	for _, it := range p.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Session{
		id:             uuid.New(),
		userID:         p.UserID,
		sessionType:    p.Type,
		items:          slices.Clone(p.Items),
		deliveryMethod: p.DeliveryMethod,
		paymentMethod:  p.PaymentMethod,
		status:         StatusPending,
		createdAt:      p.Now,
		updatedAt:      p.Now,
		expiresAt:      p.Now.Add(ttl),
		version:        1,
	}, nil
}

type ReconstructParams struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Type             SessionType
	Items            []Item
	SellerGroups     []SellerGroup
	Pricing          pricing.Breakdown
	DeliveryMethod   pricing.DeliveryMethod
	DeliveryAddress  *Address
	PaymentMethod    pricing.PaymentMethod
	PaymentIntentRef string
	Status           Status
	ReservationIDs   []uuid.UUID
	OrderIDs         []uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ExpiresAt        time.Time
	Version          int
}

func ReconstructSession(p ReconstructParams) *Session {
	return &Session{
		id:               p.ID,
		userID:           p.UserID,
		sessionType:      p.Type,
		items:            p.Items,
		sellerGroups:     p.SellerGroups,
		pricing:          p.Pricing,
		deliveryMethod:   p.DeliveryMethod,
		deliveryAddress:  p.DeliveryAddress,
		paymentMethod:    p.PaymentMethod,
		paymentIntentRef: p.PaymentIntentRef,
		status:           p.Status,
		reservationIDs:   p.ReservationIDs,
		orderIDs:         p.OrderIDs,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
		expiresAt:        p.ExpiresAt,
		version:          p.Version,
	}
}

// IsExpired flips exactly at expiresAt.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

// NeedsExpiry reports a session that is still marked active but whose
// deadline has passed.
func (s *Session) NeedsExpiry(now time.Time) bool {
	return s.status.IsActive() && s.IsExpired(now)
}

// EffectiveStatus is what readers see: an overdue active session reads as
// expired even before the write that records it.
func (s *Session) EffectiveStatus(now time.Time) Status {
	if s.NeedsExpiry(now) {
		return StatusExpired
	}
	return s.status
}

func (s *Session) CanModify(now time.Time) bool {
	return s.status == StatusPending && !s.IsExpired(now)
}

// EnsureModifiable explains why CanModify is false.
func (s *Session) EnsureModifiable(now time.Time) error {
	if s.status.IsActive() && s.IsExpired(now) {
		return ErrSessionExpired
	}
	if !s.CanModify(now) {
		return ErrSessionNotModifiable
	}
	return nil
}

func (s *Session) transition(to Status, now time.Time) error {
	if !CanTransition(s.status, to) {
		return ErrInvalidTransition
	}
	s.status = to
	s.touch(now)
	return nil
}

func (s *Session) touch(now time.Time) {
	s.updatedAt = now
}

// MarkPaymentIntentCreated records the gateway reference: pending -> payment_intent_created.
func (s *Session) MarkPaymentIntentCreated(intentRef string, now time.Time) error {
	if s.status == StatusPaymentIntentCreated && s.paymentIntentRef == intentRef {
		return nil
	}
	if s.status == StatusPending && s.IsExpired(now) {
		return ErrSessionExpired
	}
	if err := s.transition(StatusPaymentIntentCreated, now); err != nil {
		return err
	}
	s.paymentIntentRef = intentRef
	return nil
}

// Complete returns false when the session was already completed.
func (s *Session) Complete(orderIDs []uuid.UUID, now time.Time) (bool, error) {
	if s.status == StatusCompleted {
		return false, nil
	}
	if err := s.transition(StatusCompleted, now); err != nil {
		return false, err
	}
	s.orderIDs = slices.Clone(orderIDs)
	return true, nil
}

// Cancel returns false when the session was already cancelled.
func (s *Session) Cancel(now time.Time) (bool, error) {
	if s.status == StatusCancelled {
		return false, nil
	}
	if err := s.transition(StatusCancelled, now); err != nil {
		return false, err
	}
	return true, nil
}

// Expire returns false when there was nothing to expire.
func (s *Session) Expire(now time.Time) (bool, error) {
	if s.status == StatusExpired {
		return false, nil
	}
	if !s.IsExpired(now) {
		return false, ErrInvalidTransition
	}
	if err := s.transition(StatusExpired, now); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) SetDelivery(method pricing.DeliveryMethod, addr *Address, now time.Time) {
	s.deliveryMethod = method
	if addr != nil {
		a := *addr
		s.deliveryAddress = &a
	}
	s.touch(now)
}

func (s *Session) SetPaymentMethod(method pricing.PaymentMethod, now time.Time) {
	s.paymentMethod = method
	s.touch(now)
}

// SetQuantity changes one line. Callers swap the stock hold around it.
func (s *Session) SetQuantity(listingID uuid.UUID, qty int, now time.Time) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range s.items {
		if s.items[i].ListingID == listingID {
			s.items[i].Quantity = qty
			s.touch(now)
			return nil
		}
	}
	return ErrItemNotInSession
}

func (s *Session) SetReservations(ids []uuid.UUID) {
	s.reservationIDs = slices.Clone(ids)
}

// ReadyForPayment checks what the buyer must supply before a payment intent.
func (s *Session) ReadyForPayment() error {
	if s.deliveryMethod == "" {
		return ErrMissingDelivery
	}
	if s.deliveryMethod != pricing.DeliveryPickup && (s.deliveryAddress == nil || s.deliveryAddress.IsZero()) {
		return ErrMissingDelivery
	}
	if s.paymentMethod == "" {
		return ErrMissingPayment
	}
	return nil
}

// Reprice regroups the items by seller and recomputes every breakdown.
func (s *Session) Reprice(engine *pricing.Engine, sellers map[uuid.UUID]SellerProfile) error {
	groups, err := GroupBySeller(s.items, sellers)
	if err != nil {
		return err
	}
	breakdowns := make([]pricing.Breakdown, len(groups))
	for i := range groups {
		lines := make([]pricing.Line, len(groups[i].Items))
		for j, it := range groups[i].Items {
			lines[j] = it.Line()
		}
		b, perr := engine.ComputeSellerGroup(lines, s.deliveryMethod, s.paymentMethod, sellers[groups[i].SellerID].Delivery)
		if perr != nil {
			return perr
		}
		groups[i].Pricing = b
		breakdowns[i] = b
	}
	s.sellerGroups = groups
	s.pricing = engine.ComputeAggregate(breakdowns)
	return nil
}

// GroupBySeller keeps the first-seen seller order of the cart.
func GroupBySeller(items []Item, sellers map[uuid.UUID]SellerProfile) ([]SellerGroup, error) {
	var groups []SellerGroup
	idx := make(map[uuid.UUID]int)
	for _, it := range items {
		profile, ok := sellers[it.SellerID]
		if !ok {
			return nil, ErrUnknownSeller
		}
		i, seen := idx[it.SellerID]
		if !seen {
			i = len(groups)
			idx[it.SellerID] = i
			groups = append(groups, SellerGroup{SellerID: it.SellerID, ShopName: profile.ShopName})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	if len(groups) == 0 {
		return nil, ErrNoItems
	}
	return groups, nil
}

// AdvanceVersion is called by the repository after a successful optimistic write.
func (s *Session) AdvanceVersion() { s.version++ }

func (s *Session) Item(listingID uuid.UUID) (Item, bool) {
	for _, it := range s.items {
		if it.ListingID == listingID {
			return it, true
		}
	}
	return Item{}, false
}

func (s *Session) SellerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.sellerGroups))
	for _, g := range s.sellerGroups {
		ids = append(ids, g.SellerID)
	}
	return ids
}

func (s *Session) ID() uuid.UUID                          { return s.id }
func (s *Session) UserID() uuid.UUID                      { return s.userID }
func (s *Session) Type() SessionType                      { return s.sessionType }
func (s *Session) Items() []Item                          { return slices.Clone(s.items) }
func (s *Session) SellerGroups() []SellerGroup            { return slices.Clone(s.sellerGroups) }
func (s *Session) Pricing() pricing.Breakdown             { return s.pricing }
func (s *Session) DeliveryMethod() pricing.DeliveryMethod { return s.deliveryMethod }
func (s *Session) DeliveryAddress() *Address              { return s.deliveryAddress }
func (s *Session) PaymentMethod() pricing.PaymentMethod   { return s.paymentMethod }
func (s *Session) PaymentIntentRef() string               { return s.paymentIntentRef }
func (s *Session) Status() Status                         { return s.status }
func (s *Session) ReservationIDs() []uuid.UUID            { return slices.Clone(s.reservationIDs) }
func (s *Session) OrderIDs() []uuid.UUID                  { return slices.Clone(s.orderIDs) }
func (s *Session) CreatedAt() time.Time                   { return s.createdAt }
func (s *Session) UpdatedAt() time.Time                   { return s.updatedAt }
func (s *Session) ExpiresAt() time.Time                   { return s.expiresAt }
func (s *Session) Version() int                           { return s.version }
