package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

type ReservationStatus string

const (
	ReservationHeld      ReservationStatus = "held"
	ReservationReleased  ReservationStatus = "released"
	ReservationCommitted ReservationStatus = "committed"
)

func (s ReservationStatus) String() string {
	return string(s)
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationHeld, ReservationReleased, ReservationCommitted:
		return true
	default:
		return false
	}
}

// Reservation is a temporary hold against a listing's stock counter.
// The counter itself has already been decremented when a Reservation exists.
type Reservation struct {
	id          uuid.UUID
	sessionID   uuid.UUID
	listingID   uuid.UUID
	quantity    int
	status      ReservationStatus
	reservedAt  time.Time
	releasedAt  *time.Time
	committedAt *time.Time
}

func NewReservation(sessionID, listingID uuid.UUID, quantity int, now time.Time) (*Reservation, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Reservation{
		id:         uuid.New(),
		sessionID:  sessionID,
		listingID:  listingID,
		quantity:   quantity,
		status:     ReservationHeld,
		reservedAt: now,
	}, nil
}

func ReconstructReservation(
	id, sessionID, listingID uuid.UUID,
	quantity int,
	status ReservationStatus,
	reservedAt time.Time,
	releasedAt, committedAt *time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		sessionID:   sessionID,
		listingID:   listingID,
		quantity:    quantity,
		status:      status,
		reservedAt:  reservedAt,
		releasedAt:  releasedAt,
		committedAt: committedAt,
	}
}

func (r *Reservation) IsHeld() bool { return r.status == ReservationHeld }

func (r *Reservation) ID() uuid.UUID             { return r.id }
func (r *Reservation) SessionID() uuid.UUID      { return r.sessionID }
func (r *Reservation) ListingID() uuid.UUID      { return r.listingID }
func (r *Reservation) Quantity() int             { return r.quantity }
func (r *Reservation) Status() ReservationStatus { return r.status }
func (r *Reservation) ReservedAt() time.Time     { return r.reservedAt }
func (r *Reservation) ReleasedAt() *time.Time    { return r.releasedAt }
func (r *Reservation) CommittedAt() *time.Time   { return r.committedAt }
