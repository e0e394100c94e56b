package errs

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Checkout pipeline error taxonomy. Callers match with errors.Is.
var (
	ErrValidation              = errors.New("validation error")
	ErrItemUnavailable         = errors.New("item unavailable")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrSessionExpired          = errors.New("checkout session expired")
	ErrSessionNotModifiable    = errors.New("checkout session not modifiable")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrPaymentGateway          = errors.New("payment gateway error")
	ErrOrderCreation           = errors.New("order creation failed")

	ErrSessionNotFound     = errors.New("checkout session not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrListingNotFound     = errors.New("listing not found")
	ErrReservationNotFound = errors.New("stock reservation not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("concurrent modification")

	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

// DomainError carries the offending field or listing so the caller can
// render a precise message. Unwrap yields Kind.
type DomainError struct {
	Kind      error
	Field     string
	ListingID uuid.UUID
	Requested int
	Available int
	Message   string
}

func (e *DomainError) Error() string {
	switch {
	case e.ListingID != uuid.Nil && e.Kind == ErrInsufficientStock:
		return fmt.Sprintf("%s: listing %s requested %d, available %d", e.Kind, e.ListingID, e.Requested, e.Available)
	case e.ListingID != uuid.Nil:
		return fmt.Sprintf("%s: listing %s: %s", e.Kind, e.ListingID, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *DomainError) Unwrap() error { return e.Kind }

func NewValidation(field, msg string) error {
	return &DomainError{Kind: ErrValidation, Field: field, Message: msg}
}

func NewItemUnavailable(listingID uuid.UUID, msg string) error {
	return &DomainError{Kind: ErrItemUnavailable, ListingID: listingID, Message: msg}
}

func NewInsufficientStock(listingID uuid.UUID, requested, available int) error {
	return &DomainError{
		Kind:      ErrInsufficientStock,
		ListingID: listingID,
		Requested: requested,
		Available: available,
		Message:   "reduce quantity",
	}
}

func NewInvalidTransition(from, to string) error {
	return &DomainError{
		Kind:    ErrInvalidStatusTransition,
		Field:   "status",
		Message: fmt.Sprintf("cannot move from %s to %s", from, to),
	}
}

// AsDomainError extracts the structured error, if any, from a wrapped chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
