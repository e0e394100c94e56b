package order

import (
	"errors"

	"marketplace-checkout/internal/pkg/errs"
)

var ErrInvalidStatus = errors.New("invalid order status")

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// Intermediate states may be skipped but never reversed. Nothing leaves
// completed, cancelled or refunded.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusProcessing, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCompleted, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCompleted},
	StatusDelivered:  {StatusCompleted},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
	StatusRefunded:   nil,
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses lists the legal targets from s.
func (s Status) NextStatuses() []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// ValidateTransition returns an ErrInvalidStatusTransition domain error.
func ValidateTransition(from, to Status) error {
	if !to.IsValid() || !from.CanTransitionTo(to) {
		return errs.NewInvalidTransition(from.String(), to.String())
	}
	return nil
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) String() string { return string(p) }
