package queries

import (
	"context"
	"log/slog"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrSessionAccess = &errs.DomainError{Kind: errs.ErrForbidden, Field: "session_id", Message: "session belongs to another user"}

// SessionExpirer records the expiry of an overdue session and releases its stock.
type SessionExpirer interface {
	Expire(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/queries/mock_checkout.go -package=queriesmock

type CheckoutQueries interface {
	Get(ctx context.Context, actor identity.Actor, sessionID uuid.UUID) (*checkout.Session, error)
	GetActive(ctx context.Context, actor identity.Actor) (*checkout.Session, error)
}

type checkoutQueriesImpl struct {
	uow     shared.UnitOfWork
	expirer SessionExpirer
	clock   clock.Clock
}

func NewCheckoutQueries(uow shared.UnitOfWork, expirer SessionExpirer, clk clock.Clock) CheckoutQueries {
	return &checkoutQueriesImpl{uow: uow, expirer: expirer, clock: clk}
}

func (q *checkoutQueriesImpl) Get(ctx context.Context, actor identity.Actor, sessionID uuid.UUID) (*checkout.Session, error) {
	s, err := q.load(ctx, func(ctx context.Context, tx shared.Tx) (*checkout.Session, error) {
		return tx.Sessions().FindByID(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	if s.UserID() != actor.UserID && !actor.IsAdmin() {
		return nil, ErrSessionAccess
	}
	return q.applyExpiry(ctx, s)
}

// GetActive reports ErrSessionNotFound once the active session has expired.
func (q *checkoutQueriesImpl) GetActive(ctx context.Context, actor identity.Actor) (*checkout.Session, error) {
	s, err := q.load(ctx, func(ctx context.Context, tx shared.Tx) (*checkout.Session, error) {
		return tx.Sessions().FindActiveByUser(ctx, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	s, err = q.applyExpiry(ctx, s)
	if err != nil {
		return nil, err
	}
	if !s.EffectiveStatus(q.clock.Now()).IsActive() {
		return nil, errs.ErrSessionNotFound
	}
	return s, nil
}

func (q *checkoutQueriesImpl) load(ctx context.Context, find func(ctx context.Context, tx shared.Tx) (*checkout.Session, error)) (*checkout.Session, error) {
	var s *checkout.Session
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var ferr error
		s, ferr = find(ctx, tx)
		return ferr
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// applyExpiry writes the expiry of an overdue session before returning it.
// When that write fails the caller still sees the session as expired through
// EffectiveStatus.
func (q *checkoutQueriesImpl) applyExpiry(ctx context.Context, s *checkout.Session) (*checkout.Session, error) {
	if !s.NeedsExpiry(q.clock.Now()) {
		return s, nil
	}
	if _, err := q.expirer.Expire(ctx, s.ID()); err != nil {
		slog.Warn("passive expiry failed", "session_id", s.ID(), "error", err.Error())
		return s, nil
	}
	return q.load(ctx, func(ctx context.Context, tx shared.Tx) (*checkout.Session, error) {
		return tx.Sessions().FindByID(ctx, s.ID())
	})
}
