package repository

import (
	"context"
	"time"

	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/db"
	"marketplace-checkout/internal/pkg/pgconv"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	enqueueOutboxSQL = `
INSERT INTO outbox_events (id, topic, event_key, payload, created_at)
VALUES ($1, $2, $3, $4, $5)`

	// SKIP LOCKED lets several relays drain the table without double sends.
	fetchUnpublishedSQL = `
SELECT id, topic, event_key, payload, created_at, published_at
FROM outbox_events
WHERE published_at IS NULL
ORDER BY created_at, id
LIMIT $1
FOR UPDATE SKIP LOCKED`

	markPublishedSQL = `
UPDATE outbox_events
SET published_at = $2
WHERE id = ANY($1) AND published_at IS NULL`
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(db db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, e shared.OutboxEvent) error {
	_, err := r.db.Exec(ctx, enqueueOutboxSQL, e.ID, e.Topic, e.Key, []byte(e.Payload), e.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

func (r *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]shared.OutboxEvent, error) {
	rows, err := r.db.Query(ctx, fetchUnpublishedSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to fetch outbox events", err)
	}
	defer rows.Close()

	var out []shared.OutboxEvent
	for rows.Next() {
		var (
			e           shared.OutboxEvent
			payload     []byte
			publishedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&e.ID, &e.Topic, &e.Key, &payload, &e.CreatedAt, &publishedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		e.Payload = payload
		e.PublishedAt = pgconv.TimePtrFromPgtype(publishedAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to fetch outbox events", err)
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, markPublishedSQL, pgconv.UUIDArray(ids), at); err != nil {
		return infra.WrapRepoErr("failed to mark outbox events published", err)
	}
	return nil
}
