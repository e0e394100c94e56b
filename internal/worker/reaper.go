package worker

import (
	"context"
	"log/slog"
	"time"
)

// SessionSweeper is the part of the checkout commands the reaper drives.
type SessionSweeper interface {
	ExpireOverdue(ctx context.Context, limit int) (int, error)
	PurgeTerminal(ctx context.Context, retention time.Duration, limit int) (int64, error)
}

// Reaper expires overdue checkout sessions, returning their held stock, and
// deletes terminal sessions older than the retention window.
type Reaper struct {
	loop
	sweeper   SessionSweeper
	batch     int
	retention time.Duration
}

func NewReaper(sweeper SessionSweeper, interval time.Duration, batch int, retention time.Duration) *Reaper {
	r := &Reaper{sweeper: sweeper, batch: batch, retention: retention}
	r.loop = loop{name: "checkout-reaper", interval: interval, tick: func(ctx context.Context) { r.RunOnce(ctx) }}
	return r
}

// RunOnce drains overdue sessions batch by batch, then purges once.
func (r *Reaper) RunOnce(ctx context.Context) {
	total := 0
	for ctx.Err() == nil {
		n, err := r.sweeper.ExpireOverdue(ctx, r.batch)
		if err != nil {
			slog.Error("failed to expire overdue sessions", "error", err.Error())
			break
		}
		total += n
		if n < r.batch {
			break
		}
	}
	if total > 0 {
		slog.Info("expired overdue checkout sessions", "count", total)
	}
	if ctx.Err() != nil || r.retention <= 0 {
		return
	}

	purged, err := r.sweeper.PurgeTerminal(ctx, r.retention, r.batch)
	if err != nil {
		slog.Error("failed to purge terminal sessions", "error", err.Error())
		return
	}
	if purged > 0 {
		slog.Info("purged terminal checkout sessions", "count", purged)
	}
}
