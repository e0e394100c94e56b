// Package worker runs the periodic background jobs: the checkout reaper and
// the outbox relay.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// loop calls tick every interval until Stop. Start and Stop are meant to be
// bound to an fx lifecycle hook.
type loop struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (l *loop) Start(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		slog.Info("worker started", "worker", l.name, "interval", l.interval.String())
		for {
			select {
			case <-ctx.Done():
				slog.Info("worker stopped", "worker", l.name)
				return
			case <-ticker.C:
				l.tick(ctx)
			}
		}
	}()
	return nil
}

// Stop waits for an in-flight tick to return or for ctx to end.
func (l *loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
