package auth

import (
	"context"
	"log/slog"
	"time"
)

// Reaper periodically purges expired session rows. It is an explicit task
// handle injected at startup rather than an ambient singleton: main starts
// it on its own goroutine and joins it during shutdown so the final pass is
// never cut off mid-delete.
type Reaper struct {
	store    SessionStore
	interval time.Duration
	done     chan struct{}
}

// NewReaper creates a reaper over the given session store. interval is how
// often a pass runs.
func NewReaper(store SessionStore, interval time.Duration) *Reaper {
	return &Reaper{
		store:    store,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Run ticks until ctx is cancelled, deleting expired sessions on each tick.
// A failed pass is logged and retried on the next tick; it never kills the
// task. The reaper shares only the store with request handling, so it can
// never block a request.
func (r *Reaper) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("session reaper started", slog.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("session reaper stopping")
			return
		case <-ticker.C:
			r.reap()
		}
	}
}

// Wait blocks until the reaper has fully stopped or the context expires.
// Used by the shutdown sequence to bound the graceful drain.
func (r *Reaper) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reap runs a single deletion pass. The pass uses its own timeout so a
// wedged store cannot stall the loop forever.
func (r *Reaper) reap() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := r.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		slog.Error("session reap pass failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		slog.Debug("reaped expired sessions", slog.Int64("count", n))
	}
}
