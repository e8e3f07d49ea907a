package entitlement

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go"
)

// Fetcher is the read side of the gateway needed by the watcher.
type Fetcher interface {
	Fetch(ctx context.Context, token, userID string) (Entitlement, error)
}

// Watcher notifies subscribers when a user's entitlement record changes.
// The transport is polling; subscribers only display the value, so
// last-write-wins is acceptable when a manual refetch races a poll.
type Watcher struct {
	fetcher  Fetcher
	token    string
	userID   string
	interval time.Duration

	mu          sync.Mutex
	subscribers []func(Entitlement)
	last        *Entitlement
}

func NewWatcher(fetcher Fetcher, token, userID string, interval time.Duration) *Watcher {
	return &Watcher{
		fetcher:  fetcher,
		token:    token,
		userID:   userID,
		interval: interval,
	}
}

// Subscribe registers a callback invoked on every observed change,
// including the first successful poll.
func (w *Watcher) Subscribe(fn func(Entitlement)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// Run polls until the context is cancelled. Transient fetch failures are
// retried with backoff and otherwise skipped; they never stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("entitlement poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	var current Entitlement
	if err := retry.Do(
		func() error {
			fetched, err := w.fetcher.Fetch(ctx, w.token, w.userID)
			if err != nil {
				return err
			}
			current = fetched
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
	); err != nil {
		return err
	}

	w.mu.Lock()
	changed := w.last == nil || *w.last != current
	w.last = &current
	subscribers := make([]func(Entitlement), len(w.subscribers))
	copy(subscribers, w.subscribers)
	w.mu.Unlock()

	if changed {
		for _, fn := range subscribers {
			fn(current)
		}
	}
	return nil
}
