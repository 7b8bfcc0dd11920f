// Package cleanup reclaims expired credential tokens and sessions. The
// sweep runs on a background ticker and can also be triggered on demand
// through the cron endpoint, so deployments without a long-running process
// can drive it from an external scheduler.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"regportal/internal/models"
	"regportal/internal/storage"
)

// Sweeper deletes expired rows from storage.
type Sweeper struct {
	store    storage.Storage
	interval time.Duration
	now      func() time.Time

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures optional Sweeper behavior.
type Option func(*Sweeper)

// WithClock replaces the sweeper's time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// NewSweeper creates a sweeper. It does not start anything; call Start for
// the background loop or Run for a single on-demand sweep.
func NewSweeper(store storage.Storage, interval time.Duration, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs a single sweep and returns the number of rows removed per
// category. Partial failures abort the sweep; the next run picks up the
// remainder.
func (s *Sweeper) Run(ctx context.Context) (models.CleanupCounts, error) {
	now := s.now().UTC()
	var counts models.CleanupCounts

	tokens, err := s.store.DeleteExpiredVerificationTokens(ctx, now)
	if err != nil {
		return counts, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	counts.Tokens = tokens

	sessions, err := s.store.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return counts, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	counts.Sessions = sessions

	slog.InfoContext(ctx, "cleanup sweep completed",
		"tokens_removed", counts.Tokens,
		"sessions_removed", counts.Sessions)
	return counts, nil
}

// Start launches the background sweep loop.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.Run(context.Background()); err != nil {
					slog.Error("background cleanup sweep failed", "error", err)
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Close stops the background loop and waits for an in-flight sweep to
// finish. Safe to call more than once.
func (s *Sweeper) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
