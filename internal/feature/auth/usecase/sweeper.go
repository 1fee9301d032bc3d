package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// TokenSweeper deletes verification tokens that can no longer be redeemed.
// Expired rows are never matched again, so sweeping only bounds table growth.
type TokenSweeper struct {
	store CredentialStore
	now   func() time.Time
}

// NewTokenSweeper creates a TokenSweeper over store.
func NewTokenSweeper(store CredentialStore) *TokenSweeper {
	return &TokenSweeper{store: store, now: time.Now}
}

// SweepOnce deletes expired or used tokens and returns how many were removed.
func (s *TokenSweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return n, nil
}

// Run sweeps every interval until ctx is cancelled. Failed sweeps are logged and retried on the next tick.
func (s *TokenSweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				slog.Error("token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("token sweep removed rows", "count", n)
			}
		}
	}
}
