package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regportal/internal/models"
	"regportal/internal/storage"
)

func TestSweeperRun(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sweeper := NewSweeper(store, time.Hour, WithClock(func() time.Time { return now }))

	seedTokens := []*models.VerificationToken{
		{Identifier: "a@example.com", Token: "live", Type: models.TokenTypeEmailVerification, Expires: now.Add(time.Hour)},
		{Identifier: "b@example.com", Token: "dead-1", Type: models.TokenTypeEmailVerification, Expires: now.Add(-time.Minute)},
		{Identifier: "c@example.com", Token: "dead-2", Type: models.TokenTypePasswordReset, Expires: now.Add(-time.Hour)},
	}
	for _, tok := range seedTokens {
		require.NoError(t, store.CreateVerificationToken(ctx, tok))
	}
	require.NoError(t, store.CreateSession(ctx, &models.Session{
		TokenHash: "live", UserID: "u-1", Expires: now.Add(time.Hour), CreatedAt: now,
	}))
	require.NoError(t, store.CreateSession(ctx, &models.Session{
		TokenHash: "dead", UserID: "u-1", Expires: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour),
	}))

	counts, err := sweeper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Tokens)
	assert.Equal(t, int64(1), counts.Sessions)

	// Live rows survive.
	_, err = store.GetVerificationToken(ctx, "live")
	assert.NoError(t, err)
	_, err = store.GetSession(ctx, "live")
	assert.NoError(t, err)
	_, err = store.GetVerificationToken(ctx, "dead-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	t.Run("second run finds nothing", func(t *testing.T) {
		counts, err := sweeper.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), counts.Tokens)
		assert.Equal(t, int64(0), counts.Sessions)
	})
}

func TestSweeperBackgroundLoop(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.CreateVerificationToken(ctx, &models.VerificationToken{
		Identifier: "a@example.com", Token: "dead", Type: models.TokenTypePasswordReset,
		Expires: time.Now().Add(-time.Hour),
	}))

	sweeper := NewSweeper(store, 10*time.Millisecond)
	sweeper.Start()

	assert.Eventually(t, func() bool {
		_, err := store.GetVerificationToken(ctx, "dead")
		return err != nil
	}, time.Second, 5*time.Millisecond)

	sweeper.Close()
	sweeper.Close() // double close is safe
}
