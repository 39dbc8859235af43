package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/domain/subscription"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

func TestSubscriptionRepository_CreateAndGet(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	sub, err := subscription.NewSubscription(3, 4, repoNow, repoNow.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sub))
	require.NotZero(t, sub.ID())

	got, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.VendorID())
	assert.Equal(t, vo.StatusActive, got.Status())
	assert.True(t, got.EndDate().Equal(sub.EndDate()))

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)
}

func TestSubscriptionRepository_FindRenewalReminderCandidates(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())
	window := vo.DefaultReminderWindow()
	from, to := window.Bounds(repoNow)

	inWindow := insertSubscription(t, gdb, 1, "active", repoNow.AddDate(0, 0, 6), false)
	insertSubscription(t, gdb, 2, "active", repoNow.AddDate(0, 0, 6), true)
	insertSubscription(t, gdb, 3, "active", repoNow.AddDate(0, 0, 8), false)
	insertSubscription(t, gdb, 4, "active", repoNow.Add(12*time.Hour), false)
	insertSubscription(t, gdb, 5, "expired", repoNow.AddDate(0, 0, 5), false)
	insertSubscription(t, gdb, 6, "active", repoNow.AddDate(0, 0, 7), false)

	got, err := repo.FindRenewalReminderCandidates(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inWindow.ID, got[0].ID())
}

func TestSubscriptionRepository_FindExpiredActive(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())

	past := insertSubscription(t, gdb, 1, "active", repoNow.Add(-time.Hour), false)
	insertSubscription(t, gdb, 2, "active", repoNow.Add(time.Hour), false)
	insertSubscription(t, gdb, 3, "expired", repoNow.AddDate(0, 0, -3), true)

	got, err := repo.FindExpiredActive(context.Background(), repoNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, past.ID, got[0].ID())
}

func TestSubscriptionRepository_ReminderClaimLifecycle(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()
	m := insertSubscription(t, gdb, 1, "active", repoNow.AddDate(0, 0, 5), false)
	lease := repoNow.Add(15 * time.Minute)

	t.Run("first claim wins, second loses while lease is live", func(t *testing.T) {
		ok, err := repo.ClaimRenewalReminder(ctx, m.ID, repoNow, lease)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ClaimRenewalReminder(ctx, m.ID, repoNow.Add(time.Minute), lease)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("release lets the next pass claim again", func(t *testing.T) {
		require.NoError(t, repo.ReleaseRenewalReminderClaim(ctx, m.ID))
		assert.Nil(t, reloadSubscription(t, gdb, m.ID).ReminderClaimedUntil)

		ok, err := repo.ClaimRenewalReminder(ctx, m.ID, repoNow, lease)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired lease can be taken over", func(t *testing.T) {
		ok, err := repo.ClaimRenewalReminder(ctx, m.ID, lease.Add(time.Second), lease.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mark notified is sticky and blocks further claims", func(t *testing.T) {
		ok, err := repo.MarkRenewalNotified(ctx, m.ID, repoNow)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.MarkRenewalNotified(ctx, m.ID, repoNow)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, repo.ReleaseRenewalReminderClaim(ctx, m.ID))
		reloaded := reloadSubscription(t, gdb, m.ID)
		assert.True(t, reloaded.RenewalNotified)
		assert.Nil(t, reloaded.ReminderClaimedUntil)

		ok, err = repo.ClaimRenewalReminder(ctx, m.ID, repoNow.AddDate(0, 0, 1), repoNow.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSubscriptionRepository_TransitionStatus_SingleWinner(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())
	m := insertSubscription(t, gdb, 1, "active", repoNow.Add(-time.Hour), false)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.TransitionStatus(context.Background(), m.ID, vo.StatusActive, vo.StatusExpired, repoNow)
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	reloaded := reloadSubscription(t, gdb, m.ID)
	assert.Equal(t, "expired", reloaded.Status)
	require.NotNil(t, reloaded.ExpiredAt)
}

func TestSubscriptionRepository_TransitionStatus_NoWayBack(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())
	m := insertSubscription(t, gdb, 1, "expired", repoNow.Add(-time.Hour), false)

	ok, err := repo.TransitionStatus(context.Background(), m.ID, vo.StatusExpired, vo.StatusActive, repoNow)
	assert.ErrorIs(t, err, subscription.ErrInvalidStatusTransition)
	assert.False(t, ok)
	assert.Equal(t, "expired", reloadSubscription(t, gdb, m.ID).Status)
}

func TestSubscriptionRepository_TransitionStatus_RollsBackWithTransaction(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())
	txm := db.NewTransactionManager(gdb)
	m := insertSubscription(t, gdb, 1, "active", repoNow.Add(-time.Hour), false)

	err := txm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		ok, err := repo.TransitionStatus(ctx, m.ID, vo.StatusActive, vo.StatusExpired, repoNow)
		require.NoError(t, err)
		require.True(t, ok)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "active", reloadSubscription(t, gdb, m.ID).Status)
}

func TestSubscriptionRepository_HasOtherActiveSubscription(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	old := insertSubscription(t, gdb, 1, "active", repoNow.Add(-time.Hour), true)
	has, err := repo.HasOtherActiveSubscription(ctx, 1, old.ID, repoNow)
	require.NoError(t, err)
	assert.False(t, has)

	insertSubscription(t, gdb, 1, "active", repoNow.AddDate(0, 1, 0), false)
	has, err = repo.HasOtherActiveSubscription(ctx, 1, old.ID, repoNow)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasOtherActiveSubscription(ctx, 2, 0, repoNow)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSubscriptionRepository_SummaryCounts(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	insertSubscription(t, gdb, 1, "active", repoNow.AddDate(0, 0, 3), false)
	insertSubscription(t, gdb, 2, "active", repoNow.AddDate(0, 0, 20), false)
	insertSubscription(t, gdb, 3, "active", repoNow.AddDate(0, 0, 45), false)
	insertSubscription(t, gdb, 4, "expired", repoNow.AddDate(0, 0, -2), true)
	insertSubscription(t, gdb, 5, "expired", repoNow.AddDate(0, 0, -40), true)

	in7, err := repo.CountActiveEndingBetween(ctx, repoNow, repoNow.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), in7)

	in30, err := repo.CountActiveEndingBetween(ctx, repoNow, repoNow.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), in30)

	expired, err := repo.CountByStatus(ctx, vo.StatusExpired)
	require.NoError(t, err)
	assert.Equal(t, int64(2), expired)
}
