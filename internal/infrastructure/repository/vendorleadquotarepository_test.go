package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/domain/quota"
	"github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

func TestVendorLeadQuotaRepository_ResetForVendor(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewVendorLeadQuotaRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()
	insertQuota(t, gdb, 7, 4)
	insertQuota(t, gdb, 8, 4)

	require.NoError(t, repo.ResetForVendor(ctx, 7, repoNow))

	q, err := repo.GetByVendorID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, q.IsZero())
	assert.True(t, q.UpdatedAt().Equal(repoNow), "updated_at is stamped with the reset time")

	other, err := repo.GetByVendorID(ctx, 8)
	require.NoError(t, err)
	assert.False(t, other.IsZero())

	// idempotent
	require.NoError(t, repo.ResetForVendor(ctx, 7, repoNow.Add(time.Minute)))
	q, err = repo.GetByVendorID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, q.IsZero())
	assert.True(t, q.UpdatedAt().Equal(repoNow.Add(time.Minute)))
}

func TestVendorLeadQuotaRepository_ResetInsideTransactionRollsBack(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewVendorLeadQuotaRepository(gdb, logger.NewNopLogger())
	insertQuota(t, gdb, 7, 4)

	err := db.NewTransactionManager(gdb).RunInTransaction(context.Background(), func(txCtx context.Context) error {
		require.NoError(t, repo.ResetForVendor(txCtx, 7, repoNow))
		return errors.New("abort")
	})
	require.Error(t, err)

	q, err := repo.GetByVendorID(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, q.IsZero())
}

func TestVendorLeadQuotaRepository_ResetMissingRowIsNotAnError(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewVendorLeadQuotaRepository(gdb, logger.NewNopLogger())

	assert.NoError(t, repo.ResetForVendor(context.Background(), 404, repoNow))

	_, err := repo.GetByVendorID(context.Background(), 404)
	assert.ErrorIs(t, err, quota.ErrQuotaNotFound)
}

func TestVendorLeadQuotaRepository_CreateRoundTrip(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewVendorLeadQuotaRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	q, err := quota.NewVendorLeadQuota(9, quota.Counters{DailyLimit: 5, WeeklyLimit: 20, YearlyLimit: 100})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, q))
	assert.NotZero(t, q.ID())

	got, err := repo.GetByVendorID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, q.Counters(), got.Counters())
}

func TestVendorLeadQuotaRepository_FindVendorsNeedingReset(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewVendorLeadQuotaRepository(gdb, logger.NewNopLogger())

	// vendor 1: expired, nothing active, quota left over -> heal
	insertSubscription(t, gdb, 1, "expired", repoNow.AddDate(0, 0, -2), true)
	insertQuota(t, gdb, 1, 3)

	// vendor 2: expired but renewed -> keep
	insertSubscription(t, gdb, 2, "expired", repoNow.AddDate(0, 0, -2), true)
	insertSubscription(t, gdb, 2, "active", repoNow.AddDate(0, 1, 0), false)
	insertQuota(t, gdb, 2, 3)

	// vendor 3: expired and already zeroed -> nothing to do
	insertSubscription(t, gdb, 3, "expired", repoNow.AddDate(0, 0, -2), true)
	insertQuota(t, gdb, 3, 3)
	require.NoError(t, repo.ResetForVendor(context.Background(), 3, repoNow))

	// vendor 4: only active -> keep
	insertSubscription(t, gdb, 4, "active", repoNow.AddDate(0, 1, 0), false)
	insertQuota(t, gdb, 4, 3)

	ids, err := repo.FindVendorsNeedingReset(context.Background(), repoNow)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)
}
