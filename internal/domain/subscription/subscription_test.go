package subscription

import (
	"testing"
	"time"

	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

var testNow = time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

func reconstructSubscription(t *testing.T, status vo.SubscriptionStatus, endDate time.Time, notified bool) *Subscription {
	t.Helper()
	sub, err := ReconstructSubscription(SubscriptionReconstructParams{
		ID:              1,
		VendorID:        10,
		PlanID:          100,
		Status:          status,
		StartDate:       endDate.AddDate(0, -1, 0),
		EndDate:         endDate,
		RenewalNotified: notified,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	})
	require.NoError(t, err)
	return sub
}

// --- NewSubscription ---

func TestNewSubscription_StartsActiveAndNotNotified(t *testing.T) {
	sub, err := NewSubscription(1, 2, testNow, testNow.AddDate(0, 1, 0))
	require.NoError(t, err)

	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.False(t, sub.RenewalNotified())
	assert.Nil(t, sub.ExpiredAt())
	assert.Zero(t, sub.ID())
}

func TestNewSubscription_RejectsInvertedPeriod(t *testing.T) {
	_, err := NewSubscription(1, 2, testNow, testNow)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = NewSubscription(1, 2, testNow, testNow.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestNewSubscription_RequiresVendorAndPlan(t *testing.T) {
	_, err := NewSubscription(0, 2, testNow, testNow.AddDate(0, 1, 0))
	assert.Error(t, err)

	_, err = NewSubscription(1, 0, testNow, testNow.AddDate(0, 1, 0))
	assert.Error(t, err)
}

func TestReconstructSubscription_RejectsUnknownStatus(t *testing.T) {
	_, err := ReconstructSubscription(SubscriptionReconstructParams{
		ID:        1,
		VendorID:  1,
		Status:    vo.SubscriptionStatus("paused"),
		StartDate: testNow,
		EndDate:   testNow.AddDate(0, 1, 0),
	})
	assert.Error(t, err)
}

func TestSetID(t *testing.T) {
	sub, err := NewSubscription(1, 2, testNow, testNow.AddDate(0, 1, 0))
	require.NoError(t, err)

	require.NoError(t, sub.SetID(42))
	assert.Equal(t, uint(42), sub.ID())
	assert.Error(t, sub.SetID(43))
}

// --- reminder eligibility ---

func TestIsRenewalReminderDue(t *testing.T) {
	window := vo.DefaultReminderWindow()

	tests := []struct {
		name     string
		status   vo.SubscriptionStatus
		end      time.Time
		notified bool
		want     bool
	}{
		{"six days out", vo.StatusActive, testNow.AddDate(0, 0, 6), false, true},
		{"already notified", vo.StatusActive, testNow.AddDate(0, 0, 6), true, false},
		{"eight days out", vo.StatusActive, testNow.AddDate(0, 0, 8), false, false},
		{"twelve hours out", vo.StatusActive, testNow.Add(12 * time.Hour), false, false},
		{"expired status", vo.StatusExpired, testNow.AddDate(0, 0, 6), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := reconstructSubscription(t, tt.status, tt.end, tt.notified)
			assert.Equal(t, tt.want, sub.IsRenewalReminderDue(testNow, window))
		})
	}
}

func TestMarkRenewalNotified_IsSticky(t *testing.T) {
	sub := reconstructSubscription(t, vo.StatusActive, testNow.AddDate(0, 0, 5), false)

	require.NoError(t, sub.MarkRenewalNotified(testNow))
	assert.True(t, sub.RenewalNotified())
	assert.Nil(t, sub.ReminderClaimedUntil())

	assert.ErrorIs(t, sub.MarkRenewalNotified(testNow), ErrRenewalAlreadyNotified)
	assert.True(t, sub.RenewalNotified())
}

func TestMarkRenewalNotified_RejectsExpired(t *testing.T) {
	sub := reconstructSubscription(t, vo.StatusExpired, testNow.AddDate(0, 0, -1), false)
	assert.ErrorIs(t, sub.MarkRenewalNotified(testNow), ErrSubscriptionExpired)
}

// --- expiration ---

func TestIsPastEnd(t *testing.T) {
	past := reconstructSubscription(t, vo.StatusActive, testNow.Add(-time.Hour), false)
	assert.True(t, past.IsPastEnd(testNow))

	future := reconstructSubscription(t, vo.StatusActive, testNow.Add(time.Hour), false)
	assert.False(t, future.IsPastEnd(testNow))

	done := reconstructSubscription(t, vo.StatusExpired, testNow.Add(-time.Hour), false)
	assert.False(t, done.IsPastEnd(testNow))
}

func TestMarkAsExpired(t *testing.T) {
	sub := reconstructSubscription(t, vo.StatusActive, testNow.Add(-time.Hour), true)

	require.NoError(t, sub.MarkAsExpired(testNow))
	assert.Equal(t, vo.StatusExpired, sub.Status())
	require.NotNil(t, sub.ExpiredAt())
	assert.Equal(t, testNow, *sub.ExpiredAt())
	assert.True(t, sub.RenewalNotified())

	// second call keeps the original timestamp
	require.NoError(t, sub.MarkAsExpired(testNow.Add(time.Hour)))
	assert.Equal(t, testNow, *sub.ExpiredAt())
}
