package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderWindow_Contains(t *testing.T) {
	now := time.Date(2026, 5, 10, 2, 0, 0, 0, time.UTC)
	w := DefaultReminderWindow()
	day := 24 * time.Hour

	tests := []struct {
		name string
		end  time.Time
		want bool
	}{
		{"six days ahead", now.Add(6 * day), true},
		{"five days ahead", now.Add(5 * day), true},
		{"eight days ahead", now.Add(8 * day), false},
		{"twelve hours ahead", now.Add(12 * time.Hour), false},
		{"exactly one day is excluded", now.Add(day), false},
		{"exactly seven days is excluded", now.Add(7 * day), false},
		{"already past", now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(now, tt.end))
		})
	}
}

func TestNewReminderWindow_Invalid(t *testing.T) {
	_, err := NewReminderWindow(48*time.Hour, 24*time.Hour)
	assert.Error(t, err)

	_, err = NewReminderWindow(-time.Hour, time.Hour)
	assert.Error(t, err)

	w, err := NewReminderWindow(0, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, w.Min())
	assert.Equal(t, time.Hour, w.Max())
}

func TestSubscriptionStatus_Transitions(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusExpired))
	assert.False(t, StatusExpired.CanTransitionTo(StatusActive))
	assert.False(t, StatusActive.CanTransitionTo(StatusActive))
	assert.False(t, StatusExpired.CanTransitionTo(StatusExpired))
}
