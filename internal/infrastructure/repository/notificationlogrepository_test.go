package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

func TestNotificationLogRepository_RecordAndList(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewNotificationLogRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	msg := notification.ReminderMessage{SubscriptionID: 5, VendorID: 2, PlanName: "Gold", ExpiryDate: repoNow}
	require.NoError(t, repo.Record(ctx, &notification.DeliveryRecord{
		Kind:           notification.KindRenewalReminder,
		SubscriptionID: 5,
		VendorID:       2,
		Success:        false,
		Error:          strings.Repeat("x", 2000),
		Payload:        msg,
	}))
	require.NoError(t, repo.Record(ctx, &notification.DeliveryRecord{
		Kind:           notification.KindRenewalReminder,
		SubscriptionID: 5,
		VendorID:       2,
		Success:        true,
		Payload:        msg,
	}))

	records, err := repo.ListBySubscription(ctx, 5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.False(t, records[0].Success)
	assert.Len(t, records[0].Error, 1000)
	assert.True(t, records[1].Success)

	var decoded notification.ReminderMessage
	raw, ok := records[1].Payload.(json.RawMessage)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Gold", decoded.PlanName)
}
