package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
)

const maxDeliveryErrorLength = 1000

func DeliveryRecordToModel(record *notification.DeliveryRecord) (*models.NotificationLogModel, error) {
	if record == nil {
		return nil, nil
	}

	var payload datatypes.JSON
	if record.Payload != nil {
		raw, err := json.Marshal(record.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
		}
		payload = datatypes.JSON(raw)
	}

	errText := record.Error
	if len(errText) > maxDeliveryErrorLength {
		errText = errText[:maxDeliveryErrorLength]
	}

	return &models.NotificationLogModel{
		ID:             record.ID,
		Kind:           record.Kind.String(),
		SubscriptionID: record.SubscriptionID,
		VendorID:       record.VendorID,
		Success:        record.Success,
		Error:          errText,
		Payload:        payload,
		CreatedAt:      record.CreatedAt,
	}, nil
}

// DeliveryRecordToEntity leaves Payload as raw JSON.
func DeliveryRecordToEntity(model *models.NotificationLogModel) *notification.DeliveryRecord {
	if model == nil {
		return nil
	}
	return &notification.DeliveryRecord{
		ID:             model.ID,
		Kind:           notification.Kind(model.Kind),
		SubscriptionID: model.SubscriptionID,
		VendorID:       model.VendorID,
		Success:        model.Success,
		Error:          model.Error,
		Payload:        json.RawMessage(model.Payload),
		CreatedAt:      model.CreatedAt,
	}
}
