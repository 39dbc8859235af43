package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/mappers"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
	"github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
	"github.com/leadhub/leadhub/internal/shared/mapper"
)

type NotificationLogRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewNotificationLogRepository(db *gorm.DB, logger logger.Interface) notification.DeliveryLogRepository {
	return &NotificationLogRepositoryImpl{db: db, logger: logger}
}

func (r *NotificationLogRepositoryImpl) Record(ctx context.Context, record *notification.DeliveryRecord) error {
	model, err := mappers.DeliveryRecordToModel(record)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to record notification delivery",
			"kind", record.Kind, "subscription_id", record.SubscriptionID, "error", err)
		return fmt.Errorf("failed to record notification delivery: %w", err)
	}

	record.ID = model.ID
	record.CreatedAt = model.CreatedAt
	return nil
}

func (r *NotificationLogRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*notification.DeliveryRecord, error) {
	var ms []*models.NotificationLogModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("id ASC").
		Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list notification deliveries: %w", err)
	}

	return mapper.MapSliceWithError(ms, func(m *models.NotificationLogModel) (*notification.DeliveryRecord, error) {
		return mappers.DeliveryRecordToEntity(m), nil
	})
}
