package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/leadhub/leadhub/internal/domain/subscription"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/mappers"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
	"github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := subscriptionEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Debugw("subscription created", "id", model.ID, "vendor_id", model.VendorID, "plan_id", model.PlanID)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) FindRenewalReminderCandidates(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	var ms []*models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND renewal_notified = ?", vo.StatusActive.String(), false).
		Where("end_date > ? AND end_date < ?", from.UTC(), to.UTC()).
		Order("end_date ASC, id ASC").
		Find(&ms).Error; err != nil {
		r.logger.Errorw("failed to find renewal reminder candidates", "from", from, "to", to, "error", err)
		return nil, fmt.Errorf("failed to find renewal reminder candidates: %w", err)
	}

	return r.mapper.ToEntities(ms)
}

func (r *SubscriptionRepositoryImpl) FindExpiredActive(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var ms []*models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND end_date < ?", vo.StatusActive.String(), now.UTC()).
		Order("end_date ASC, id ASC").
		Find(&ms).Error; err != nil {
		r.logger.Errorw("failed to find expired active subscriptions", "now", now, "error", err)
		return nil, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}

	return r.mapper.ToEntities(ms)
}

func (r *SubscriptionRepositoryImpl) ClaimRenewalReminder(ctx context.Context, id uint, now, until time.Time) (bool, error) {
	now = now.UTC()
	until = until.UTC()

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND status = ? AND renewal_notified = ?", id, vo.StatusActive.String(), false).
		Where("(reminder_claimed_until IS NULL OR reminder_claimed_until < ?)", now).
		Updates(map[string]interface{}{
			"reminder_claimed_until": until,
			"updated_at":             now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to claim renewal reminder", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to claim renewal reminder: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *SubscriptionRepositoryImpl) MarkRenewalNotified(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND renewal_notified = ?", id, false).
		Updates(map[string]interface{}{
			"renewal_notified":       true,
			"reminder_claimed_until": nil,
			"updated_at":             at.UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to mark renewal notified", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to mark renewal notified: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *SubscriptionRepositoryImpl) ReleaseRenewalReminderClaim(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND renewal_notified = ?", id, false).
		Update("reminder_claimed_until", nil)
	if result.Error != nil {
		r.logger.Errorw("failed to release renewal reminder claim", "id", id, "error", result.Error)
		return fmt.Errorf("failed to release renewal reminder claim: %w", result.Error)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) TransitionStatus(ctx context.Context, id uint, from, to vo.SubscriptionStatus, at time.Time) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, subscription.ErrInvalidTransition(from.String(), to.String())
	}

	at = at.UTC()
	updates := map[string]interface{}{
		"status":                 to.String(),
		"reminder_claimed_until": nil,
		"updated_at":             at,
	}
	if to == vo.StatusExpired {
		updates["expired_at"] = at
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Updates(updates)
	if result.Error != nil {
		r.logger.Errorw("failed to transition subscription status",
			"id", id, "from", from, "to", to, "error", result.Error)
		return false, fmt.Errorf("failed to transition subscription status: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *SubscriptionRepositoryImpl) HasOtherActiveSubscription(ctx context.Context, vendorID, excludeID uint, now time.Time) (bool, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("vendor_id = ? AND id <> ?", vendorID, excludeID).
		Where("status = ? AND end_date >= ?", vo.StatusActive.String(), now.UTC()).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check active subscriptions", "vendor_id", vendorID, "error", err)
		return false, fmt.Errorf("failed to check active subscriptions: %w", err)
	}

	return count > 0, nil
}

func (r *SubscriptionRepositoryImpl) CountActiveEndingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("status = ? AND end_date >= ? AND end_date <= ?", vo.StatusActive.String(), from.UTC(), to.UTC()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count expiring subscriptions: %w", err)
	}

	return count, nil
}

func (r *SubscriptionRepositoryImpl) CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("status = ?", status.String()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscriptions by status: %w", err)
	}

	return count, nil
}
