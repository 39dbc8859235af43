package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/subscription"
	apperrors "github.com/leadhub/leadhub/internal/shared/errors"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// ListDeliveriesUseCase returns the notification audit trail of one
// subscription, oldest attempt first.
type ListDeliveriesUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	deliveryLog      notification.DeliveryLogRepository
	logger           logger.Interface
}

func NewListDeliveriesUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	deliveryLog notification.DeliveryLogRepository,
	logger logger.Interface,
) *ListDeliveriesUseCase {
	return &ListDeliveriesUseCase{
		subscriptionRepo: subscriptionRepo,
		deliveryLog:      deliveryLog,
		logger:           logger,
	}
}

func (uc *ListDeliveriesUseCase) Execute(ctx context.Context, subscriptionID uint) ([]*notification.DeliveryRecord, error) {
	if subscriptionID == 0 {
		return nil, apperrors.NewValidationError("subscription ID is required")
	}

	if _, err := uc.subscriptionRepo.GetByID(ctx, subscriptionID); err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, apperrors.NewNotFoundError("subscription not found", fmt.Sprintf("id=%d", subscriptionID))
		}
		uc.logger.Errorw("failed to get subscription", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	records, err := uc.deliveryLog.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to list notification deliveries", "subscription_id", subscriptionID, "error", err)
		return nil, err
	}
	return records, nil
}
