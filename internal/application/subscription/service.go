package subscription

import (
	"context"
	"errors"

	"github.com/leadhub/leadhub/internal/application/subscription/dto"
	"github.com/leadhub/leadhub/internal/application/subscription/usecases"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// LifecycleService is the entry point of the scheduler, the CLI and the admin
// API into the subscription lifecycle passes.
type LifecycleService struct {
	sendRenewalRemindersUC *usecases.SendRenewalRemindersUseCase
	expireSubscriptionsUC  *usecases.ExpireSubscriptionsUseCase
	healExpiredQuotasUC    *usecases.HealExpiredQuotasUseCase
	getExpirationSummaryUC *usecases.GetExpirationSummaryUseCase
	listDeliveriesUC       *usecases.ListDeliveriesUseCase
	logger                 logger.Interface
}

func NewLifecycleService(
	sendRenewalRemindersUC *usecases.SendRenewalRemindersUseCase,
	expireSubscriptionsUC *usecases.ExpireSubscriptionsUseCase,
	healExpiredQuotasUC *usecases.HealExpiredQuotasUseCase,
	getExpirationSummaryUC *usecases.GetExpirationSummaryUseCase,
	listDeliveriesUC *usecases.ListDeliveriesUseCase,
	logger logger.Interface,
) *LifecycleService {
	return &LifecycleService{
		sendRenewalRemindersUC: sendRenewalRemindersUC,
		expireSubscriptionsUC:  expireSubscriptionsUC,
		healExpiredQuotasUC:    healExpiredQuotasUC,
		getExpirationSummaryUC: getExpirationSummaryUC,
		listDeliveriesUC:       listDeliveriesUC,
		logger:                 logger,
	}
}

// RunReminderPass sends due renewal reminders.
func (s *LifecycleService) RunReminderPass(ctx context.Context) (*usecases.PassResult, error) {
	return s.sendRenewalRemindersUC.Execute(ctx)
}

// RunExpirationPass expires subscriptions past their end date, then sweeps
// quotas left non-zero. The sweep runs even when the expiration query fails.
func (s *LifecycleService) RunExpirationPass(ctx context.Context) ([]*usecases.PassResult, error) {
	expired, expireErr := s.expireSubscriptionsUC.Execute(ctx)
	healed, healErr := s.RunQuotaHeal(ctx)
	return []*usecases.PassResult{expired, healed}, errors.Join(expireErr, healErr)
}

// RunQuotaHeal runs only the quota sweep.
func (s *LifecycleService) RunQuotaHeal(ctx context.Context) (*usecases.PassResult, error) {
	return s.healExpiredQuotasUC.Execute(ctx)
}

func (s *LifecycleService) GetExpirationSummary(ctx context.Context) *dto.ExpirationSummaryDTO {
	return dto.ToExpirationSummaryDTO(s.getExpirationSummaryUC.Execute(ctx))
}

// ListDeliveries returns the notification attempts recorded for one subscription.
func (s *LifecycleService) ListDeliveries(ctx context.Context, subscriptionID uint) ([]*dto.DeliveryRecordDTO, error) {
	records, err := s.listDeliveriesUC.Execute(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return dto.ToDeliveryRecordDTOs(records), nil
}
