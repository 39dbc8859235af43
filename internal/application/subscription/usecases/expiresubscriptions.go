package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/quota"
	"github.com/leadhub/leadhub/internal/domain/subscription"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/leadhub/leadhub/internal/shared/biztime"
	"github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// ExpireSubscriptionsUseCase moves active subscriptions past their end date
// to expired and revokes the vendor's lead quota in the same transaction.
// Only the pass that wins the status flip warns the vendor.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	quotaRepo        quota.Repository
	planRepo         subscription.PlanRepository
	txManager        db.TxRunner
	gateway          notification.Gateway
	deliveryLog      notification.DeliveryLogRepository
	publisher        subscription.EventPublisher
	summaryCache     SummaryCache
	clock            biztime.Clock
	recorder         PassRecorder
	opts             Options
	logger           logger.Interface
}

// ExpireSubscriptionsDeps groups the collaborators of the expiration pass.
// Publisher, SummaryCache, DeliveryLog and Recorder are optional.
type ExpireSubscriptionsDeps struct {
	SubscriptionRepo subscription.SubscriptionRepository
	QuotaRepo        quota.Repository
	PlanRepo         subscription.PlanRepository
	TxManager        db.TxRunner
	Gateway          notification.Gateway
	DeliveryLog      notification.DeliveryLogRepository
	Publisher        subscription.EventPublisher
	SummaryCache     SummaryCache
	Clock            biztime.Clock
	Recorder         PassRecorder
}

func NewExpireSubscriptionsUseCase(deps ExpireSubscriptionsDeps, opts Options, logger logger.Interface) *ExpireSubscriptionsUseCase {
	recorder := deps.Recorder
	if recorder == nil {
		recorder = NopPassRecorder()
	}
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: deps.SubscriptionRepo,
		quotaRepo:        deps.QuotaRepo,
		planRepo:         deps.PlanRepo,
		txManager:        deps.TxManager,
		gateway:          deps.Gateway,
		deliveryLog:      deps.DeliveryLog,
		publisher:        deps.Publisher,
		summaryCache:     deps.SummaryCache,
		clock:            deps.Clock,
		recorder:         recorder,
		opts:             opts.withDefaults(),
		logger:           logger,
	}
}

// Execute runs one expiration pass. It returns an error only when the
// candidate query fails.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (result *PassResult, err error) {
	began := time.Now()
	now := uc.clock.Now().UTC()
	result = newPassResult(PassExpiration, now)
	log := uc.logger.With("pass", PassExpiration, "run_id", result.RunID)
	defer func() { uc.recorder.ObservePass(PassExpiration, err, time.Since(began)) }()

	expiredSubs, err := uc.subscriptionRepo.FindExpiredActive(ctx, now)
	if err != nil {
		log.Errorw("failed to find expired subscriptions", "error", err)
		return result, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}
	result.Candidates = len(expiredSubs)

	if len(expiredSubs) == 0 {
		log.Debugw("no subscriptions to expire")
		result.finish(&passCounters{}, began)
		return result, nil
	}

	log.Infow("found expired subscriptions to process", "count", len(expiredSubs))

	counters := forEachBounded(ctx, uc.opts, expiredSubs, func(itemCtx context.Context, sub *subscription.Subscription) string {
		outcome := uc.expire(itemCtx, log, sub, now)
		uc.recorder.RecordItem(PassExpiration, outcome)
		return outcome
	})
	result.finish(counters, began)

	if result.Done > 0 && uc.summaryCache != nil {
		if err := uc.summaryCache.Invalidate(context.WithoutCancel(ctx)); err != nil {
			log.Warnw("failed to invalidate expiration summary cache", "error", err)
		}
	}

	log.Infow("expiration pass finished",
		"candidates", result.Candidates,
		"expired", result.Done,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", result.Duration,
	)
	return result, nil
}

func (uc *ExpireSubscriptionsUseCase) expire(ctx context.Context, log logger.Interface, sub *subscription.Subscription, now time.Time) string {
	log = log.With("subscription_id", sub.ID(), "vendor_id", sub.VendorID())

	if !sub.IsPastEnd(now) {
		return OutcomeSkipped
	}

	var won, quotaReset bool
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		won, err = uc.subscriptionRepo.TransitionStatus(txCtx, sub.ID(), vo.StatusActive, vo.StatusExpired, now)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}

		hasSuccessor, err := uc.subscriptionRepo.HasOtherActiveSubscription(txCtx, sub.VendorID(), sub.ID(), now)
		if err != nil {
			return err
		}
		if hasSuccessor {
			log.Infow("vendor holds another active subscription, quota kept")
			return nil
		}

		if err := uc.quotaRepo.ResetForVendor(txCtx, sub.VendorID(), now); err != nil {
			return fmt.Errorf("failed to reset vendor quota: %w", err)
		}
		quotaReset = true
		return nil
	})
	if err != nil {
		log.Errorw("failed to expire subscription, will retry next pass", "error", err)
		return OutcomeFailed
	}
	if !won {
		log.Debugw("subscription already expired by another pass")
		return OutcomeSkipped
	}

	if err := sub.MarkAsExpired(now); err != nil {
		log.Warnw("failed to update in-memory subscription state", "error", err)
	}

	// committed; the notices below are best effort on their own deadline
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.ItemTimeout)
	defer cancel()
	uc.warn(notifyCtx, log, sub)

	if uc.publisher != nil {
		event := subscription.NewSubscriptionExpiredEvent(sub, quotaReset, now)
		if err := uc.publisher.PublishExpired(notifyCtx, event); err != nil {
			log.Warnw("failed to publish subscription expired event", "error", err)
		}
	}

	log.Infow("subscription expired", "end_date", sub.EndDate(), "quota_reset", quotaReset)
	return OutcomeDone
}

func (uc *ExpireSubscriptionsUseCase) warn(ctx context.Context, log logger.Interface, sub *subscription.Subscription) {
	planName, err := uc.planRepo.GetNameByID(ctx, sub.PlanID())
	if err != nil {
		log.Errorw("failed to resolve plan name, expiration warning not sent", "plan_id", sub.PlanID(), "error", err)
		recordDelivery(ctx, uc.deliveryLog, log, notification.KindExpirationWarning, sub, nil, err)
		return
	}

	msg := notification.WarningMessage{
		SubscriptionID: sub.ID(),
		VendorID:       sub.VendorID(),
		PlanName:       planName,
	}

	sendErr := uc.gateway.SendExpirationWarning(ctx, msg)
	recordDelivery(ctx, uc.deliveryLog, log, notification.KindExpirationWarning, sub, msg, sendErr)
	if sendErr != nil {
		log.Warnw("expiration warning delivery failed", "error", sendErr)
	}
}
