package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/subscription"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/leadhub/leadhub/internal/shared/biztime"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// ReminderOptions configures the renewal reminder pass.
type ReminderOptions struct {
	Options
	Window vo.ReminderWindow
	// Lease is how long a claimed reminder stays reserved for the claiming
	// pass. It must exceed the item timeout.
	Lease time.Duration
}

// SendRenewalRemindersUseCase tells vendors whose subscription ends within
// the reminder window that renewal is due. Each subscription is reminded at
// most once; a failed delivery leaves it pending for the next pass.
type SendRenewalRemindersUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	gateway          notification.Gateway
	deliveryLog      notification.DeliveryLogRepository
	clock            biztime.Clock
	recorder         PassRecorder
	opts             ReminderOptions
	logger           logger.Interface
}

func NewSendRenewalRemindersUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	gateway notification.Gateway,
	deliveryLog notification.DeliveryLogRepository,
	clock biztime.Clock,
	recorder PassRecorder,
	opts ReminderOptions,
	logger logger.Interface,
) *SendRenewalRemindersUseCase {
	opts.Options = opts.Options.withDefaults()
	if opts.Lease <= opts.ItemTimeout {
		opts.Lease = 2 * opts.ItemTimeout
	}
	if opts.Window == (vo.ReminderWindow{}) {
		opts.Window = vo.DefaultReminderWindow()
	}
	if recorder == nil {
		recorder = NopPassRecorder()
	}
	return &SendRenewalRemindersUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		gateway:          gateway,
		deliveryLog:      deliveryLog,
		clock:            clock,
		recorder:         recorder,
		opts:             opts,
		logger:           logger,
	}
}

// Execute runs one reminder pass. It returns an error only when the candidate
// query fails; per-subscription failures are counted in the result.
func (uc *SendRenewalRemindersUseCase) Execute(ctx context.Context) (result *PassResult, err error) {
	began := time.Now()
	now := uc.clock.Now().UTC()
	result = newPassResult(PassReminder, now)
	log := uc.logger.With("pass", PassReminder, "run_id", result.RunID)
	defer func() { uc.recorder.ObservePass(PassReminder, err, time.Since(began)) }()

	from, to := uc.opts.Window.Bounds(now)
	candidates, err := uc.subscriptionRepo.FindRenewalReminderCandidates(ctx, from, to)
	if err != nil {
		log.Errorw("failed to find renewal reminder candidates", "error", err)
		return result, fmt.Errorf("failed to find renewal reminder candidates: %w", err)
	}
	result.Candidates = len(candidates)

	if len(candidates) == 0 {
		log.Debugw("no subscriptions due for a renewal reminder")
		result.finish(&passCounters{}, began)
		return result, nil
	}

	log.Infow("renewal reminder pass started", "candidates", len(candidates))

	counters := forEachBounded(ctx, uc.opts.Options, candidates, func(itemCtx context.Context, sub *subscription.Subscription) string {
		outcome := uc.remind(itemCtx, log, sub, now)
		uc.recorder.RecordItem(PassReminder, outcome)
		return outcome
	})
	result.finish(counters, began)

	log.Infow("renewal reminder pass finished",
		"candidates", result.Candidates,
		"notified", result.Done,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", result.Duration,
	)
	return result, nil
}

func (uc *SendRenewalRemindersUseCase) remind(ctx context.Context, log logger.Interface, sub *subscription.Subscription, now time.Time) string {
	log = log.With("subscription_id", sub.ID(), "vendor_id", sub.VendorID())

	if !sub.IsRenewalReminderDue(now, uc.opts.Window) {
		log.Debugw("subscription no longer due for a reminder")
		return OutcomeSkipped
	}

	claimed, err := uc.subscriptionRepo.ClaimRenewalReminder(ctx, sub.ID(), now, now.Add(uc.opts.Lease))
	if err != nil {
		log.Errorw("failed to claim renewal reminder", "error", err)
		return OutcomeFailed
	}
	if !claimed {
		log.Debugw("renewal reminder already sent or claimed by another pass")
		return OutcomeSkipped
	}

	planName, err := uc.planRepo.GetNameByID(ctx, sub.PlanID())
	if err != nil {
		log.Errorw("failed to resolve plan name", "plan_id", sub.PlanID(), "error", err)
		uc.release(ctx, log, sub.ID())
		return OutcomeFailed
	}

	msg := notification.ReminderMessage{
		SubscriptionID: sub.ID(),
		VendorID:       sub.VendorID(),
		PlanName:       planName,
		ExpiryDate:     sub.EndDate(),
	}

	sendErr := uc.gateway.SendRenewalReminder(ctx, msg)
	recordDelivery(ctx, uc.deliveryLog, log, notification.KindRenewalReminder, sub, msg, sendErr)

	if sendErr != nil {
		if isAbandonedSend(sendErr) {
			// the message may still be in flight; the claim lapses with the lease
			log.Warnw("renewal reminder delivery timed out, retry after lease expiry", "error", sendErr)
			return OutcomeFailed
		}
		log.Warnw("renewal reminder delivery failed, will retry next pass", "error", sendErr)
		uc.release(ctx, log, sub.ID())
		return OutcomeFailed
	}

	marked, err := uc.subscriptionRepo.MarkRenewalNotified(context.WithoutCancel(ctx), sub.ID(), uc.clock.Now().UTC())
	if err != nil {
		// the lease keeps other passes away until it lapses
		log.Errorw("renewal reminder sent but flag not persisted", "error", err)
		return OutcomeFailed
	}
	if !marked {
		log.Warnw("renewal flag was already set by another pass")
	}

	log.Infow("renewal reminder sent", "plan", planName, "end_date", sub.EndDate())
	return OutcomeDone
}

// isAbandonedSend reports whether the gateway gave up waiting rather than
// observing a definite rejection.
func isAbandonedSend(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func (uc *SendRenewalRemindersUseCase) release(ctx context.Context, log logger.Interface, id uint) {
	if err := uc.subscriptionRepo.ReleaseRenewalReminderClaim(context.WithoutCancel(ctx), id); err != nil {
		log.Warnw("failed to release renewal reminder claim, it lapses with the lease", "error", err)
	}
}

// recordDelivery appends to the delivery audit log. Failures are logged only.
func recordDelivery(
	ctx context.Context,
	repo notification.DeliveryLogRepository,
	log logger.Interface,
	kind notification.Kind,
	sub *subscription.Subscription,
	payload any,
	sendErr error,
) {
	if repo == nil {
		return
	}

	record := &notification.DeliveryRecord{
		Kind:           kind,
		SubscriptionID: sub.ID(),
		VendorID:       sub.VendorID(),
		Success:        sendErr == nil,
		Payload:        payload,
	}
	if sendErr != nil {
		record.Error = sendErr.Error()
	}

	if err := repo.Record(context.WithoutCancel(ctx), record); err != nil {
		log.Warnw("failed to record notification delivery", "kind", kind, "error", err)
	}
}
