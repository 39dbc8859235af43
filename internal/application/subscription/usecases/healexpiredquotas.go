package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/leadhub/leadhub/internal/domain/quota"
	"github.com/leadhub/leadhub/internal/shared/biztime"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// HealExpiredQuotasUseCase resets the lead quota of vendors left with only
// expired subscriptions but non-zero counters, e.g. rows expired by a path
// that skipped the reset or a successor that has since ended.
type HealExpiredQuotasUseCase struct {
	quotaRepo quota.Repository
	clock     biztime.Clock
	recorder  PassRecorder
	opts      Options
	logger    logger.Interface
}

func NewHealExpiredQuotasUseCase(
	quotaRepo quota.Repository,
	clock biztime.Clock,
	recorder PassRecorder,
	opts Options,
	logger logger.Interface,
) *HealExpiredQuotasUseCase {
	if recorder == nil {
		recorder = NopPassRecorder()
	}
	return &HealExpiredQuotasUseCase{
		quotaRepo: quotaRepo,
		clock:     clock,
		recorder:  recorder,
		opts:      opts.withDefaults(),
		logger:    logger,
	}
}

func (uc *HealExpiredQuotasUseCase) Execute(ctx context.Context) (result *PassResult, err error) {
	began := time.Now()
	now := uc.clock.Now().UTC()
	result = newPassResult(PassQuotaHeal, now)
	log := uc.logger.With("pass", PassQuotaHeal, "run_id", result.RunID)
	defer func() { uc.recorder.ObservePass(PassQuotaHeal, err, time.Since(began)) }()

	vendorIDs, err := uc.quotaRepo.FindVendorsNeedingReset(ctx, now)
	if err != nil {
		log.Errorw("failed to find vendors needing quota reset", "error", err)
		return result, fmt.Errorf("failed to find vendors needing quota reset: %w", err)
	}
	result.Candidates = len(vendorIDs)

	counters := forEachBounded(ctx, uc.opts, vendorIDs, func(itemCtx context.Context, vendorID uint) string {
		outcome := OutcomeDone
		if err := uc.quotaRepo.ResetForVendor(itemCtx, vendorID, now); err != nil {
			log.Errorw("failed to reset vendor quota", "vendor_id", vendorID, "error", err)
			outcome = OutcomeFailed
		} else {
			log.Infow("vendor quota reset by heal sweep", "vendor_id", vendorID)
		}
		uc.recorder.RecordItem(PassQuotaHeal, outcome)
		return outcome
	})
	result.finish(counters, began)

	if result.Candidates > 0 {
		log.Infow("quota heal sweep finished",
			"candidates", result.Candidates,
			"reset", result.Done,
			"failed", result.Failed,
		)
	}
	return result, nil
}
