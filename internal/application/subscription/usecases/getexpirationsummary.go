package usecases

import (
	"context"
	"time"

	"github.com/leadhub/leadhub/internal/domain/subscription"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/leadhub/leadhub/internal/shared/biztime"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

const (
	summaryShortHorizon = 7 * 24 * time.Hour
	summaryLongHorizon  = 30 * 24 * time.Hour
)

// GetExpirationSummaryUseCase reports how many subscriptions are about to
// expire and how many already have. It never fails: a datastore error yields
// an all-zero summary.
type GetExpirationSummaryUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	cache            SummaryCache
	clock            biztime.Clock
	logger           logger.Interface
}

// NewGetExpirationSummaryUseCase accepts a nil cache.
func NewGetExpirationSummaryUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	cache SummaryCache,
	clock biztime.Clock,
	logger logger.Interface,
) *GetExpirationSummaryUseCase {
	return &GetExpirationSummaryUseCase{
		subscriptionRepo: subscriptionRepo,
		cache:            cache,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *GetExpirationSummaryUseCase) Execute(ctx context.Context) *subscription.ExpirationSummary {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx)
		if err != nil {
			uc.logger.Warnw("failed to read expiration summary cache", "error", err)
		}
		if cached != nil {
			return cached
		}
	}

	now := uc.clock.Now().UTC()
	summary, err := uc.query(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to compute expiration summary", "error", err)
		return &subscription.ExpirationSummary{GeneratedAt: now}
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, summary); err != nil {
			uc.logger.Warnw("failed to cache expiration summary", "error", err)
		}
	}
	return summary
}

func (uc *GetExpirationSummaryUseCase) query(ctx context.Context, now time.Time) (*subscription.ExpirationSummary, error) {
	in7, err := uc.subscriptionRepo.CountActiveEndingBetween(ctx, now, now.Add(summaryShortHorizon))
	if err != nil {
		return nil, err
	}
	in30, err := uc.subscriptionRepo.CountActiveEndingBetween(ctx, now, now.Add(summaryLongHorizon))
	if err != nil {
		return nil, err
	}
	expired, err := uc.subscriptionRepo.CountByStatus(ctx, vo.StatusExpired)
	if err != nil {
		return nil, err
	}

	return &subscription.ExpirationSummary{
		ExpiringIn7Days:  in7,
		ExpiringIn30Days: in30,
		AlreadyExpired:   expired,
		GeneratedAt:      now,
	}, nil
}
