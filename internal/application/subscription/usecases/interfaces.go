package usecases

import (
	"context"
	"time"

	"github.com/leadhub/leadhub/internal/domain/subscription"
)

// PassRecorder receives pass and per-item outcomes for monitoring.
type PassRecorder interface {
	ObservePass(pass string, err error, duration time.Duration)
	RecordItem(pass, outcome string)
}

// SummaryCache fronts the expiration summary query. A nil summary with a nil
// error is a miss.
type SummaryCache interface {
	Get(ctx context.Context) (*subscription.ExpirationSummary, error)
	Set(ctx context.Context, summary *subscription.ExpirationSummary) error
	Invalidate(ctx context.Context) error
}

type nopPassRecorder struct{}

func (nopPassRecorder) ObservePass(string, error, time.Duration) {}
func (nopPassRecorder) RecordItem(string, string)                {}

// NopPassRecorder discards all observations.
func NopPassRecorder() PassRecorder { return nopPassRecorder{} }
