package subscription

import (
	"context"
	"time"
)

// SubscriptionExpiredEvent is emitted once per subscription, by the pass that
// won the active -> expired transition.
type SubscriptionExpiredEvent struct {
	SubscriptionID uint
	VendorID       uint
	PlanID         uint
	EndDate        time.Time
	QuotaReset     bool
	Timestamp      time.Time
}

func NewSubscriptionExpiredEvent(sub *Subscription, quotaReset bool, at time.Time) *SubscriptionExpiredEvent {
	return &SubscriptionExpiredEvent{
		SubscriptionID: sub.ID(),
		VendorID:       sub.VendorID(),
		PlanID:         sub.PlanID(),
		EndDate:        sub.EndDate(),
		QuotaReset:     quotaReset,
		Timestamp:      at,
	}
}

func (e *SubscriptionExpiredEvent) GetEventType() string {
	return "subscription.expired"
}

// EventPublisher fans lifecycle events out to other services. Publishing is
// best effort and never affects the stored state.
type EventPublisher interface {
	PublishExpired(ctx context.Context, event *SubscriptionExpiredEvent) error
}
