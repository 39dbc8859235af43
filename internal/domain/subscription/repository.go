package subscription

import (
	"context"
	"time"

	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
)

// SubscriptionRepository is the datastore contract of the reconciliation
// engine. Every mutating method is a single-row conditional update that
// reports whether this caller won; losing callers must skip side effects.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)

	// FindRenewalReminderCandidates returns active, not-notified subscriptions
	// whose end date lies strictly between from and to.
	FindRenewalReminderCandidates(ctx context.Context, from, to time.Time) ([]*Subscription, error)
	// FindExpiredActive returns active subscriptions whose end date is before now.
	FindExpiredActive(ctx context.Context, now time.Time) ([]*Subscription, error)

	// ClaimRenewalReminder takes a short lease on the reminder of one
	// subscription. It fails when the flag is already set or another pass
	// holds an unexpired lease.
	ClaimRenewalReminder(ctx context.Context, id uint, now, until time.Time) (bool, error)
	// MarkRenewalNotified flips renewal_notified false -> true.
	MarkRenewalNotified(ctx context.Context, id uint, at time.Time) (bool, error)
	// ReleaseRenewalReminderClaim drops the lease so the next pass can retry.
	ReleaseRenewalReminderClaim(ctx context.Context, id uint) error
	// TransitionStatus moves one subscription from -> to.
	TransitionStatus(ctx context.Context, id uint, from, to vo.SubscriptionStatus, at time.Time) (bool, error)

	// HasOtherActiveSubscription reports whether vendorID still holds an
	// active subscription, other than excludeID, that has not ended at now.
	HasOtherActiveSubscription(ctx context.Context, vendorID, excludeID uint, now time.Time) (bool, error)

	CountActiveEndingBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error)
}

// PlanRepository resolves plan display names for notifications.
type PlanRepository interface {
	GetNameByID(ctx context.Context, planID uint) (string, error)
}
