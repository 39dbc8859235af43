package subscription

import (
	"fmt"
	"time"

	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
)

// Subscription is a vendor's time-boxed entitlement to a plan.
//
// A subscription starts active with renewalNotified=false. The reminder pass
// flips renewalNotified once; the expiration pass moves it to expired, which is
// terminal. A renewal purchase creates a new subscription instead of reusing
// this one.
type Subscription struct {
	id                   uint
	vendorID             uint
	planID               uint
	status               vo.SubscriptionStatus
	startDate            time.Time
	endDate              time.Time
	renewalNotified      bool
	reminderClaimedUntil *time.Time
	expiredAt            *time.Time
	createdAt            time.Time
	updatedAt            time.Time
}

// SubscriptionReconstructParams carries persisted state back into the aggregate.
type SubscriptionReconstructParams struct {
	ID                   uint
	VendorID             uint
	PlanID               uint
	Status               vo.SubscriptionStatus
	StartDate            time.Time
	EndDate              time.Time
	RenewalNotified      bool
	ReminderClaimedUntil *time.Time
	ExpiredAt            *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewSubscription creates an active, not-yet-notified subscription.
func NewSubscription(vendorID, planID uint, startDate, endDate time.Time) (*Subscription, error) {
	if vendorID == 0 {
		return nil, fmt.Errorf("vendor ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !endDate.After(startDate) {
		return nil, ErrInvalidPeriod
	}

	now := time.Now().UTC()
	return &Subscription{
		vendorID:  vendorID,
		planID:    planID,
		status:    vo.StatusActive,
		startDate: startDate.UTC(),
		endDate:   endDate.UTC(),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.VendorID == 0 {
		return nil, fmt.Errorf("vendor ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if !p.EndDate.After(p.StartDate) {
		return nil, fmt.Errorf("subscription %d: %w", p.ID, ErrInvalidPeriod)
	}

	return &Subscription{
		id:                   p.ID,
		vendorID:             p.VendorID,
		planID:               p.PlanID,
		status:               p.Status,
		startDate:            p.StartDate,
		endDate:              p.EndDate,
		renewalNotified:      p.RenewalNotified,
		reminderClaimedUntil: p.ReminderClaimedUntil,
		expiredAt:            p.ExpiredAt,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                         { return s.id }
func (s *Subscription) VendorID() uint                   { return s.vendorID }
func (s *Subscription) PlanID() uint                     { return s.planID }
func (s *Subscription) Status() vo.SubscriptionStatus    { return s.status }
func (s *Subscription) StartDate() time.Time             { return s.startDate }
func (s *Subscription) EndDate() time.Time               { return s.endDate }
func (s *Subscription) RenewalNotified() bool            { return s.renewalNotified }
func (s *Subscription) ReminderClaimedUntil() *time.Time { return s.reminderClaimedUntil }
func (s *Subscription) ExpiredAt() *time.Time            { return s.expiredAt }
func (s *Subscription) CreatedAt() time.Time             { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time             { return s.updatedAt }

// SetID is called by the repository after insert.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsActive reports whether the stored status is active.
func (s *Subscription) IsActive() bool {
	return s.status == vo.StatusActive
}

// IsRenewalReminderDue reports whether the reminder pass should act on s at now.
func (s *Subscription) IsRenewalReminderDue(now time.Time, window vo.ReminderWindow) bool {
	return s.IsActive() && !s.renewalNotified && window.Contains(now, s.endDate)
}

// IsPastEnd reports whether an active subscription's end date has passed.
func (s *Subscription) IsPastEnd(now time.Time) bool {
	return s.IsActive() && s.endDate.Before(now)
}

// MarkRenewalNotified sets the sticky reminder flag.
func (s *Subscription) MarkRenewalNotified(at time.Time) error {
	if s.renewalNotified {
		return ErrRenewalAlreadyNotified
	}
	if !s.IsActive() {
		return ErrSubscriptionExpired
	}
	s.renewalNotified = true
	s.reminderClaimedUntil = nil
	s.updatedAt = at
	return nil
}

// MarkAsExpired moves an active subscription to the terminal expired state.
// Expiring an already expired subscription is a no-op.
func (s *Subscription) MarkAsExpired(at time.Time) error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(s.status.String(), vo.StatusExpired.String())
	}
	s.status = vo.StatusExpired
	s.expiredAt = &at
	s.reminderClaimedUntil = nil
	s.updatedAt = at
	return nil
}
