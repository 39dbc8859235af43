package quota

import (
	"fmt"
	"time"
)

// VendorLeadQuota holds the lead-delivery counters and limits of one vendor.
// Revoke is a hard stop: every counter goes to zero, limits included.
type VendorLeadQuota struct {
	id          uint
	vendorID    uint
	dailyUsed   int
	dailyLimit  int
	weeklyUsed  int
	weeklyLimit int
	yearlyUsed  int
	yearlyLimit int
	updatedAt   time.Time
}

// Counters is the plain view of the six quota counters.
type Counters struct {
	DailyUsed   int
	DailyLimit  int
	WeeklyUsed  int
	WeeklyLimit int
	YearlyUsed  int
	YearlyLimit int
}

func NewVendorLeadQuota(vendorID uint, c Counters) (*VendorLeadQuota, error) {
	if vendorID == 0 {
		return nil, fmt.Errorf("vendor ID is required")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &VendorLeadQuota{
		vendorID:    vendorID,
		dailyUsed:   c.DailyUsed,
		dailyLimit:  c.DailyLimit,
		weeklyUsed:  c.WeeklyUsed,
		weeklyLimit: c.WeeklyLimit,
		yearlyUsed:  c.YearlyUsed,
		yearlyLimit: c.YearlyLimit,
		updatedAt:   time.Now().UTC(),
	}, nil
}

func ReconstructVendorLeadQuota(id, vendorID uint, c Counters, updatedAt time.Time) (*VendorLeadQuota, error) {
	if id == 0 {
		return nil, fmt.Errorf("quota ID cannot be zero")
	}
	q, err := NewVendorLeadQuota(vendorID, c)
	if err != nil {
		return nil, err
	}
	q.id = id
	q.updatedAt = updatedAt
	return q, nil
}

func (c Counters) validate() error {
	for name, v := range map[string]int{
		"daily_used": c.DailyUsed, "daily_limit": c.DailyLimit,
		"weekly_used": c.WeeklyUsed, "weekly_limit": c.WeeklyLimit,
		"yearly_used": c.YearlyUsed, "yearly_limit": c.YearlyLimit,
	} {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	return nil
}

func (q *VendorLeadQuota) ID() uint             { return q.id }
func (q *VendorLeadQuota) VendorID() uint       { return q.vendorID }
func (q *VendorLeadQuota) UpdatedAt() time.Time { return q.updatedAt }

func (q *VendorLeadQuota) Counters() Counters {
	return Counters{
		DailyUsed:   q.dailyUsed,
		DailyLimit:  q.dailyLimit,
		WeeklyUsed:  q.weeklyUsed,
		WeeklyLimit: q.weeklyLimit,
		YearlyUsed:  q.yearlyUsed,
		YearlyLimit: q.yearlyLimit,
	}
}

func (q *VendorLeadQuota) SetID(id uint) {
	q.id = id
}

// IsZero reports whether all six counters are zero.
func (q *VendorLeadQuota) IsZero() bool {
	return q.Counters() == Counters{}
}

// Revoke zeroes every counter. Calling it on a revoked quota only moves updatedAt.
func (q *VendorLeadQuota) Revoke(at time.Time) {
	q.dailyUsed, q.dailyLimit = 0, 0
	q.weeklyUsed, q.weeklyLimit = 0, 0
	q.yearlyUsed, q.yearlyLimit = 0, 0
	q.updatedAt = at
}
