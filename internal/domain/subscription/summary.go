package subscription

import "time"

// ExpirationSummary is the operational snapshot served to admins. The 30 day
// bucket includes the 7 day bucket.
type ExpirationSummary struct {
	ExpiringIn7Days  int64     `json:"expiring_in_7_days"`
	ExpiringIn30Days int64     `json:"expiring_in_30_days"`
	AlreadyExpired   int64     `json:"already_expired"`
	GeneratedAt      time.Time `json:"generated_at"`
}
