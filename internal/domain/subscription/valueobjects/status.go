package valueobjects

type SubscriptionStatus string

const (
	StatusActive  SubscriptionStatus = "active"
	StatusExpired SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanTransitionTo encodes the lifecycle: active -> expired, nothing leaves expired.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	return s == StatusActive && target == StatusExpired
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:  true,
	StatusExpired: true,
}
