package notification

import (
	"context"
	"time"
)

// DeliveryRecord is one attempt to deliver a lifecycle notice.
type DeliveryRecord struct {
	ID             uint
	Kind           Kind
	SubscriptionID uint
	VendorID       uint
	Success        bool
	Error          string
	Payload        any
	CreatedAt      time.Time
}

// DeliveryLogRepository keeps an audit trail of delivery attempts. The
// reconciliation passes never read it back for correctness.
type DeliveryLogRepository interface {
	Record(ctx context.Context, record *DeliveryRecord) error
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*DeliveryRecord, error)
}
