package notification

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind names the lifecycle notice carried by a message.
type Kind string

const (
	KindRenewalReminder   Kind = "renewal_reminder"
	KindExpirationWarning Kind = "expiration_warning"
)

func (k Kind) String() string {
	return string(k)
}

var ErrInvalidMessage = errors.New("invalid notification message")

// ReminderMessage tells a vendor that a subscription ends soon.
type ReminderMessage struct {
	SubscriptionID uint      `json:"subscription_id"`
	VendorID       uint      `json:"vendor_id" validate:"required"`
	PlanName       string    `json:"plan_name" validate:"required"`
	ExpiryDate     time.Time `json:"expiry_date" validate:"required"`
}

// WarningMessage tells a vendor that a subscription has expired and lead
// delivery stopped.
type WarningMessage struct {
	SubscriptionID uint   `json:"subscription_id"`
	VendorID       uint   `json:"vendor_id" validate:"required"`
	PlanName       string `json:"plan_name" validate:"required"`
}

func (m ReminderMessage) Validate() error {
	if m.VendorID == 0 || m.PlanName == "" || m.ExpiryDate.IsZero() {
		return fmt.Errorf("%w: reminder for subscription %d", ErrInvalidMessage, m.SubscriptionID)
	}
	return nil
}

func (m WarningMessage) Validate() error {
	if m.VendorID == 0 || m.PlanName == "" {
		return fmt.Errorf("%w: warning for subscription %d", ErrInvalidMessage, m.SubscriptionID)
	}
	return nil
}

// Gateway delivers lifecycle notices to vendors. A nil error means the
// message was handed to the transport.
type Gateway interface {
	SendRenewalReminder(ctx context.Context, msg ReminderMessage) error
	SendExpirationWarning(ctx context.Context, msg WarningMessage) error
}
