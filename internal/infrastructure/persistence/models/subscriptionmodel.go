package models

import (
	"time"

	"github.com/leadhub/leadhub/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID                   uint      `gorm:"primarykey"`
	VendorID             uint      `gorm:"not null;index:idx_vendor_status,priority:1"`
	PlanID               uint      `gorm:"not null;index:idx_plan_subscription"`
	Status               string    `gorm:"not null;size:20;index:idx_vendor_status,priority:2;index:idx_status_end_date,priority:1"`
	StartDate            time.Time `gorm:"not null"`
	EndDate              time.Time `gorm:"not null;index:idx_status_end_date,priority:2"`
	RenewalNotified      bool      `gorm:"not null;default:false"`
	ReminderClaimedUntil *time.Time
	ExpiredAt            *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
