package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/leadhub/leadhub/internal/shared/constants"
)

type NotificationLogModel struct {
	ID             uint   `gorm:"primaryKey"`
	Kind           string `gorm:"size:50;not null;index:idx_kind_created,priority:1"`
	SubscriptionID uint   `gorm:"not null;index"`
	VendorID       uint   `gorm:"not null"`
	Success        bool   `gorm:"not null"`
	Error          string `gorm:"size:1000"`
	Payload        datatypes.JSON
	CreatedAt      time.Time `gorm:"index:idx_kind_created,priority:2"`
}

func (NotificationLogModel) TableName() string {
	return constants.TableNotificationLogs
}
