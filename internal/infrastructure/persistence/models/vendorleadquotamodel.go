package models

import (
	"time"

	"github.com/leadhub/leadhub/internal/shared/constants"
)

type VendorLeadQuotaModel struct {
	ID          uint `gorm:"primarykey"`
	VendorID    uint `gorm:"not null;uniqueIndex"`
	DailyUsed   int  `gorm:"not null;default:0"`
	DailyLimit  int  `gorm:"not null;default:0"`
	WeeklyUsed  int  `gorm:"not null;default:0"`
	WeeklyLimit int  `gorm:"not null;default:0"`
	YearlyUsed  int  `gorm:"not null;default:0"`
	YearlyLimit int  `gorm:"not null;default:0"`
	UpdatedAt   time.Time
}

func (VendorLeadQuotaModel) TableName() string {
	return constants.TableVendorLeadQuotas
}
