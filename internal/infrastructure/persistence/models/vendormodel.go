package models

import (
	"time"

	"github.com/leadhub/leadhub/internal/shared/constants"
)

type VendorModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:255"`
	Email     string `gorm:"not null;size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VendorModel) TableName() string {
	return constants.TableVendors
}
