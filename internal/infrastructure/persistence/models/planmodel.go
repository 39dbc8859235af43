package models

import (
	"time"

	"github.com/leadhub/leadhub/internal/shared/constants"
)

// PlanModel is a read-only view of the plan catalogue.
type PlanModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}
