package mappers

import (
	"github.com/leadhub/leadhub/internal/domain/quota"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
)

func QuotaToEntity(model *models.VendorLeadQuotaModel) (*quota.VendorLeadQuota, error) {
	if model == nil {
		return nil, nil
	}
	return quota.ReconstructVendorLeadQuota(model.ID, model.VendorID, quota.Counters{
		DailyUsed:   model.DailyUsed,
		DailyLimit:  model.DailyLimit,
		WeeklyUsed:  model.WeeklyUsed,
		WeeklyLimit: model.WeeklyLimit,
		YearlyUsed:  model.YearlyUsed,
		YearlyLimit: model.YearlyLimit,
	}, model.UpdatedAt)
}

func QuotaToModel(entity *quota.VendorLeadQuota) *models.VendorLeadQuotaModel {
	if entity == nil {
		return nil
	}
	c := entity.Counters()
	return &models.VendorLeadQuotaModel{
		ID:          entity.ID(),
		VendorID:    entity.VendorID(),
		DailyUsed:   c.DailyUsed,
		DailyLimit:  c.DailyLimit,
		WeeklyUsed:  c.WeeklyUsed,
		WeeklyLimit: c.WeeklyLimit,
		YearlyUsed:  c.YearlyUsed,
		YearlyLimit: c.YearlyLimit,
		UpdatedAt:   entity.UpdatedAt(),
	}
}
