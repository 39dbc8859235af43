package mappers

import (
	"fmt"

	"github.com/leadhub/leadhub/internal/domain/subscription"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
	"github.com/leadhub/leadhub/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:                   model.ID,
		VendorID:             model.VendorID,
		PlanID:               model.PlanID,
		Status:               vo.SubscriptionStatus(model.Status),
		StartDate:            model.StartDate.UTC(),
		EndDate:              model.EndDate.UTC(),
		RenewalNotified:      model.RenewalNotified,
		ReminderClaimedUntil: model.ReminderClaimedUntil,
		ExpiredAt:            model.ExpiredAt,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SubscriptionModel{
		ID:                   entity.ID(),
		VendorID:             entity.VendorID(),
		PlanID:               entity.PlanID(),
		Status:               entity.Status().String(),
		StartDate:            entity.StartDate().UTC(),
		EndDate:              entity.EndDate().UTC(),
		RenewalNotified:      entity.RenewalNotified(),
		ReminderClaimedUntil: entity.ReminderClaimedUntil(),
		ExpiredAt:            entity.ExpiredAt(),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(ms []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.MapSlicePtrWithID(ms, m.ToEntity, func(model *models.SubscriptionModel) uint {
		return model.ID
	})
}
