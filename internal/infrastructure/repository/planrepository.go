package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/leadhub/leadhub/internal/domain/subscription"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
	"github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) GetNameByID(ctx context.Context, planID uint) (string, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).Select("id", "name").First(&model, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("plan %d: %w", planID, subscription.ErrPlanNotFound)
		}
		r.logger.Errorw("failed to get plan name", "error", err, "plan_id", planID)
		return "", fmt.Errorf("failed to get plan: %w", err)
	}

	return model.Name, nil
}
