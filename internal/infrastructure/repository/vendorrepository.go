package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/leadhub/leadhub/internal/domain/vendor"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
	"github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

type VendorRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewVendorRepository(db *gorm.DB, logger logger.Interface) vendor.Repository {
	return &VendorRepositoryImpl{db: db, logger: logger}
}

func (r *VendorRepositoryImpl) GetByID(ctx context.Context, id uint) (*vendor.Vendor, error) {
	var model models.VendorModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vendor %d: %w", id, vendor.ErrVendorNotFound)
		}
		r.logger.Errorw("failed to get vendor", "vendor_id", id, "error", err)
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	return vendor.NewVendor(model.ID, model.Name, model.Email)
}
