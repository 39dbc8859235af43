package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/leadhub/leadhub/internal/domain/quota"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/mappers"
	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
	"github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

const nonZeroQuotaCondition = "daily_used <> 0 OR daily_limit <> 0 OR weekly_used <> 0 OR " +
	"weekly_limit <> 0 OR yearly_used <> 0 OR yearly_limit <> 0"

type VendorLeadQuotaRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewVendorLeadQuotaRepository(db *gorm.DB, logger logger.Interface) quota.Repository {
	return &VendorLeadQuotaRepositoryImpl{db: db, logger: logger}
}

func (r *VendorLeadQuotaRepositoryImpl) Create(ctx context.Context, q *quota.VendorLeadQuota) error {
	model := mappers.QuotaToModel(q)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create vendor lead quota", "vendor_id", q.VendorID(), "error", err)
		return fmt.Errorf("failed to create vendor lead quota: %w", err)
	}
	q.SetID(model.ID)
	return nil
}

func (r *VendorLeadQuotaRepositoryImpl) GetByVendorID(ctx context.Context, vendorID uint) (*quota.VendorLeadQuota, error) {
	var model models.VendorLeadQuotaModel
	if err := db.GetTxFromContext(ctx, r.db).Where("vendor_id = ?", vendorID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quota.ErrQuotaNotFound
		}
		r.logger.Errorw("failed to get vendor lead quota", "vendor_id", vendorID, "error", err)
		return nil, fmt.Errorf("failed to get vendor lead quota: %w", err)
	}

	return mappers.QuotaToEntity(&model)
}

// ResetForVendor revokes the vendor's lead quota. A vendor without a quota
// row has nothing to revoke.
func (r *VendorLeadQuotaRepositoryImpl) ResetForVendor(ctx context.Context, vendorID uint, at time.Time) error {
	q, err := r.GetByVendorID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, quota.ErrQuotaNotFound) {
			r.logger.Debugw("no lead quota to reset", "vendor_id", vendorID)
			return nil
		}
		return err
	}

	if q.IsZero() {
		r.logger.Debugw("lead quota already revoked", "vendor_id", vendorID)
	}
	q.Revoke(at.UTC())

	c := q.Counters()
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.VendorLeadQuotaModel{}).
		Where("id = ?", q.ID()).
		Updates(map[string]interface{}{
			"daily_used":   c.DailyUsed,
			"daily_limit":  c.DailyLimit,
			"weekly_used":  c.WeeklyUsed,
			"weekly_limit": c.WeeklyLimit,
			"yearly_used":  c.YearlyUsed,
			"yearly_limit": c.YearlyLimit,
			"updated_at":   q.UpdatedAt(),
		}).Error; err != nil {
		r.logger.Errorw("failed to reset vendor lead quota", "vendor_id", vendorID, "error", err)
		return fmt.Errorf("failed to reset vendor lead quota: %w", err)
	}
	return nil
}

func (r *VendorLeadQuotaRepositoryImpl) FindVendorsNeedingReset(ctx context.Context, now time.Time) ([]uint, error) {
	var vendorIDs []uint

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.VendorLeadQuotaModel{}).
		Where(nonZeroQuotaCondition).
		Where("EXISTS (SELECT 1 FROM subscriptions s WHERE s.vendor_id = vendor_lead_quotas.vendor_id AND s.status = ?)",
			vo.StatusExpired.String()).
		Where("NOT EXISTS (SELECT 1 FROM subscriptions s WHERE s.vendor_id = vendor_lead_quotas.vendor_id AND s.status = ? AND s.end_date >= ?)",
			vo.StatusActive.String(), now.UTC()).
		Order("vendor_id ASC").
		Pluck("vendor_id", &vendorIDs).Error; err != nil {
		r.logger.Errorw("failed to find vendors needing quota reset", "error", err)
		return nil, fmt.Errorf("failed to find vendors needing quota reset: %w", err)
	}

	return vendorIDs, nil
}
