package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
)

var repoNow = time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection to :memory: would see its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.SubscriptionModel{},
		&models.VendorLeadQuotaModel{},
		&models.PlanModel{},
		&models.VendorModel{},
		&models.NotificationLogModel{},
	))
	return db
}

func insertSubscription(t *testing.T, db *gorm.DB, vendorID uint, status string, end time.Time, notified bool) *models.SubscriptionModel {
	t.Helper()
	m := &models.SubscriptionModel{
		VendorID:        vendorID,
		PlanID:          1,
		Status:          status,
		StartDate:       end.AddDate(0, -1, 0),
		EndDate:         end,
		RenewalNotified: notified,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func insertQuota(t *testing.T, db *gorm.DB, vendorID uint, used int) {
	t.Helper()
	require.NoError(t, db.Create(&models.VendorLeadQuotaModel{
		VendorID:    vendorID,
		DailyUsed:   used,
		DailyLimit:  10,
		WeeklyUsed:  used,
		WeeklyLimit: 50,
		YearlyUsed:  used,
		YearlyLimit: 500,
	}).Error)
}

func reloadSubscription(t *testing.T, db *gorm.DB, id uint) models.SubscriptionModel {
	t.Helper()
	var m models.SubscriptionModel
	require.NoError(t, db.First(&m, id).Error)
	return m
}
