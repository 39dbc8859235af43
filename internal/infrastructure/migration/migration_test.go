package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
)

func TestNewManager_StrategyByDriver(t *testing.T) {
	assert.Equal(t, "goose", NewManager("mysql").GetStrategy().GetName())
	assert.Equal(t, "gorm_auto_migrate", NewManager("sqlite").GetStrategy().GetName())
}

func TestManager_MigrateSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, NewManager("sqlite").Migrate(db))

	for _, m := range []interface{}{
		&models.SubscriptionModel{},
		&models.VendorLeadQuotaModel{},
		&models.PlanModel{},
		&models.VendorModel{},
		&models.NotificationLogModel{},
	} {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasColumn(&models.SubscriptionModel{}, "reminder_claimed_until"))
}

func TestEmbeddedScripts(t *testing.T) {
	entries, err := fs.ReadDir(scriptsFS, scriptsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	raw, err := fs.ReadFile(scriptsFS, scriptsDir+"/"+entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "-- +goose Up")
	assert.Contains(t, string(raw), "-- +goose Down")
}
