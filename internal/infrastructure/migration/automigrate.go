package migration

import (
	"embed"

	"github.com/leadhub/leadhub/internal/infrastructure/persistence/models"
)

//go:embed scripts/*.sql
var scriptsFS embed.FS

const scriptsDir = "scripts"

// AutoMigrateModels lists every table owned by the lifecycle manager.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PlanModel{},
		&models.VendorModel{},
		&models.SubscriptionModel{},
		&models.VendorLeadQuotaModel{},
		&models.NotificationLogModel{},
	}
}
