package http

import (
	"gorm.io/gorm"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/quota"
	"github.com/leadhub/leadhub/internal/domain/subscription"
	"github.com/leadhub/leadhub/internal/domain/vendor"
	"github.com/leadhub/leadhub/internal/infrastructure/repository"
	shareddb "github.com/leadhub/leadhub/internal/shared/db"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// repositories holds all repository instances used by the container.
type repositories struct {
	subscription subscription.SubscriptionRepository
	plan         subscription.PlanRepository
	vendor       vendor.Repository
	quota        quota.Repository
	deliveryLog  notification.DeliveryLogRepository
	txManager    *shareddb.TransactionManager
}

// newRepositories creates all repository instances.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		subscription: repository.NewSubscriptionRepository(db, log),
		plan:         repository.NewPlanRepository(db, log),
		vendor:       repository.NewVendorRepository(db, log),
		quota:        repository.NewVendorLeadQuotaRepository(db, log),
		deliveryLog:  repository.NewNotificationLogRepository(db, log),
		txManager:    shareddb.NewTransactionManager(db),
	}
}
