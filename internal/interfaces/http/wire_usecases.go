package http

import (
	"time"

	subscriptionApp "github.com/leadhub/leadhub/internal/application/subscription"
	"github.com/leadhub/leadhub/internal/application/subscription/usecases"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
	"github.com/leadhub/leadhub/internal/shared/biztime"
)

// allUseCases holds the lifecycle use case instances.
type allUseCases struct {
	sendRenewalReminders *usecases.SendRenewalRemindersUseCase
	expireSubscriptions  *usecases.ExpireSubscriptionsUseCase
	healExpiredQuotas    *usecases.HealExpiredQuotasUseCase
	getExpirationSummary *usecases.GetExpirationSummaryUseCase
	listDeliveries       *usecases.ListDeliveriesUseCase
}

// ============================================================
// Section 2: Subscription lifecycle - UseCases, Service
// ============================================================

// initSubscription builds the lifecycle use cases and the service that
// groups them for the scheduler, the CLI and the handlers.
func (c *Container) initSubscription() {
	cfg := c.cfg
	log := c.log
	repos := c.repos
	svcs := c.svcs

	opts := usecases.Options{
		Workers:     cfg.Reconciler.Workers,
		ItemTimeout: cfg.Reconciler.ItemTimeout,
	}

	window, err := vo.NewReminderWindow(
		time.Duration(cfg.Reconciler.ReminderWindowMinDays)*biztime.Day,
		time.Duration(cfg.Reconciler.ReminderWindowMaxDays)*biztime.Day,
	)
	if err != nil {
		log.Warnw("invalid reminder window, using default",
			"min_days", cfg.Reconciler.ReminderWindowMinDays,
			"max_days", cfg.Reconciler.ReminderWindowMaxDays,
			"error", err,
		)
		window = vo.DefaultReminderWindow()
	}

	c.ucs = &allUseCases{
		sendRenewalReminders: usecases.NewSendRenewalRemindersUseCase(
			repos.subscription,
			repos.plan,
			svcs.gateway,
			repos.deliveryLog,
			c.clock,
			svcs.recorder,
			usecases.ReminderOptions{
				Options: opts,
				Window:  window,
				Lease:   cfg.Reconciler.ReminderLease,
			},
			log.Named("reminders"),
		),
		expireSubscriptions: usecases.NewExpireSubscriptionsUseCase(usecases.ExpireSubscriptionsDeps{
			SubscriptionRepo: repos.subscription,
			QuotaRepo:        repos.quota,
			PlanRepo:         repos.plan,
			TxManager:        repos.txManager,
			Gateway:          svcs.gateway,
			DeliveryLog:      repos.deliveryLog,
			Publisher:        svcs.eventPublisher,
			SummaryCache:     svcs.summaryCache,
			Clock:            c.clock,
			Recorder:         svcs.recorder,
		}, opts, log.Named("expiration")),
		healExpiredQuotas: usecases.NewHealExpiredQuotasUseCase(
			repos.quota,
			c.clock,
			svcs.recorder,
			opts,
			log.Named("quota-heal"),
		),
		getExpirationSummary: usecases.NewGetExpirationSummaryUseCase(
			repos.subscription,
			svcs.summaryCache,
			c.clock,
			log,
		),
		listDeliveries: usecases.NewListDeliveriesUseCase(
			repos.subscription,
			repos.deliveryLog,
			log,
		),
	}

	c.lifecycleService = subscriptionApp.NewLifecycleService(
		c.ucs.sendRenewalReminders,
		c.ucs.expireSubscriptions,
		c.ucs.healExpiredQuotas,
		c.ucs.getExpirationSummary,
		c.ucs.listDeliveries,
		log,
	)
}
