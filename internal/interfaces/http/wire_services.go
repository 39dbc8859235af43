package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadhub/leadhub/internal/application/subscription/usecases"
	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/subscription"
	"github.com/leadhub/leadhub/internal/infrastructure/cache"
	"github.com/leadhub/leadhub/internal/infrastructure/config"
	"github.com/leadhub/leadhub/internal/infrastructure/email"
	"github.com/leadhub/leadhub/internal/infrastructure/metrics"
	"github.com/leadhub/leadhub/internal/infrastructure/pubsub"
	"github.com/leadhub/leadhub/internal/infrastructure/scheduler"
	"github.com/leadhub/leadhub/internal/infrastructure/template"
	"github.com/leadhub/leadhub/internal/shared/logger"
	"github.com/leadhub/leadhub/internal/shared/services/markdown"
)

// infraServices holds the infrastructure collaborators of the use cases.
type infraServices struct {
	gateway        notification.Gateway
	recorder       usecases.PassRecorder
	summaryCache   usecases.SummaryCache
	eventPublisher subscription.EventPublisher
}

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Notification gateway
// ============================================================

// initInfrastructure initializes Redis, all repositories and the services
// the lifecycle passes depend on.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if c.redis == nil && cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.repos = newRepositories(c.db, log)

	// Notice templates: embedded defaults with optional file overrides
	templateLoader := template.NewNoticeTemplateLoader(cfg.Email.TemplatesDir, log)
	if err := templateLoader.Load(); err != nil {
		return fmt.Errorf("failed to load notice templates: %w", err)
	}

	sender := email.NewSender(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	}, log)

	c.svcs = &infraServices{
		gateway: email.NewNotificationGateway(
			sender,
			c.repos.vendor,
			templateLoader,
			markdown.NewMarkdownService(),
			cfg.Email.BaseURL,
			log,
		),
		recorder:       metrics.GetReconcilerMetrics(),
		eventPublisher: pubsub.NopEventPublisher{},
	}

	if c.redis != nil {
		c.svcs.summaryCache = cache.NewRedisExpirationSummaryCache(c.redis, log)
		c.svcs.eventPublisher = pubsub.NewRedisSubscriptionEventBus(c.redis, log)
		log.Infow("redis-backed summary cache and event bus enabled")
	}

	return nil
}

// initRedis dials Redis and verifies the connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}

	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())
	return client, nil
}

// ============================================================
// Section 3: Scheduler
// ============================================================

// initScheduler registers the two daily lifecycle jobs. The scheduler is
// started separately by StartBackground.
func (c *Container) initScheduler() error {
	cfg := c.cfg

	location := time.UTC
	if cfg.Scheduler.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
		if err != nil {
			return fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Scheduler.Timezone, err)
		}
		location = loc
	}

	opts := scheduler.Options{
		Location:       location,
		ReminderCron:   cfg.Scheduler.ReminderCron,
		ExpirationCron: cfg.Scheduler.ExpirationCron,
		PassTimeout:    cfg.Scheduler.PassTimeout,
	}
	if c.redis != nil {
		opts.Locker = scheduler.NewRedisLocker(c.redis, cfg.Scheduler.PassTimeout)
	}

	manager, err := scheduler.NewSchedulerManager(opts, c.log.Named("scheduler"))
	if err != nil {
		return err
	}
	if err := manager.RegisterLifecycleJobs(c.lifecycleService); err != nil {
		return err
	}

	c.schedulerManager = manager
	return nil
}
