package http

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	subscriptionApp "github.com/leadhub/leadhub/internal/application/subscription"
	"github.com/leadhub/leadhub/internal/infrastructure/config"
	"github.com/leadhub/leadhub/internal/infrastructure/scheduler"
	"github.com/leadhub/leadhub/internal/shared/biztime"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and the scheduler. It wires everything together and provides a
// Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine   *gin.Engine
	db       *gorm.DB
	cfg      *config.Config
	log      logger.Interface
	redis    *redis.Client
	clock    biztime.Clock
	gatherer prometheus.Gatherer

	// Repositories
	repos *repositories

	// Infrastructure services
	svcs *infraServices

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	lifecycleService *subscriptionApp.LifecycleService
	schedulerManager *scheduler.SchedulerManager
}

// ContainerOption overrides a default collaborator, mainly for tests and
// one-shot CLI runs.
type ContainerOption func(*Container)

// WithClock replaces the wall clock.
func WithClock(clock biztime.Clock) ContainerOption {
	return func(c *Container) { c.clock = clock }
}

// WithRedisClient uses an existing Redis client instead of dialing one.
func WithRedisClient(client *redis.Client) ContainerOption {
	return func(c *Container) { c.redis = client }
}

// WithGatherer serves /metrics from the given gatherer.
func WithGatherer(gatherer prometheus.Gatherer) ContainerOption {
	return func(c *Container) { c.gatherer = gatherer }
}

// NewContainer creates and wires all application components.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface, opts ...ContainerOption) (*Container, error) {
	c := &Container{
		engine:   gin.New(),
		db:       db,
		cfg:      cfg,
		log:      log,
		clock:    biztime.SystemClock{},
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Section 1: Infrastructure - Redis, Repositories, Notification gateway
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Subscription lifecycle - UseCases, Service
	c.initSubscription()

	// Section 3: Scheduler
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	// Section 4: Handlers
	c.initHandlers()

	return c, nil
}

// LifecycleService exposes the wired lifecycle service.
func (c *Container) LifecycleService() *subscriptionApp.LifecycleService {
	return c.lifecycleService
}

// SchedulerManager exposes the wired scheduler.
func (c *Container) SchedulerManager() *scheduler.SchedulerManager {
	return c.schedulerManager
}

// StartBackground starts the lifecycle scheduler.
func (c *Container) StartBackground() {
	c.schedulerManager.Start()
}

// Shutdown stops background work and releases connections.
func (c *Container) Shutdown() error {
	var errs []error

	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop scheduler: %w", err))
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	return errors.Join(errs...)
}
