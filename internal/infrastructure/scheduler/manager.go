// Package scheduler runs the subscription lifecycle passes on gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/leadhub/leadhub/internal/application/subscription/usecases"
	"github.com/leadhub/leadhub/internal/shared/constants"
	"github.com/leadhub/leadhub/internal/shared/goroutine"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

const (
	DefaultReminderCron   = "0 2 * * *"
	DefaultExpirationCron = "0 3 * * *"
	DefaultPassTimeout    = 30 * time.Minute
)

// LifecycleRunner is implemented by the application lifecycle service.
type LifecycleRunner interface {
	RunReminderPass(ctx context.Context) (*usecases.PassResult, error)
	RunExpirationPass(ctx context.Context) ([]*usecases.PassResult, error)
}

// Options configures the SchedulerManager. Zero values fall back to the
// defaults above and UTC.
type Options struct {
	Location       *time.Location
	ReminderCron   string
	ExpirationCron string
	PassTimeout    time.Duration
	// Locker, when set, keeps several instances from running the same job
	// at the same time.
	Locker gocron.Locker
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.ReminderCron == "" {
		o.ReminderCron = DefaultReminderCron
	}
	if o.ExpirationCron == "" {
		o.ExpirationCron = DefaultExpirationCron
	}
	if o.PassTimeout <= 0 {
		o.PassTimeout = DefaultPassTimeout
	}
	return o
}

// SchedulerManager owns the gocron scheduler of the lifecycle jobs. It is
// started once and stopped on shutdown.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	opts      Options
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a SchedulerManager evaluating cron expressions
// in opts.Location.
func NewSchedulerManager(opts Options, log logger.Interface) (*SchedulerManager, error) {
	opts = opts.withDefaults()

	schedulerOpts := []gocron.SchedulerOption{
		gocron.WithLocation(opts.Location),
	}
	if opts.Locker != nil {
		schedulerOpts = append(schedulerOpts, gocron.WithDistributedLocker(opts.Locker))
	}

	scheduler, err := gocron.NewScheduler(schedulerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &SchedulerManager{
		scheduler: scheduler,
		opts:      opts,
		logger:    log,
	}, nil
}

// ========================================
// Lifecycle Jobs (cron-based)
// ========================================

// RegisterLifecycleJobs registers the two daily lifecycle jobs:
// - renewal reminders, 02:00 by default
// - expiration followed by the quota heal sweep, 03:00 by default
func (m *SchedulerManager) RegisterLifecycleJobs(runner LifecycleRunner) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(m.opts.ReminderCron, false),
		gocron.NewTask(func() {
			m.runPass(constants.JobRenewalReminders, func(ctx context.Context) {
				m.runReminders(ctx, runner)
			})
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(constants.JobTagSubscriptionLifecycle, "reminder"),
		gocron.WithName(constants.JobRenewalReminders),
	)
	if err != nil {
		return fmt.Errorf("failed to register %s job: %w", constants.JobRenewalReminders, err)
	}

	_, err = m.scheduler.NewJob(
		gocron.CronJob(m.opts.ExpirationCron, false),
		gocron.NewTask(func() {
			m.runPass(constants.JobSubscriptionExpiry, func(ctx context.Context) {
				m.runExpiration(ctx, runner)
			})
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(constants.JobTagSubscriptionLifecycle, "expiration", "quota-heal"),
		gocron.WithName(constants.JobSubscriptionExpiry),
	)
	if err != nil {
		return fmt.Errorf("failed to register %s job: %w", constants.JobSubscriptionExpiry, err)
	}

	m.logger.Infow("registered subscription lifecycle jobs",
		"reminder_cron", m.opts.ReminderCron,
		"expiration_cron", m.opts.ExpirationCron,
		"location", m.opts.Location.String(),
		"pass_timeout", m.opts.PassTimeout,
		"distributed_lock", m.opts.Locker != nil,
	)
	return nil
}

// runPass bounds a pass by the pass timeout and keeps a panic from reaching
// the scheduler goroutine.
func (m *SchedulerManager) runPass(name string, fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.PassTimeout)
	defer cancel()

	_ = goroutine.SafeRun(m.logger, name, func() { fn(ctx) })
}

func (m *SchedulerManager) runReminders(ctx context.Context, runner LifecycleRunner) {
	m.logger.Debugw("renewal reminder job started")

	result, err := runner.RunReminderPass(ctx)
	if err != nil {
		m.logger.Errorw("renewal reminder job failed", "error", err)
		return
	}

	m.logger.Infow("renewal reminder job completed",
		"run_id", result.RunID,
		"notified", result.Done,
		"failed", result.Failed,
		"duration", result.Duration,
	)
}

func (m *SchedulerManager) runExpiration(ctx context.Context, runner LifecycleRunner) {
	m.logger.Debugw("subscription expiration job started")

	results, err := runner.RunExpirationPass(ctx)
	if err != nil {
		m.logger.Errorw("subscription expiration job failed", "error", err)
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		m.logger.Infow("subscription expiration job step completed",
			"pass", result.Pass,
			"run_id", result.RunID,
			"done", result.Done,
			"failed", result.Failed,
			"duration", result.Duration,
		)
	}
}

// RunNow triggers a registered job immediately, outside its schedule.
func (m *SchedulerManager) RunNow(name string) error {
	for _, job := range m.scheduler.Jobs() {
		if job.Name() == name {
			return job.RunNow()
		}
	}
	return fmt.Errorf("job %q is not registered", name)
}

// NextRun reports the next scheduled run of a registered job.
func (m *SchedulerManager) NextRun(name string) (time.Time, error) {
	for _, job := range m.scheduler.Jobs() {
		if job.Name() == name {
			return job.NextRun()
		}
	}
	return time.Time{}, fmt.Errorf("job %q is not registered", name)
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
