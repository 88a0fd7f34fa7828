package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	payoutUnlockInterval = 10 * time.Minute
	resetPurgeInterval   = time.Hour
	trialExpiryInterval  = time.Hour
	jobTimeout           = 2 * time.Minute
)

// PayoutUnlocker moves matured pending rewards to the available balance.
type PayoutUnlocker interface {
	UnlockMatured(ctx context.Context) (int, error)
}

// ResetTokenPurger deletes spent password reset tokens.
type ResetTokenPurger interface {
	Purge(ctx context.Context) (int64, error)
}

// TrialExpirer closes trial subscriptions past their end date.
type TrialExpirer interface {
	ExpireTrials(ctx context.Context) (int64, error)
}

// JobScheduler runs the periodic maintenance jobs. Every job runs in
// singleton mode so a slow run never overlaps the next one.
type JobScheduler struct {
	scheduler gocron.Scheduler
	payouts   PayoutUnlocker
	resets    ResetTokenPurger
	trials    TrialExpirer
	ctx       context.Context
	cancel    context.CancelFunc
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. Nothing runs
// until Start.
func NewJobScheduler(payouts PayoutUnlocker, resets ResetTokenPurger, trials TrialExpirer) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		payouts:   payouts,
		resets:    resets,
		trials:    trials,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	zap.L().Info("Starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for them to return.
func (js *JobScheduler) Stop() error {
	zap.L().Info("Stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) registerJobs() error {
	defs := []struct {
		name     string
		interval time.Duration
		task     func(ctx context.Context) error
	}{
		{"payout-unlock", payoutUnlockInterval, js.unlockPayouts},
		{"reset-token-purge", resetPurgeInterval, js.purgeResetTokens},
		{"trial-expiry", trialExpiryInterval, js.expireTrials},
	}

	js.mu.Lock()
	defer js.mu.Unlock()
	for _, d := range defs {
		job, err := js.scheduler.NewJob(
			gocron.DurationJob(d.interval),
			gocron.NewTask(d.task, js.ctx),
			gocron.WithName(d.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("register job %s: %w", d.name, err)
		}
		js.jobs[d.name] = job
	}
	return nil
}

func (js *JobScheduler) unlockPayouts(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	n, err := js.payouts.UnlockMatured(ctx)
	if err != nil {
		zap.L().Error("Payout unlock failed", zap.Error(err))
		return err
	}
	if n > 0 {
		zap.L().Info("Unlocked matured payouts", zap.Int("count", n))
	}
	return nil
}

func (js *JobScheduler) purgeResetTokens(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	n, err := js.resets.Purge(ctx)
	if err != nil {
		zap.L().Error("Reset token purge failed", zap.Error(err))
		return err
	}
	zap.L().Debug("Purged password reset tokens", zap.Int64("count", n))
	return nil
}

func (js *JobScheduler) expireTrials(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	n, err := js.trials.ExpireTrials(ctx)
	if err != nil {
		zap.L().Error("Trial expiry failed", zap.Error(err))
		return err
	}
	if n > 0 {
		zap.L().Info("Expired trial subscriptions", zap.Int64("count", n))
	}
	return nil
}
