// Package scheduler runs the recurring reminder and expiry jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/internal/service"
)

// Job names.
const (
	JobReminders = "reminders"
	JobSweeper   = "expiry-sweeper"
)

// Task is the body of a scheduled job.
type Task func(ctx context.Context) error

// ReminderRunner runs a full reminder batch.
type ReminderRunner interface {
	RunAll(ctx context.Context, trigger string) (*models.NotificationBatchResult, error)
}

// Sweeper deletes expired homeworks.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Scheduler wraps a cron runner with named tasks. Outcomes are logged only.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu    sync.Mutex
	tasks map[string]Task

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a scheduler. Panicking tasks are recovered and logged.
func New(logger *zap.Logger, opts ...cron.Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLogger := cronLogAdapter{logger: logger.Sugar()}
	opts = append([]cron.Option{
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger)),
	}, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(opts...),
		logger: logger,
		tasks:  make(map[string]Task),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register schedules task under name with a standard five-field cron spec.
func (s *Scheduler) Register(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("scheduler: job %q already registered", name)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.execute(name, task) }); err != nil {
		return fmt.Errorf("scheduler: job %q: %w", name, err)
	}
	s.tasks[name] = task
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// RegisterReminders schedules the full reminder batch.
func (s *Scheduler) RegisterReminders(spec string, runner ReminderRunner) error {
	return s.Register(JobReminders, spec, ReminderTask(runner, s.logger))
}

// RegisterSweeper schedules the expiry sweep.
func (s *Scheduler) RegisterSweeper(spec string, sweeper Sweeper) error {
	return s.Register(JobSweeper, spec, func(ctx context.Context) error {
		_, err := sweeper.Sweep(ctx)
		return err
	})
}

// ReminderTask adapts a runner into a scheduled task.
func ReminderTask(runner ReminderRunner, logger *zap.Logger) Task {
	return func(ctx context.Context) error {
		result, err := runner.RunAll(ctx, service.TriggerScheduled)
		if err != nil {
			return err
		}
		logger.Info("scheduled reminders sent",
			zap.Int("sent", result.Succeeded),
			zap.Int("failed", result.Failed),
		)
		return nil
	}
}

// RunNow executes a registered task synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	task, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", name)
	}
	return task(ctx)
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start begins firing jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx expires, then cancels them.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out, cancelling running jobs")
	}
	s.cancel()
}

func (s *Scheduler) execute(name string, task Task) {
	start := time.Now()
	if err := task(s.ctx); err != nil {
		s.logger.Error("scheduled job failed", zap.String("job", name), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}
	s.logger.Debug("scheduled job finished", zap.String("job", name), zap.Duration("duration", time.Since(start)))
}

type cronLogAdapter struct {
	logger *zap.SugaredLogger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debugw(msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
