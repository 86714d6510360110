package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/internal/repository"
	appErrors "github.com/noah-isme/homework-tracker-api/pkg/errors"
	"github.com/noah-isme/homework-tracker-api/pkg/jobs"
)

// Trigger names recorded on reminder runs.
const (
	TriggerScheduled = "scheduled"
	TriggerOnDemand  = "on_demand"
	TriggerCreated   = "created"
)

// JobTypeHomeworkCreated is the queue job that fans out the new-homework notification.
const JobTypeHomeworkCreated = "homework.created"

type homeworkReader interface {
	List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, error)
	FindByID(ctx context.Context, id string) (*models.Homework, error)
}

type subscriberLister interface {
	List(ctx context.Context) ([]models.Subscriber, error)
}

type messageRenderer interface {
	Render(kind models.NotificationKind, hw models.Homework, remaining string) (RenderedMessage, error)
}

type notificationDispatcher interface {
	Dispatch(ctx context.Context, kind models.NotificationKind, homeworkID, recipient string, msg RenderedMessage) models.DeliveryOutcome
}

// ReminderServiceConfig bounds the fan-out.
type ReminderServiceConfig struct {
	Concurrency int
	Now         func() time.Time
}

// ReminderService runs the reminder and new-homework notification batches.
type ReminderService struct {
	homeworks   homeworkReader
	subscribers subscriberLister
	renderer    messageRenderer
	dispatcher  notificationDispatcher
	labels      *TimeRemaining
	metrics     *MetricsService
	logger      *zap.Logger
	concurrency int
	now         func() time.Time
}

// NewReminderService constructs the service.
func NewReminderService(homeworks homeworkReader, subscribers subscriberLister, renderer messageRenderer, dispatcher notificationDispatcher, labels *TimeRemaining, metrics *MetricsService, logger *zap.Logger, cfg ReminderServiceConfig) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if labels == nil {
		labels = NewTimeRemaining(LocaleFor(""), cfg.Now)
	}
	return &ReminderService{
		homeworks:   homeworks,
		subscribers: subscribers,
		renderer:    renderer,
		dispatcher:  dispatcher,
		labels:      labels,
		metrics:     metrics,
		logger:      logger,
		concurrency: cfg.Concurrency,
		now:         cfg.Now,
	}
}

// RunAll sends a reminder for every homework due in the future to every eligible subscriber.
func (s *ReminderService) RunAll(ctx context.Context, trigger string) (*models.NotificationBatchResult, error) {
	return s.run(ctx, models.NotificationKindReminder, trigger, func(ctx context.Context, now time.Time) ([]models.Homework, error) {
		return s.homeworks.List(ctx, models.HomeworkFilter{ActiveAt: &now})
	})
}

// SendForHomework sends a reminder for a single homework.
func (s *ReminderService) SendForHomework(ctx context.Context, homeworkID, trigger string) (*models.NotificationBatchResult, error) {
	return s.run(ctx, models.NotificationKindReminder, trigger, s.loadOne(homeworkID))
}

// NotifyCreated sends the new-homework notification for homeworkID.
func (s *ReminderService) NotifyCreated(ctx context.Context, homeworkID string) (*models.NotificationBatchResult, error) {
	return s.run(ctx, models.NotificationKindNewHomework, TriggerCreated, s.loadOne(homeworkID))
}

// HandleCreatedJob is the queue handler for JobTypeHomeworkCreated. Only load
// failures are returned so a retry never re-sends delivered messages.
func (s *ReminderService) HandleCreatedJob(ctx context.Context, job jobs.Job) error {
	_, err := s.NotifyCreated(ctx, job.Payload)
	if err != nil && errors.Is(err, appErrors.ErrNotFound) {
		s.logger.Info("created homework vanished before notification", zap.String("homework_id", job.Payload))
		return nil
	}
	return err
}

func (s *ReminderService) loadOne(homeworkID string) func(context.Context, time.Time) ([]models.Homework, error) {
	return func(ctx context.Context, _ time.Time) ([]models.Homework, error) {
		hw, err := s.homeworks.FindByID(ctx, homeworkID)
		if err != nil {
			return nil, err
		}
		return []models.Homework{*hw}, nil
	}
}

type pendingDelivery struct {
	homeworkID string
	recipient  string
	message    RenderedMessage
}

func (s *ReminderService) run(ctx context.Context, kind models.NotificationKind, trigger string, load func(context.Context, time.Time) ([]models.Homework, error)) (*models.NotificationBatchResult, error) {
	now := s.now()
	result := &models.NotificationBatchResult{Kind: kind, State: models.RunStateIdle, StartedAt: now}
	log := s.logger.With(zap.String("kind", string(kind)), zap.String("trigger", trigger))

	s.transition(log, result, models.RunStateLoadingData)
	homeworks, err := load(ctx, now)
	var subscribers []models.Subscriber
	if err == nil && len(homeworks) > 0 {
		subscribers, err = s.subscribers.List(ctx)
	}
	if err != nil {
		return s.fail(log, result, trigger, err)
	}

	pending := s.prepare(log, result, kind, now, homeworks, subscribers)
	s.transition(log, result, models.RunStateFanningOut)
	outcomes := s.fanOut(ctx, kind, pending)
	s.transition(log, result, models.RunStateAggregating)
	for _, outcome := range outcomes {
		result.Record(outcome)
	}

	s.transition(log, result, models.RunStateDone)
	result.FinishedAt = s.now()
	s.metrics.RecordReminderRun(trigger, result.State)
	log.Info("notification run finished",
		zap.Int("homeworks", result.HomeworkCount),
		zap.Int("attempted", result.RecipientCount),
		zap.Int("sent", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// prepare renders each homework once and pairs it with its eligible recipients.
func (s *ReminderService) prepare(log *zap.Logger, result *models.NotificationBatchResult, kind models.NotificationKind, now time.Time, homeworks []models.Homework, subscribers []models.Subscriber) []pendingDelivery {
	var pending []pendingDelivery
	for _, hw := range homeworks {
		if !hw.HasValidDueDate() {
			log.Warn("skipping homework with unreadable due date", zap.String("homework_id", hw.ID))
			result.Skipped = append(result.Skipped, models.SkippedHomework{HomeworkID: hw.ID, Reason: "invalid due date"})
			continue
		}
		result.HomeworkCount++

		recipients := eligibleRecipients(hw.ID, subscribers)
		if len(recipients) == 0 {
			continue
		}

		remaining := ""
		if kind == models.NotificationKindReminder {
			remaining = s.labels.LabelAt(hw.DueDate, now)
		}
		msg, err := s.renderer.Render(kind, hw, remaining)
		if err != nil {
			log.Warn("skipping homework that failed to render", zap.String("homework_id", hw.ID), zap.Error(err))
			result.Skipped = append(result.Skipped, models.SkippedHomework{HomeworkID: hw.ID, Reason: "render failed"})
			continue
		}

		for _, sub := range recipients {
			pending = append(pending, pendingDelivery{homeworkID: hw.ID, recipient: sub.Email, message: msg})
		}
	}
	return pending
}

// fanOut dispatches every pending delivery with bounded concurrency and waits for all of them.
func (s *ReminderService) fanOut(ctx context.Context, kind models.NotificationKind, pending []pendingDelivery) []models.DeliveryOutcome {
	if len(pending) == 0 {
		return nil
	}
	p := pool.NewWithResults[models.DeliveryOutcome]().WithMaxGoroutines(s.concurrency)
	for _, item := range pending {
		item := item
		p.Go(func() models.DeliveryOutcome {
			return s.dispatcher.Dispatch(ctx, kind, item.homeworkID, item.recipient, item.message)
		})
	}
	return p.Wait()
}

func (s *ReminderService) fail(log *zap.Logger, result *models.NotificationBatchResult, trigger string, err error) (*models.NotificationBatchResult, error) {
	s.transition(log, result, models.RunStateFailed)
	result.FinishedAt = s.now()
	s.metrics.RecordReminderRun(trigger, result.State)
	log.Error("notification run failed", zap.Error(err))

	if errors.Is(err, repository.ErrNotFound) {
		return result, appErrors.Clone(appErrors.ErrNotFound, "homework not found")
	}
	return result, appErrors.Wrap(fmt.Errorf("load notification data: %w", err), appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load notification data")
}

func (s *ReminderService) transition(log *zap.Logger, result *models.NotificationBatchResult, next models.RunState) {
	log.Debug("notification run state", zap.String("from", string(result.State)), zap.String("to", string(next)))
	result.State = next
}
