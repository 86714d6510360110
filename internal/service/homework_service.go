package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/homework-tracker-api/internal/dto"
	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/internal/repository"
	appErrors "github.com/noah-isme/homework-tracker-api/pkg/errors"
	"github.com/noah-isme/homework-tracker-api/pkg/jobs"
	"github.com/noah-isme/homework-tracker-api/pkg/validation"
)

type homeworkRepository interface {
	List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, error)
	FindByID(ctx context.Context, id string) (*models.Homework, error)
	Create(ctx context.Context, hw *models.Homework) error
	Delete(ctx context.Context, id string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// HomeworkService manages homework records and queues the creation notification.
type HomeworkService struct {
	repo      homeworkRepository
	cache     *CacheService
	queue     jobDispatcher
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewHomeworkService constructs the service.
func NewHomeworkService(repo homeworkRepository, cache *CacheService, queue jobDispatcher, validator *validation.Validator, logger *zap.Logger) *HomeworkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validator == nil {
		validator = validation.New()
	}
	return &HomeworkService{repo: repo, cache: cache, queue: queue, validator: validator, logger: logger, now: time.Now}
}

// List returns homeworks, only future ones when active is set. The boolean reports a cache hit.
func (s *HomeworkService) List(ctx context.Context, active bool) ([]models.Homework, bool, error) {
	if active {
		now := s.now()
		homeworks, err := s.repo.List(ctx, models.HomeworkFilter{ActiveAt: &now})
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list homeworks")
		}
		return homeworks, false, nil
	}

	var cached []models.Homework
	if s.cache.Get(ctx, homeworkListCacheKey, &cached) {
		return cached, true, nil
	}
	homeworks, err := s.repo.List(ctx, models.HomeworkFilter{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list homeworks")
	}
	s.cache.Set(ctx, homeworkListCacheKey, homeworks)
	return homeworks, false, nil
}

// Get returns one homework.
func (s *HomeworkService) Get(ctx context.Context, id string) (*models.Homework, error) {
	hw, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "homework not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load homework")
	}
	return hw, nil
}

// Create stores a homework and queues the new-homework notification.
// A queueing failure is logged; the homework is still created.
func (s *HomeworkService) Create(ctx context.Context, req dto.CreateHomeworkRequest) (*models.Homework, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	priority := models.Priority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	hw := &models.Homework{
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		DueDate:     req.DueDate.UTC(),
		Priority:    priority,
		Details:     models.StringList{},
	}
	if err := s.repo.Create(ctx, hw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create homework")
	}
	s.cache.InvalidateHomeworks(ctx)

	if s.queue != nil {
		job := jobs.Job{ID: fmt.Sprintf("%s:%s", JobTypeHomeworkCreated, hw.ID), Type: JobTypeHomeworkCreated, Payload: hw.ID}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Error("failed to queue new homework notification", zap.String("homework_id", hw.ID), zap.Error(err))
		}
	}
	return hw, nil
}

// Delete removes a homework.
func (s *HomeworkService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "homework not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete homework")
	}
	s.cache.InvalidateHomeworks(ctx)
	return nil
}
