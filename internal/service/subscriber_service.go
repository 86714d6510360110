package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/homework-tracker-api/internal/dto"
	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/internal/repository"
	appErrors "github.com/noah-isme/homework-tracker-api/pkg/errors"
	"github.com/noah-isme/homework-tracker-api/pkg/validation"
)

type subscriberRepository interface {
	List(ctx context.Context) ([]models.Subscriber, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, sub *models.Subscriber) error
	Delete(ctx context.Context, id string) error
	AddUnsubscribedHomework(ctx context.Context, id, homeworkID string) error
}

// SubscriberService manages subscriptions and per-homework opt-outs.
type SubscriberService struct {
	repo      subscriberRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewSubscriberService constructs the service.
func NewSubscriberService(repo subscriberRepository, validator *validation.Validator, logger *zap.Logger) *SubscriberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validator == nil {
		validator = validation.New()
	}
	return &SubscriberService{repo: repo, validator: validator, logger: logger}
}

// List returns every subscriber.
func (s *SubscriberService) List(ctx context.Context) ([]models.Subscriber, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subscribers")
	}
	return subs, nil
}

// Subscribe registers an address. An address already present yields a conflict.
func (s *SubscriberService) Subscribe(ctx context.Context, req dto.CreateSubscriberRequest) (*models.Subscriber, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subscriber")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already subscribed")
	}

	sub := &models.Subscriber{Email: req.Email, UnsubscribedHomeworks: models.StringList{}}
	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already subscribed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subscriber")
	}
	s.logger.Info("subscriber added", zap.String("subscriber_id", sub.ID))
	return sub, nil
}

// UnsubscribeAll removes the subscriber record.
func (s *SubscriberService) UnsubscribeAll(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "subscriber not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subscriber")
	}
	return nil
}

// UnsubscribeFromHomework opts the subscriber out of one homework. Repeating it is a no-op.
func (s *SubscriberService) UnsubscribeFromHomework(ctx context.Context, id string, req dto.UnsubscribeRequest) error {
	req.HomeworkID = strings.TrimSpace(req.HomeworkID)
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if err := s.repo.AddUnsubscribedHomework(ctx, id, req.HomeworkID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "subscriber not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unsubscribe")
	}
	return nil
}
