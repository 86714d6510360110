package repository

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/homework-tracker-api/internal/models"
)

// Sentinel errors shared by the Postgres and MongoDB implementations.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// HomeworkStore is implemented by HomeworkRepository and HomeworkMongoRepository.
type HomeworkStore interface {
	List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, error)
	FindByID(ctx context.Context, id string) (*models.Homework, error)
	Create(ctx context.Context, hw *models.Homework) error
	Delete(ctx context.Context, id string) error
	DeleteDueBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SubscriberStore is implemented by SubscriberRepository and SubscriberMongoRepository.
type SubscriberStore interface {
	List(ctx context.Context) ([]models.Subscriber, error)
	FindByID(ctx context.Context, id string) (*models.Subscriber, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, sub *models.Subscriber) error
	Delete(ctx context.Context, id string) error
	AddUnsubscribedHomework(ctx context.Context, id, homeworkID string) error
}

// EmailStore is implemented by EmailRepository and EmailMongoRepository.
type EmailStore interface {
	List(ctx context.Context) ([]models.EmailAddress, error)
	Create(ctx context.Context, email *models.EmailAddress) error
}

var (
	_ HomeworkStore   = (*HomeworkRepository)(nil)
	_ HomeworkStore   = (*HomeworkMongoRepository)(nil)
	_ SubscriberStore = (*SubscriberRepository)(nil)
	_ SubscriberStore = (*SubscriberMongoRepository)(nil)
	_ EmailStore      = (*EmailRepository)(nil)
	_ EmailStore      = (*EmailMongoRepository)(nil)
)
