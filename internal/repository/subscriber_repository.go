package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/homework-tracker-api/internal/models"
)

const (
	subscriberColumns = "id, email, unsubscribed_homeworks, created_at"
	uniqueViolation   = "23505"
)

// SubscriberRepository persists subscribers in PostgreSQL.
type SubscriberRepository struct {
	db *sqlx.DB
}

// NewSubscriberRepository constructs the repository.
func NewSubscriberRepository(db *sqlx.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// List returns every subscriber ordered by creation.
func (r *SubscriberRepository) List(ctx context.Context) ([]models.Subscriber, error) {
	const query = "SELECT " + subscriberColumns + " FROM subscribers ORDER BY created_at ASC"
	subscribers := []models.Subscriber{}
	if err := r.db.SelectContext(ctx, &subscribers, query); err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return subscribers, nil
}

// ExistsByEmail reports whether the address is already subscribed.
func (r *SubscriberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM subscribers WHERE email = $1)", email); err != nil {
		return false, fmt.Errorf("check subscriber email: %w", err)
	}
	return exists, nil
}

// Create inserts a subscriber. A concurrent duplicate surfaces as ErrDuplicate.
func (r *SubscriberRepository) Create(ctx context.Context, sub *models.Subscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if sub.UnsubscribedHomeworks == nil {
		sub.UnsubscribedHomeworks = models.StringList{}
	}
	const query = `INSERT INTO subscribers (` + subscriberColumns + `)
VALUES (:id, :email, :unsubscribed_homeworks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("create subscriber: %w", err)
	}
	return nil
}

// FindByID returns a subscriber or ErrNotFound.
func (r *SubscriberRepository) FindByID(ctx context.Context, id string) (*models.Subscriber, error) {
	const query = "SELECT " + subscriberColumns + " FROM subscribers WHERE id = $1"
	var sub models.Subscriber
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get subscriber: %w", err)
	}
	return &sub, nil
}

// Delete removes a subscriber entirely.
func (r *SubscriberRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM subscribers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subscriber rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddUnsubscribedHomework adds homeworkID to the subscriber's opt-out set.
// Adding an id already present leaves the set unchanged.
func (r *SubscriberRepository) AddUnsubscribedHomework(ctx context.Context, id, homeworkID string) error {
	const query = `UPDATE subscribers SET unsubscribed_homeworks = CASE
    WHEN unsubscribed_homeworks @> jsonb_build_array($1::text) THEN unsubscribed_homeworks
    ELSE unsubscribed_homeworks || jsonb_build_array($1::text)
END
WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, homeworkID, id)
	if err != nil {
		return fmt.Errorf("unsubscribe from homework: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unsubscribe from homework rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
