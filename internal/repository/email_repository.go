package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/homework-tracker-api/internal/models"
)

// EmailRepository persists the emails collection in PostgreSQL.
type EmailRepository struct {
	db *sqlx.DB
}

// NewEmailRepository constructs the repository.
func NewEmailRepository(db *sqlx.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

// List returns every stored address.
func (r *EmailRepository) List(ctx context.Context) ([]models.EmailAddress, error) {
	emails := []models.EmailAddress{}
	if err := r.db.SelectContext(ctx, &emails, "SELECT id, address, created_at FROM emails ORDER BY created_at ASC"); err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return emails, nil
}

// Create inserts an address.
func (r *EmailRepository) Create(ctx context.Context, email *models.EmailAddress) error {
	if email.ID == "" {
		email.ID = uuid.NewString()
	}
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now().UTC()
	}
	const query = "INSERT INTO emails (id, address, created_at) VALUES (:id, :address, :created_at)"
	if _, err := r.db.NamedExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("create email: %w", err)
	}
	return nil
}
