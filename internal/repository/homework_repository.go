package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/homework-tracker-api/internal/models"
)

const homeworkColumns = "id, title, subject, description, due_date, priority, details, created_at"

// HomeworkRepository persists homeworks in PostgreSQL.
type HomeworkRepository struct {
	db *sqlx.DB
}

// NewHomeworkRepository constructs the repository.
func NewHomeworkRepository(db *sqlx.DB) *HomeworkRepository {
	return &HomeworkRepository{db: db}
}

// List returns homeworks ordered by due date. When filter.ActiveAt is set only
// homeworks due strictly after that instant are returned.
func (r *HomeworkRepository) List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, error) {
	query := "SELECT " + homeworkColumns + " FROM homeworks"
	var args []interface{}
	if filter.ActiveAt != nil {
		query += " WHERE due_date > $1"
		args = append(args, *filter.ActiveAt)
	}
	query += " ORDER BY due_date ASC"

	homeworks := []models.Homework{}
	if err := r.db.SelectContext(ctx, &homeworks, query, args...); err != nil {
		return nil, fmt.Errorf("list homeworks: %w", err)
	}
	return homeworks, nil
}

// FindByID returns a homework or ErrNotFound.
func (r *HomeworkRepository) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	const query = "SELECT " + homeworkColumns + " FROM homeworks WHERE id = $1"
	var hw models.Homework
	if err := r.db.GetContext(ctx, &hw, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get homework: %w", err)
	}
	return &hw, nil
}

// Create inserts a homework, assigning id, created_at and an empty details list.
func (r *HomeworkRepository) Create(ctx context.Context, hw *models.Homework) error {
	if hw.ID == "" {
		hw.ID = uuid.NewString()
	}
	if hw.CreatedAt.IsZero() {
		hw.CreatedAt = time.Now().UTC()
	}
	if hw.Details == nil {
		hw.Details = models.StringList{}
	}
	const query = `INSERT INTO homeworks (` + homeworkColumns + `)
VALUES (:id, :title, :subject, :description, :due_date, :priority, :details, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, hw); err != nil {
		return fmt.Errorf("create homework: %w", err)
	}
	return nil
}

// Delete removes a homework by id.
func (r *HomeworkRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM homeworks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete homework rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDueBefore removes every homework due strictly before cutoff and returns the count.
func (r *HomeworkRepository) DeleteDueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM homeworks WHERE due_date < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired homeworks: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired homeworks rows: %w", err)
	}
	return affected, nil
}
