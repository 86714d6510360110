package models

import "time"

// Priority ranks a homework for display and sorting.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Homework is a tracked assignment with a due date.
type Homework struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Subject     string     `db:"subject" json:"subject"`
	Description string     `db:"description" json:"description"`
	DueDate     time.Time  `db:"due_date" json:"dueDate"`
	Priority    Priority   `db:"priority" json:"priority"`
	Details     StringList `db:"details" json:"details"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// HasValidDueDate reports whether the due date could be read from the store.
func (h Homework) HasValidDueDate() bool {
	return !h.DueDate.IsZero()
}

// HomeworkFilter narrows homework listings.
type HomeworkFilter struct {
	ActiveAt *time.Time
}
