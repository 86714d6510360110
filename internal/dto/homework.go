package dto

import "time"

// CreateHomeworkRequest is the payload of POST /homeworks.
type CreateHomeworkRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Subject     string     `json:"subject" validate:"required,max=100"`
	Description string     `json:"description" validate:"max=20000"`
	DueDate     *time.Time `json:"dueDate" validate:"required"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// ListHomeworksQuery filters GET /homeworks.
type ListHomeworksQuery struct {
	Active bool `form:"active"`
}
