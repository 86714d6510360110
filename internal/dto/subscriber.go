package dto

// CreateSubscriberRequest is the payload of POST /subscribers.
type CreateSubscriberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UnsubscribeRequest opts a subscriber out of one homework.
type UnsubscribeRequest struct {
	HomeworkID string `json:"homeworkId" validate:"required"`
}

// CreateEmailRequest is the payload of POST /emails.
type CreateEmailRequest struct {
	Address string `json:"address" validate:"required,email"`
}
