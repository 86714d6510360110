package dto

import "github.com/noah-isme/homework-tracker-api/internal/models"

// ReminderRunResponse is returned by the on-demand triggers.
type ReminderRunResponse struct {
	Success           bool                     `json:"success"`
	NotificationsSent int                      `json:"notificationsSent"`
	Attempted         int                      `json:"attempted"`
	Failed            int                      `json:"failed"`
	Failures          []models.DeliveryFailure `json:"failures"`
	Skipped           []models.SkippedHomework `json:"skipped"`
}

// NewReminderRunResponse summarises a batch result.
func NewReminderRunResponse(result *models.NotificationBatchResult) ReminderRunResponse {
	resp := ReminderRunResponse{
		Failures: []models.DeliveryFailure{},
		Skipped:  []models.SkippedHomework{},
	}
	if result == nil {
		return resp
	}
	resp.Success = result.State == models.RunStateDone
	resp.NotificationsSent = result.Succeeded
	resp.Attempted = result.RecipientCount
	resp.Failed = result.Failed
	if len(result.Failures) > 0 {
		resp.Failures = result.Failures
	}
	if len(result.Skipped) > 0 {
		resp.Skipped = result.Skipped
	}
	return resp
}

// SweepResponse reports an expiry sweep.
type SweepResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}
