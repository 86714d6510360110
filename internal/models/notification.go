package models

import "time"

// NotificationKind distinguishes the two message templates.
type NotificationKind string

const (
	NotificationKindReminder    NotificationKind = "reminder"
	NotificationKindNewHomework NotificationKind = "new_homework"
)

// RunState tracks a Reminder Job run.
type RunState string

const (
	RunStateIdle        RunState = "idle"
	RunStateLoadingData RunState = "loading-data"
	RunStateFanningOut  RunState = "fanning-out"
	RunStateAggregating RunState = "aggregating"
	RunStateDone        RunState = "done"
	RunStateFailed      RunState = "failed"
)

// DeliveryOutcome is the result of dispatching one message to one recipient.
type DeliveryOutcome struct {
	HomeworkID string
	Recipient  string
	Sent       bool
	Err        error
	Duration   time.Duration
}

// DeliveryFailure describes a failed delivery in a batch result.
type DeliveryFailure struct {
	HomeworkID string `json:"homeworkId"`
	Recipient  string `json:"recipient"`
	Error      string `json:"error"`
}

// SkippedHomework is a homework excluded from a run, e.g. because its due date is unreadable.
type SkippedHomework struct {
	HomeworkID string `json:"homeworkId"`
	Reason     string `json:"reason"`
}

// NotificationBatchResult aggregates one run. It is never persisted.
type NotificationBatchResult struct {
	Kind           NotificationKind  `json:"kind"`
	State          RunState          `json:"state"`
	HomeworkCount  int               `json:"homeworkCount"`
	RecipientCount int               `json:"recipientCount"`
	Succeeded      int               `json:"succeeded"`
	Failed         int               `json:"failed"`
	Failures       []DeliveryFailure `json:"failures,omitempty"`
	Skipped        []SkippedHomework `json:"skipped,omitempty"`
	StartedAt      time.Time         `json:"startedAt"`
	FinishedAt     time.Time         `json:"finishedAt"`
}

// Record folds one outcome into the aggregate.
func (r *NotificationBatchResult) Record(outcome DeliveryOutcome) {
	r.RecipientCount++
	if outcome.Sent {
		r.Succeeded++
		return
	}
	r.Failed++
	msg := "unknown error"
	if outcome.Err != nil {
		msg = outcome.Err.Error()
	}
	r.Failures = append(r.Failures, DeliveryFailure{
		HomeworkID: outcome.HomeworkID,
		Recipient:  outcome.Recipient,
		Error:      msg,
	})
}
