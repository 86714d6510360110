package service

import "github.com/noah-isme/homework-tracker-api/internal/models"

// IsEligible reports whether a subscriber with the given opt-outs should be
// notified about homeworkID. A nil opt-out set is eligible for everything.
func IsEligible(homeworkID string, optOuts models.StringList) bool {
	return !optOuts.Contains(homeworkID)
}

// eligibleRecipients returns the subscribers that have not opted out of homeworkID.
func eligibleRecipients(homeworkID string, subscribers []models.Subscriber) []models.Subscriber {
	eligible := make([]models.Subscriber, 0, len(subscribers))
	for _, sub := range subscribers {
		if IsEligible(homeworkID, sub.UnsubscribedHomeworks) {
			eligible = append(eligible, sub)
		}
	}
	return eligible
}
