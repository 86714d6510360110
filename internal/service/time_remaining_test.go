package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeRemainingLabels(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	labels := NewTimeRemaining(LocaleFor("fr"), func() time.Time { return now })

	cases := []struct {
		name string
		due  time.Duration
		want string
	}{
		{"three days", 72 * time.Hour, "3 jours"},
		{"just over a day rounds up", 25 * time.Hour, "2 jours"},
		{"exactly one day", 24 * time.Hour, "24 heures"},
		{"hours round up", 2*time.Hour + 30*time.Minute, "3 heures"},
		{"ninety minutes", 90 * time.Minute, "2 heures"},
		{"exactly one hour", time.Hour, "moins d'une heure"},
		{"under an hour", 59 * time.Minute, "moins d'une heure"},
		{"already due", 0, "moins d'une heure"},
		{"overdue by days", -72 * time.Hour, "moins d'une heure"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, labels.Label(now.Add(tc.due)))
		})
	}
}

func TestTimeRemainingBuckets(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for h := 25; h < 24*30; h += 7 {
		unit, count := remaining(now.Add(time.Duration(h)*time.Hour), now)
		assert.Equal(t, remainingDays, unit)
		assert.GreaterOrEqual(t, count, 2)
	}
	for m := 61; m <= 24*60; m += 13 {
		unit, count := remaining(now.Add(time.Duration(m)*time.Minute), now)
		assert.Equal(t, remainingHours, unit)
		assert.GreaterOrEqual(t, count, 2)
	}
}

func TestTimeRemainingEnglish(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	labels := NewTimeRemaining(LocaleFor("en-GB"), nil)

	assert.Equal(t, "4 days", labels.LabelAt(now.Add(80*time.Hour), now))
	assert.Equal(t, "5 hours", labels.LabelAt(now.Add(5*time.Hour), now))
	assert.Equal(t, "less than an hour", labels.LabelAt(now.Add(10*time.Minute), now))
}
