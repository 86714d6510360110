package service

import (
	"fmt"
	"time"
)

type remainingUnit int

const (
	remainingUnderAnHour remainingUnit = iota
	remainingHours
	remainingDays
)

// remaining buckets the time left until due. Counts are rounded up; due dates
// in the past fall in the under-an-hour bucket.
func remaining(due, now time.Time) (remainingUnit, int) {
	diff := due.Sub(now)
	if diff <= 0 {
		return remainingUnderAnHour, 0
	}
	days := ceilDiv(diff, 24*time.Hour)
	if days > 1 {
		return remainingDays, days
	}
	hours := ceilDiv(diff, time.Hour)
	if hours > 1 {
		return remainingHours, hours
	}
	return remainingUnderAnHour, 0
}

func ceilDiv(d, unit time.Duration) int {
	n := d / unit
	if d%unit != 0 {
		n++
	}
	return int(n)
}

// TimeRemaining labels how long is left before a due date.
type TimeRemaining struct {
	locale Locale
	now    func() time.Time
}

// NewTimeRemaining builds the utility. A nil clock uses time.Now.
func NewTimeRemaining(locale Locale, now func() time.Time) *TimeRemaining {
	if now == nil {
		now = time.Now
	}
	return &TimeRemaining{locale: locale, now: now}
}

// Label returns the remaining-time label for due relative to the current clock.
func (t *TimeRemaining) Label(due time.Time) string {
	return t.LabelAt(due, t.now())
}

// LabelAt returns the remaining-time label for due relative to now.
func (t *TimeRemaining) LabelAt(due, now time.Time) string {
	unit, count := remaining(due, now)
	switch unit {
	case remainingDays:
		return fmt.Sprintf(t.locale.DaysFormat, count)
	case remainingHours:
		return fmt.Sprintf(t.locale.HoursFormat, count)
	default:
		return t.locale.UnderAnHour
	}
}
