// Package policy computes derived, date-relative properties of signals.
// All functions are pure: they take an explicit as-of date so reports stay
// deterministic under --as-of overrides.
package policy

import (
	"time"

	"github.com/groupscholar/sigcat/internal/models"
)

// DateOnly truncates a timestamp to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b − a in whole days, comparing calendar dates.
func daysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// IsOverdue reports whether an open signal's due date has passed.
// Closed signals and signals without a due date are never overdue.
func IsOverdue(s *models.Signal, asOf time.Time) bool {
	if s.Status != models.StatusOpen || s.Due == nil {
		return false
	}
	return DateOnly(*s.Due).Before(DateOnly(asOf))
}

// IsDueSoon reports whether an open signal is due within windowDays of asOf
// (inclusive on both ends).
func IsDueSoon(s *models.Signal, asOf time.Time, windowDays int) bool {
	if s.Status != models.StatusOpen || s.Due == nil {
		return false
	}
	d := daysBetween(asOf, *s.Due)
	return d >= 0 && d <= windowDays
}

// DaysOverdue returns how many whole days past due an open signal is,
// and 0 for closed signals or signals without a due date.
func DaysOverdue(s *models.Signal, asOf time.Time) int {
	if !IsOverdue(s, asOf) {
		return 0
	}
	return daysBetween(*s.Due, asOf)
}

// AgeDays returns the signal's age in whole days as of the given date.
func AgeDays(s *models.Signal, asOf time.Time) int {
	d := daysBetween(s.CreatedAt, asOf)
	if d < 0 {
		return 0
	}
	return d
}

// CycleDays returns the creation-to-close time in whole days for a closed
// signal, or 0 if the signal has never been closed.
func CycleDays(s *models.Signal) int {
	if s.ClosedAt == nil {
		return 0
	}
	d := daysBetween(s.CreatedAt, *s.ClosedAt)
	if d < 0 {
		return 0
	}
	return d
}

// DaysSince returns asOf − t in whole days, never negative.
func DaysSince(t, asOf time.Time) int {
	d := daysBetween(t, asOf)
	if d < 0 {
		return 0
	}
	return d
}

// IsStale reports whether an open signal has gone staleDays or more without
// an update.
func IsStale(s *models.Signal, asOf time.Time, staleDays int) bool {
	if s.Status != models.StatusOpen {
		return false
	}
	return daysBetween(s.UpdatedAt, asOf) >= staleDays
}

// WeekStart returns the Monday of the ISO week containing t, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	d := DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}
