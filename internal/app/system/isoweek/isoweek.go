// internal/app/system/isoweek/isoweek.go

// Package isoweek computes the Monday that keys a calendar week.
//
// Buddy pairings are keyed by (group_id, week_start) where week_start is the
// Monday of the ISO week, stored as a date with no time-of-day component.
// The Monday is determined in the reference time's own location (so a group
// generating late Sunday night local time stays in the local week), then
// normalized to midnight UTC so equality comparisons in queries are exact.
package isoweek

import "time"

// WeekStart returns the Monday of t's week as a date at midnight UTC.
// Sunday belongs to the week that began the previous Monday.
func WeekStart(t time.Time) time.Time {
	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// SameWeek reports whether a and b fall in the same Monday-keyed week.
func SameWeek(a, b time.Time) bool {
	return WeekStart(a).Equal(WeekStart(b))
}

// IsMonday reports whether t is a Monday in its own location.
func IsMonday(t time.Time) bool {
	return t.Weekday() == time.Monday
}
