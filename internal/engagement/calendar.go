// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import "time"

// WeekNumber returns the calendar week number of d with two deliberate
// corrections to ISO-8601 so week numbers stay with the reporting year:
//
//   - December days that ISO attributes to week 1 of the following year
//     are reported as week 52 of the current year.
//   - January days that ISO attributes to week 52 or 53 of the previous
//     year are reported as week 1, or week 2 for a lone trailing Sunday.
//
// Do not replace this with plain ISOWeek; weekly report buckets depend
// on the corrected values.
func WeekNumber(d time.Time) int {
	_, week := d.ISOWeek()
	switch {
	case week == 1 && d.Month() == time.December:
		return 52
	case week >= 52 && d.Month() == time.January:
		if d.Weekday() == time.Sunday {
			return 2
		}
		return 1
	default:
		return week
	}
}

// WeeksToEndOfYear returns the number of week buckets between d and the
// end of d's year, counting the partial bucket containing Dec 31.
func WeeksToEndOfYear(d time.Time) int {
	eoy := time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, d.Location())
	days := int(eoy.Sub(startOfDay(d)).Hours() / 24)
	return days/7 + 1
}

// CourseWeekNumber returns the one-based calendar week of the course
// that d falls into, counted from the week containing courseStart.
// The second return is false when d precedes the course start.
func CourseWeekNumber(courseStart, d time.Time) (int, bool) {
	if d.Before(courseStart) {
		return 0, false
	}
	if d.Year() == courseStart.Year() {
		return WeekNumber(d) - WeekNumber(courseStart) + 1, true
	}
	eoy := time.Date(courseStart.Year(), time.December, 31, 0, 0, 0, 0, courseStart.Location())
	weeksLeftInStartYear := int(eoy.Sub(startOfDay(courseStart)).Hours()/24) / 7
	fullIntermediateYears := d.Year() - courseStart.Year() - 1
	return weeksLeftInStartYear + 52*fullIntermediateYears + WeekNumber(d), true
}

// WeekDate returns the first day (Monday) of the given one-based course
// week, the inverse of CourseWeekNumber up to the containing week.
func WeekDate(courseStart time.Time, week int) time.Time {
	return mondayOf(courseStart).AddDate(0, 0, (week-1)*7)
}

// mondayOf returns the Monday of the week containing d, at midnight.
func mondayOf(d time.Time) time.Time {
	back := (int(d.Weekday()) + 6) % 7
	return startOfDay(d).AddDate(0, 0, -back)
}

// startOfDay truncates d to midnight in its own location.
func startOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
