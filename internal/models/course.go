// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package models

import (
	"math"
	"time"
)

// CourseRun holds the start and end timestamps of one course offering,
// fetched once per course from the course_runtimes table. Runs shorter
// than MinCourseDays are treated as test or sandbox artifacts and the
// whole course is skipped.
type CourseRun struct {
	Course string    `json:"course"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// MinCourseDays is the minimum course length considered a real offering.
const MinCourseDays = 7

// Days returns the whole number of days the course ran.
func (r CourseRun) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Weeks returns the number of 7-day buckets the course spans, rounding
// the trailing partial week up.
func (r CourseRun) Weeks() int {
	return int(math.Ceil(float64(r.Days()) / 7))
}

// Valid reports whether the run can be partitioned into weeks at all:
// the end must not precede the start and the run must last at least
// MinCourseDays.
func (r CourseRun) Valid() bool {
	return !r.End.Before(r.Start) && r.Days() >= MinCourseDays
}
