// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import "errors"

var (
	// ErrNonMonotonic indicates events for one student arrived out of
	// time order. This is an upstream contract violation and aborts the
	// run rather than silently mis-segmenting.
	ErrNonMonotonic = errors.New("events out of time order for student")

	// ErrNegativeDuration indicates a session would close with a
	// negative duration estimate, which no policy should produce.
	ErrNegativeDuration = errors.New("session closed with negative duration")

	// ErrInvalidCourseRun indicates a course whose end date precedes its
	// start date. The course is skipped.
	ErrInvalidCourseRun = errors.New("course run ends before it starts")

	// ErrCourseTooShort indicates a course run under seven days. Such
	// runs are test or sandbox artifacts and are skipped.
	ErrCourseTooShort = errors.New("course run shorter than seven days")
)
