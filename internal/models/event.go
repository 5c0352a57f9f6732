// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package models

import "time"

// EventKind identifies the platform event type of an activity row, e.g.
// "play_video", "problem_check" or "show_transcript". The raw tracking
// logs carry many more kinds than the engagement computation recognizes;
// the allow-list lives in the engagement package, not here.
type EventKind string

// Event is a single timestamped activity row for one student in one
// course. Events are produced by the activity store already sorted by
// (course, student, time); the segmenter depends on that ordering.
type Event struct {
	Course  string    `json:"course"`
	Student string    `json:"student"`
	Time    time.Time `json:"time"`
	Kind    EventKind `json:"kind"`
}

// SessionRecord is one closed usage session: a contiguous burst of one
// student's activity bounded by gaps no larger than the inactivity
// threshold. Records are immutable once emitted and arrive in
// non-decreasing Start order per student.
type SessionRecord struct {
	Student string    `json:"student"`
	Start   time.Time `json:"start"`
	// Minutes is the heuristic engagement estimate for the whole
	// session. Always >= 0.
	Minutes float64 `json:"minutes"`
	// EventCount is the number of events the session comprised.
	EventCount int `json:"event_count"`
}
