// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package models

// EngagementLevel classifies one student-week by the median of its
// session durations.
type EngagementLevel int

// Engagement levels, ordered. The boundaries (20 and 60 minutes by
// default) are configuration, not part of the type.
const (
	LevelLow EngagementLevel = iota
	LevelMid
	LevelHigh
)

// String returns the reporting name of the level.
func (l EngagementLevel) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMid:
		return "mid"
	case LevelHigh:
		return "high"
	default:
		return "unknown"
	}
}

// WeeklyEffort is the aggregated engagement of one student in one course
// week. Week is the zero-based 7-day bucket index counted from the
// course start date.
type WeeklyEffort struct {
	Student string `json:"student"`
	Week    int    `json:"week"`
	// Minutes is the sum of all qualifying session durations whose
	// start fell inside the week.
	Minutes float64 `json:"minutes"`
	// Sessions is the number of sessions contributing to Minutes.
	Sessions int `json:"sessions"`
	// Median is the median session duration, used only for level
	// classification.
	Median float64 `json:"median"`
	// Level is the engagement bucket the median falls into.
	Level EngagementLevel `json:"level"`
}

// LevelCounts tallies how many student-weeks fell into each engagement
// bucket for one course.
type LevelCounts struct {
	Low  int `json:"low"`
	Mid  int `json:"mid"`
	High int `json:"high"`
}

// Total returns the number of classified student-weeks.
func (c LevelCounts) Total() int {
	return c.Low + c.Mid + c.High
}

// CourseStats is the final per-course summary record.
type CourseStats struct {
	Course string `json:"course"`
	// ActiveLearners is the number of students credited with at least
	// one qualifying engagement event (by default a video event).
	ActiveLearners int `json:"active_learners"`
	// TotalSessions counts sessions across all student-weeks that had
	// at least one qualifying session.
	TotalSessions int `json:"total_sessions"`
	// TotalMinutes is the summed engagement time of those sessions,
	// rounded to a whole number of minutes.
	TotalMinutes int `json:"total_minutes"`
	// Buckets holds the engagement-level histogram over student-weeks.
	Buckets LevelCounts `json:"buckets"`
}
