// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import (
	"math"

	"github.com/tomtom215/coursetrace/internal/models"
)

// Reduce folds every student-week of one course into the course-wide
// summary. activeLearners is computed by the caller because "active" may
// use a narrower event-kind predicate than general engagement; the
// reducer only carries it through.
func Reduce(course string, efforts []models.WeeklyEffort, activeLearners int) models.CourseStats {
	stats := models.CourseStats{
		Course:         course,
		ActiveLearners: activeLearners,
	}

	var totalMinutes float64
	for _, e := range efforts {
		stats.TotalSessions += e.Sessions
		totalMinutes += e.Minutes
		switch e.Level {
		case models.LevelLow:
			stats.Buckets.Low++
		case models.LevelMid:
			stats.Buckets.Mid++
		case models.LevelHigh:
			stats.Buckets.High++
		}
	}
	// Rounded once here rather than per session, matching the summary
	// report's whole-minute column.
	stats.TotalMinutes = int(math.Round(totalMinutes))
	return stats
}
