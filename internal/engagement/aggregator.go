// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import (
	"fmt"
	"sort"

	"github.com/tomtom215/coursetrace/internal/models"
)

// LevelThresholds are the engagement-level boundaries in minutes applied
// to each student-week's median session duration: median < LowMax is
// low, LowMax <= median < MidMax is mid, above is high.
type LevelThresholds struct {
	LowMax float64
	MidMax float64
}

// DefaultLevelThresholds returns the documented 20/60 minute boundaries.
func DefaultLevelThresholds() LevelThresholds {
	return LevelThresholds{LowMax: 20, MidMax: 60}
}

// Classify maps a median session duration to its engagement level.
func (t LevelThresholds) Classify(median float64) models.EngagementLevel {
	switch {
	case median < t.LowMax:
		return models.LevelLow
	case median < t.MidMax:
		return models.LevelMid
	default:
		return models.LevelHigh
	}
}

// Aggregator buckets a course's closed sessions into 7-day weeks counted
// from the course start date and classifies each student-week.
type Aggregator struct {
	levels LevelThresholds
}

// NewAggregator creates an aggregator with the given level thresholds.
func NewAggregator(levels LevelThresholds) *Aggregator {
	if levels == (LevelThresholds{}) {
		levels = DefaultLevelThresholds()
	}
	return &Aggregator{levels: levels}
}

// Aggregate partitions every student's sessions into the course's weeks
// and returns one WeeklyEffort per (student, week) that had at least one
// qualifying session, ordered by week then student.
//
// Each student's session slice must be sorted by Start, which the
// segmenter guarantees. The scan keeps a cursor per student and
// permanently discards records that can no longer match any future week
// (start before the current week, or zero duration), so the whole
// aggregation is one linear pass per student across all weeks, not a
// re-scan per week. A session starting inside [weekStart, weekStart+7d)
// belongs to exactly that week; sessions before the course start are
// dropped.
func (a *Aggregator) Aggregate(run models.CourseRun, sessions map[string][]models.SessionRecord) ([]models.WeeklyEffort, error) {
	if run.End.Before(run.Start) {
		return nil, fmt.Errorf("%w: %s (start %s, end %s)", ErrInvalidCourseRun, run.Course, run.Start, run.End)
	}
	if run.Days() < models.MinCourseDays {
		return nil, fmt.Errorf("%w: %s lasted %d days", ErrCourseTooShort, run.Course, run.Days())
	}

	// Map iteration order is incidental; the per-week scan below must
	// visit students deterministically.
	students := make([]string, 0, len(sessions))
	for student := range sessions {
		students = append(students, student)
	}
	sort.Strings(students)

	cursors := make(map[string]int, len(students))
	var efforts []models.WeeklyEffort

	numWeeks := run.Weeks()
	for week := 0; week < numWeeks; week++ {
		weekStart := run.Start.AddDate(0, 0, 7*week)
		weekEnd := weekStart.AddDate(0, 0, 7)

		for _, student := range students {
			recs := sessions[student]
			i := cursors[student]

			// Drop records that cannot match this week or any later
			// one: starts before the window, or zero duration.
			for i < len(recs) && (recs[i].Minutes == 0 || recs[i].Start.Before(weekStart)) {
				i++
			}

			var durations []float64
			var sum float64
			j := i
			for j < len(recs) && recs[j].Start.Before(weekEnd) {
				if recs[j].Minutes != 0 {
					durations = append(durations, recs[j].Minutes)
					sum += recs[j].Minutes
				}
				j++
			}
			cursors[student] = j

			// A student-week with no qualifying session contributes
			// nothing, not a zero entry.
			if len(durations) == 0 {
				continue
			}

			med := median(durations)
			efforts = append(efforts, models.WeeklyEffort{
				Student:  student,
				Week:     week,
				Minutes:  sum,
				Sessions: len(durations),
				Median:   med,
				Level:    a.levels.Classify(med),
			})
		}
	}

	return efforts, nil
}

// median returns the median of values: the middle element for odd
// counts, the mean of the two middle elements for even counts. The
// input slice is sorted in place.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}
