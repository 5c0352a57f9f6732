// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekNumber(t *testing.T) {
	tests := []struct {
		name string
		d    time.Time
		want int
	}{
		{"mid-year", date(2014, time.June, 15), 24},
		{"january friday in ISO week 53", date(2010, time.January, 1), 1},
		{"january sunday in ISO week 53", date(2010, time.January, 3), 2},
		{"first ISO monday of january", date(2010, time.January, 4), 1},
		{"december sunday in ISO week 52", date(2009, time.December, 27), 52},
		{"december monday in ISO week 53", date(2009, time.December, 28), 53},
		{"december day in next year's ISO week 1", date(2014, time.December, 31), 52},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekNumber(tt.d); got != tt.want {
				t.Errorf("WeekNumber(%s) = %d, want %d", tt.d.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestWeeksToEndOfYear(t *testing.T) {
	tests := []struct {
		d    time.Time
		want int
	}{
		{date(2014, time.December, 31), 1},
		{date(2014, time.December, 25), 1},
		{date(2014, time.January, 6), 52},
	}
	for _, tt := range tests {
		if got := WeeksToEndOfYear(tt.d); got != tt.want {
			t.Errorf("WeeksToEndOfYear(%s) = %d, want %d", tt.d.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestCourseWeekNumber(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		d     time.Time
		want  int
		ok    bool
	}{
		{"first week", date(2014, time.January, 6), date(2014, time.January, 10), 1, true},
		{"fourth week", date(2014, time.January, 6), date(2014, time.February, 1), 4, true},
		{"before start", date(2014, time.January, 6), date(2014, time.January, 5), 0, false},
		{"year boundary", date(2013, time.December, 30), date(2014, time.January, 2), 1, true},
		{"spanning a full year", date(2013, time.June, 1), date(2015, time.January, 5), 84, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CourseWeekNumber(tt.start, tt.d)
			if ok != tt.ok || got != tt.want {
				t.Errorf("CourseWeekNumber(%s, %s) = (%d, %v), want (%d, %v)",
					tt.start.Format("2006-01-02"), tt.d.Format("2006-01-02"), got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWeekDate(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		week  int
		want  time.Time
	}{
		{"monday start week one", date(2014, time.January, 6), 1, date(2014, time.January, 6)},
		{"monday start week two", date(2014, time.January, 6), 2, date(2014, time.January, 13)},
		{"midweek start snaps to monday", date(2014, time.January, 8), 1, date(2014, time.January, 6)},
		{"midweek start week three", date(2014, time.January, 8), 3, date(2014, time.January, 20)},
		{"sunday start snaps back", date(2014, time.January, 12), 1, date(2014, time.January, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekDate(tt.start, tt.week); !got.Equal(tt.want) {
				t.Errorf("WeekDate(%s, %d) = %s, want %s",
					tt.start.Format("2006-01-02"), tt.week, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}
