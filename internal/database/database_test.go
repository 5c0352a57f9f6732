// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/coursetrace/internal/config"
	"github.com/tomtom215/coursetrace/internal/engagement"
	"github.com/tomtom215/coursetrace/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func mkEvent(course, student string, t time.Time, kind string) models.Event {
	return models.Event{Course: course, Student: student, Time: t, Kind: models.EventKind(kind)}
}

func drain(t *testing.T, it engagement.EventIterator) []models.Event {
	t.Helper()
	defer func() {
		if err := it.Close(); err != nil {
			t.Errorf("Close iterator: %v", err)
		}
	}()
	var out []models.Event
	for {
		ev, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestEventsOrdering(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2014, time.January, 6, 10, 0, 0, 0, time.UTC)

	// Inserted deliberately out of order; the stream must come back
	// sorted by (course, student, time).
	events := []models.Event{
		mkEvent("b-course", "zoe", base, "seq_next"),
		mkEvent("a-course", "ben", base.Add(time.Hour), "play_video"),
		mkEvent("a-course", "abby", base.Add(2*time.Hour), "problem_check"),
		mkEvent("a-course", "abby", base, "play_video"),
	}
	if err := db.InsertEvents(ctx, events); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}

	it, err := db.Events(ctx, "")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	got := drain(t, it)

	if len(got) != 4 {
		t.Fatalf("got %d events, want 4", len(got))
	}
	wantOrder := []struct {
		course, student string
		time            time.Time
	}{
		{"a-course", "abby", base},
		{"a-course", "abby", base.Add(2 * time.Hour)},
		{"a-course", "ben", base.Add(time.Hour)},
		{"b-course", "zoe", base},
	}
	for i, w := range wantOrder {
		if got[i].Course != w.course || got[i].Student != w.student || !got[i].Time.Equal(w.time) {
			t.Errorf("event %d = %s/%s@%v, want %s/%s@%v",
				i, got[i].Course, got[i].Student, got[i].Time, w.course, w.student, w.time)
		}
	}
}

func TestEventsCourseRestriction(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2014, time.January, 6, 10, 0, 0, 0, time.UTC)

	err := db.InsertEvents(ctx, []models.Event{
		mkEvent("a-course", "abby", base, "play_video"),
		mkEvent("b-course", "zoe", base, "seq_next"),
	})
	if err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}

	it, err := db.Events(ctx, "b-course")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	got := drain(t, it)
	if len(got) != 1 || got[0].Course != "b-course" {
		t.Errorf("got %+v, want only b-course events", got)
	}
}

func TestCourseRunLookup(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	run := models.CourseRun{
		Course: "a-course",
		Start:  time.Date(2014, time.January, 6, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2014, time.February, 3, 0, 0, 0, 0, time.UTC),
	}
	if err := db.UpsertCourseRun(ctx, run); err != nil {
		t.Fatalf("UpsertCourseRun: %v", err)
	}

	got, found, err := db.CourseRun(ctx, "a-course")
	if err != nil || !found {
		t.Fatalf("CourseRun = (%v, %v), want found", found, err)
	}
	if got.Course != run.Course || !got.Start.Equal(run.Start) || !got.End.Equal(run.End) {
		t.Errorf("CourseRun = %+v, want %+v", got, run)
	}

	_, found, err = db.CourseRun(ctx, "missing-course")
	if err != nil {
		t.Fatalf("CourseRun(missing): %v", err)
	}
	if found {
		t.Error("CourseRun(missing) reported found")
	}

	// Upsert replaces.
	run.End = run.End.AddDate(0, 1, 0)
	if err := db.UpsertCourseRun(ctx, run); err != nil {
		t.Fatalf("second UpsertCourseRun: %v", err)
	}
	got, _, err = db.CourseRun(ctx, "a-course")
	if err != nil {
		t.Fatalf("CourseRun after upsert: %v", err)
	}
	if !got.End.Equal(run.End) {
		t.Errorf("end after upsert = %v, want %v", got.End, run.End)
	}
}

func TestCountEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	n, err := db.CountEvents(ctx)
	if err != nil || n != 0 {
		t.Fatalf("CountEvents on empty store = (%d, %v), want 0", n, err)
	}
	base := time.Date(2014, time.January, 6, 10, 0, 0, 0, time.UTC)
	if err := db.InsertEvents(ctx, []models.Event{mkEvent("a-course", "abby", base, "play_video")}); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}
	n, err = db.CountEvents(ctx)
	if err != nil || n != 1 {
		t.Errorf("CountEvents = (%d, %v), want 1", n, err)
	}
}

// TestComputerOverStore runs the whole pipeline against a real store.
func TestComputerOverStore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	jan := func(day, h, m int) time.Time {
		return time.Date(2014, time.January, day, h, m, 0, 0, time.UTC)
	}

	err := db.UpsertCourseRun(ctx, models.CourseRun{
		Course: "Engineering/Solar/Fall2014",
		Start:  jan(6, 0, 0),
		End:    time.Date(2014, time.February, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("UpsertCourseRun: %v", err)
	}

	err = db.InsertEvents(ctx, []models.Event{
		mkEvent("Engineering/Solar/Fall2014", "abby", jan(6, 10, 0), "play_video"),
		mkEvent("Engineering/Solar/Fall2014", "abby", jan(6, 10, 10), "problem_check"),
		mkEvent("Engineering/Solar/Fall2014", "ben", jan(7, 9, 0), "problem_check"),
	})
	if err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}

	c := engagement.NewComputer(engagement.Options{}, db)
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	results := c.Results()
	if len(results) != 1 {
		t.Fatalf("got %d courses, want 1", len(results))
	}
	stats := results[0].Stats
	if stats.TotalSessions != 2 {
		t.Errorf("total sessions = %d, want 2", stats.TotalSessions)
	}
	// abby 15+5, ben 5.
	if stats.TotalMinutes != 25 {
		t.Errorf("total minutes = %d, want 25", stats.TotalMinutes)
	}
	if stats.ActiveLearners != 1 {
		t.Errorf("active learners = %d, want 1", stats.ActiveLearners)
	}
}
