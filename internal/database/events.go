// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/coursetrace/internal/engagement"
	"github.com/tomtom215/coursetrace/internal/metrics"
	"github.com/tomtom215/coursetrace/internal/models"
)

// DB implements engagement.ActivitySource.
var _ engagement.ActivitySource = (*DB)(nil)

// Events opens the ordered activity stream. The ORDER BY clause is the
// segmenter's input contract: all events of one course arrive together,
// within a course all events of one student arrive together, within a
// student ascending by time.
func (db *DB) Events(ctx context.Context, course string) (engagement.EventIterator, error) {
	start := time.Now()

	query := `SELECT course_display_name, anon_screen_name, event_type, time
		FROM activities`
	args := []any{}
	if course != "" {
		query += ` WHERE course_display_name = ?`
		args = append(args, course)
	}
	query += ` ORDER BY course_display_name, anon_screen_name, time`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	metrics.RecordDBQuery("select", "activities", time.Since(start))
	return &eventRows{rows: rows}, nil
}

// CourseRun looks up a course's runtime. A missing row is reported via
// the bool, not as an error.
func (db *DB) CourseRun(ctx context.Context, course string) (models.CourseRun, bool, error) {
	start := time.Now()

	var run models.CourseRun
	run.Course = course
	err := db.conn.QueryRowContext(ctx,
		`SELECT course_start_date, course_end_date FROM course_runtimes WHERE course_display_name = ?`,
		course).Scan(&run.Start, &run.End)
	metrics.RecordDBQuery("select", "course_runtimes", time.Since(start))

	if errors.Is(err, sql.ErrNoRows) {
		return models.CourseRun{}, false, nil
	}
	if err != nil {
		return models.CourseRun{}, false, fmt.Errorf("failed to look up runtime for %s: %w", course, err)
	}
	return run, true, nil
}

// eventRows adapts *sql.Rows to engagement.EventIterator.
type eventRows struct {
	rows *sql.Rows
}

func (r *eventRows) Next() (models.Event, bool, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return models.Event{}, false, fmt.Errorf("activity scan failed: %w", err)
		}
		return models.Event{}, false, nil
	}

	var (
		ev   models.Event
		kind string
	)
	if err := r.rows.Scan(&ev.Course, &ev.Student, &kind, &ev.Time); err != nil {
		return models.Event{}, false, fmt.Errorf("failed to scan activity row: %w", err)
	}
	ev.Kind = models.EventKind(kind)
	return ev, true, nil
}

func (r *eventRows) Close() error {
	return r.rows.Close()
}
