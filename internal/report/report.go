// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/coursetrace/internal/logging"
	"github.com/tomtom215/coursetrace/internal/models"
)

// Output file names, fixed so downstream jobs can glob for them.
const (
	SummaryFile     = "engagement_summary.csv"
	SessionsFile    = "engagement_all_data.csv"
	WeeklyFile      = "engagement_weekly_effort.csv"
	SummaryJSONFile = "engagement_summary.json"
)

// SessionSource streams every closed session of every processed course.
type SessionSource interface {
	EachSession(fn func(course string, rec models.SessionRecord) error) error
}

// EffortSource streams every student-week of every processed course.
type EffortSource interface {
	EachWeeklyEffort(fn func(course string, e models.WeeklyEffort) error) error
}

// Writer writes the engagement report files into one directory.
type Writer struct {
	// Dir is the output directory, created on demand.
	Dir string
	// Platform labels every row, e.g. "OpenEdX".
	Platform string
	// JSONSummary additionally writes the summary as JSON.
	JSONSummary bool
}

// WriteAll writes every configured report file.
func (w *Writer) WriteAll(stats []models.CourseStats, sessions SessionSource, efforts EffortSource) error {
	if err := os.MkdirAll(w.Dir, 0o750); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", w.Dir, err)
	}

	if err := w.writeFile(SummaryFile, func(f io.Writer) error {
		return WriteSummaryCSV(f, w.Platform, stats)
	}); err != nil {
		return err
	}
	if err := w.writeFile(SessionsFile, func(f io.Writer) error {
		return WriteSessionsCSV(f, w.Platform, sessions)
	}); err != nil {
		return err
	}
	if err := w.writeFile(WeeklyFile, func(f io.Writer) error {
		return WriteWeeklyCSV(f, w.Platform, efforts)
	}); err != nil {
		return err
	}
	if w.JSONSummary {
		if err := w.writeFile(SummaryJSONFile, func(f io.Writer) error {
			return WriteSummaryJSON(f, stats)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFile(name string, write func(io.Writer) error) error {
	path := filepath.Join(w.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	logging.Info().Str("file", path).Msg("report written")
	return nil
}

// WriteSummaryCSV writes one row per course. The column names are the
// historical export's, including the bucket columns naming their median
// ranges.
func WriteSummaryCSV(w io.Writer, platform string, stats []models.CourseStats) error {
	cw := csv.NewWriter(w)
	header := []string{
		"platform",
		"course_display_name",
		"TotalStudentSessions",
		"TotalEffortAllStudents",
		"MedPerWeekOneToTwenty",
		"MedPerWeekTwentyoneToSixty",
		"MedPerWeekGreaterSixty",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range stats {
		row := []string{
			platform,
			s.Course,
			strconv.Itoa(s.TotalSessions),
			strconv.Itoa(s.TotalMinutes),
			strconv.Itoa(s.Buckets.Low),
			strconv.Itoa(s.Buckets.Mid),
			strconv.Itoa(s.Buckets.High),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSessionsCSV writes one row per closed session, with the start
// split into date and time-of-day columns the way the historical export
// did.
func WriteSessionsCSV(w io.Writer, platform string, src SessionSource) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Platform", "Course", "Student", "Date", "Time", "SessionLength"}); err != nil {
		return err
	}
	err := src.EachSession(func(course string, rec models.SessionRecord) error {
		return cw.Write([]string{
			platform,
			course,
			rec.Student,
			rec.Start.Format("2006-01-02"),
			rec.Start.Format("15:04:05"),
			formatMinutes(rec.Minutes),
		})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteWeeklyCSV writes one row per student-week. Weeks are one-based
// in the export.
func WriteWeeklyCSV(w io.Writer, platform string, src EffortSource) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"platform", "course", "student", "week", "effortMinutes"}); err != nil {
		return err
	}
	err := src.EachWeeklyEffort(func(course string, e models.WeeklyEffort) error {
		return cw.Write([]string{
			platform,
			course,
			e.Student,
			strconv.Itoa(e.Week + 1),
			formatMinutes(e.Minutes),
		})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryJSON writes the summary as an indented JSON array.
func WriteSummaryJSON(w io.Writer, stats []models.CourseStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
