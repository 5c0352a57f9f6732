// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/coursetrace/internal/models"
)

type fakeSource struct {
	sessions []struct {
		course string
		rec    models.SessionRecord
	}
	efforts []struct {
		course string
		effort models.WeeklyEffort
	}
}

func (f *fakeSource) EachSession(fn func(string, models.SessionRecord) error) error {
	for _, s := range f.sessions {
		if err := fn(s.course, s.rec); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSource) EachWeeklyEffort(fn func(string, models.WeeklyEffort) error) error {
	for _, e := range f.efforts {
		if err := fn(e.course, e.effort); err != nil {
			return err
		}
	}
	return nil
}

func sampleStats() []models.CourseStats {
	return []models.CourseStats{
		{
			Course:         "Engineering/Solar/Fall2014",
			ActiveLearners: 2,
			TotalSessions:  3,
			TotalMinutes:   35,
			Buckets:        models.LevelCounts{Low: 2},
		},
	}
}

func sampleSource() *fakeSource {
	start := time.Date(2014, time.January, 6, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	src.sessions = append(src.sessions, struct {
		course string
		rec    models.SessionRecord
	}{
		course: "Engineering/Solar/Fall2014",
		rec:    models.SessionRecord{Student: "abby", Start: start, Minutes: 22.5, EventCount: 3},
	})
	src.efforts = append(src.efforts, struct {
		course string
		effort models.WeeklyEffort
	}{
		course: "Engineering/Solar/Fall2014",
		effort: models.WeeklyEffort{Student: "abby", Week: 0, Minutes: 22.5, Sessions: 1, Median: 22.5, Level: models.LevelMid},
	})
	return src
}

func parseCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing csv: %v", err)
	}
	return rows
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, "OpenEdX", sampleStats()); err != nil {
		t.Fatalf("WriteSummaryCSV: %v", err)
	}
	rows := parseCSV(t, buf.String())
	want := [][]string{
		{"platform", "course_display_name", "TotalStudentSessions", "TotalEffortAllStudents",
			"MedPerWeekOneToTwenty", "MedPerWeekTwentyoneToSixty", "MedPerWeekGreaterSixty"},
		{"OpenEdX", "Engineering/Solar/Fall2014", "3", "35", "2", "0", "0"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("summary rows = %v, want %v", rows, want)
	}
}

func TestWriteSessionsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSessionsCSV(&buf, "OpenEdX", sampleSource()); err != nil {
		t.Fatalf("WriteSessionsCSV: %v", err)
	}
	rows := parseCSV(t, buf.String())
	want := [][]string{
		{"Platform", "Course", "Student", "Date", "Time", "SessionLength"},
		{"OpenEdX", "Engineering/Solar/Fall2014", "abby", "2014-01-06", "10:00:00", "22.5"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("session rows = %v, want %v", rows, want)
	}
}

func TestWriteWeeklyCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWeeklyCSV(&buf, "OpenEdX", sampleSource()); err != nil {
		t.Fatalf("WriteWeeklyCSV: %v", err)
	}
	rows := parseCSV(t, buf.String())
	want := [][]string{
		{"platform", "course", "student", "week", "effortMinutes"},
		{"OpenEdX", "Engineering/Solar/Fall2014", "abby", "1", "22.5"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("weekly rows = %v, want %v", rows, want)
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryJSON(&buf, sampleStats()); err != nil {
		t.Fatalf("WriteSummaryJSON: %v", err)
	}
	var decoded []models.CourseStats
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding summary JSON: %v", err)
	}
	if !reflect.DeepEqual(decoded, sampleStats()) {
		t.Errorf("round-tripped stats = %+v, want %+v", decoded, sampleStats())
	}
}

func TestWriterWriteAll(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: filepath.Join(dir, "reports"), Platform: "OpenEdX", JSONSummary: true}

	if err := w.WriteAll(sampleStats(), sampleSource(), sampleSource()); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	for _, name := range []string{SummaryFile, SessionsFile, WeeklyFile, SummaryJSONFile} {
		info, err := os.Stat(filepath.Join(w.Dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
