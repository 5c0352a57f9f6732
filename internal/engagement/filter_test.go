// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import (
	"testing"
	"time"

	"github.com/tomtom215/coursetrace/internal/models"
)

func TestFilterSkip(t *testing.T) {
	f := NewFilter(nil, nil, DefaultEngagementKinds())
	now := time.Date(2014, time.March, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ev      models.Event
		reason  string
		skipped bool
	}{
		{
			name: "kept",
			ev:   models.Event{Course: "Engineering/Solar/Fall2014", Student: "abby", Time: now, Kind: "play_video"},
		},
		{
			name:    "empty course",
			ev:      models.Event{Student: "abby", Time: now, Kind: "play_video"},
			reason:  ReasonEmptyID,
			skipped: true,
		},
		{
			name:    "empty student",
			ev:      models.Event{Course: "Engineering/Solar/Fall2014", Time: now, Kind: "play_video"},
			reason:  ReasonEmptyID,
			skipped: true,
		},
		{
			name:    "sandbox course",
			ev:      models.Event{Course: "edX/Sandbox101/2014", Student: "abby", Time: now, Kind: "play_video"},
			reason:  ReasonFakeCourse,
			skipped: true,
		},
		{
			name:    "demo course",
			ev:      models.Event{Course: "edX/Demo/2014", Student: "abby", Time: now, Kind: "play_video"},
			reason:  ReasonFakeCourse,
			skipped: true,
		},
		{
			name:    "mangled EDUC115N variant",
			ev:      models.Event{Course: "Education/EDUC115N/How ", Student: "abby", Time: now, Kind: "play_video"},
			reason:  ReasonFakeCourse,
			skipped: true,
		},
		{
			name:    "ghost student",
			ev:      models.Event{Course: "Engineering/Solar/Fall2014", Student: "9c1185a5c5e9fc54612808977ee8f548b2258d31", Time: now, Kind: "play_video"},
			reason:  ReasonGhostStudent,
			skipped: true,
		},
		{
			name:    "non-engagement kind",
			ev:      models.Event{Course: "Engineering/Solar/Fall2014", Student: "abby", Time: now, Kind: "edx.user.settings.changed"},
			reason:  ReasonExcludedKind,
			skipped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, skipped := f.Skip(tt.ev)
			if skipped != tt.skipped || reason != tt.reason {
				t.Errorf("Skip = (%q, %v), want (%q, %v)", reason, skipped, tt.reason, tt.skipped)
			}
		})
	}
}

func TestFilterNilKindsAdmitsEverything(t *testing.T) {
	f := NewFilter(nil, nil, nil)
	ev := models.Event{Course: "Engineering/Solar/Fall2014", Student: "abby", Kind: "anything_at_all"}
	if reason, skipped := f.Skip(ev); skipped {
		t.Errorf("Skip = (%q, true), want kept", reason)
	}
}

func TestKindSet(t *testing.T) {
	if NewKindSet() != nil {
		t.Error("empty NewKindSet should be nil (match-all)")
	}
	var nilSet KindSet
	if !nilSet.Contains("whatever") {
		t.Error("nil set should contain every kind")
	}

	s := NewKindSet("a", "b")
	if !s.Contains("a") || s.Contains("c") {
		t.Errorf("set membership wrong: a=%v c=%v", s.Contains("a"), s.Contains("c"))
	}
}
