// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import "github.com/tomtom215/coursetrace/internal/models"

// KindSet is a set of event kinds. A nil KindSet matches everything,
// which lets "no allow-list configured" mean "all kinds qualify" without
// a separate flag.
type KindSet map[models.EventKind]struct{}

// NewKindSet builds a KindSet from kind names. An empty input yields a
// nil set, i.e. match-all.
func NewKindSet(kinds ...string) KindSet {
	if len(kinds) == 0 {
		return nil
	}
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[models.EventKind(k)] = struct{}{}
	}
	return s
}

// Contains reports whether the kind is in the set. A nil set contains
// every kind.
func (s KindSet) Contains(k models.EventKind) bool {
	if s == nil {
		return true
	}
	_, ok := s[k]
	return ok
}

// defaultVideoKindNames are the player events the platform emits while a
// student interacts with course videos.
var defaultVideoKindNames = []string{
	"load_video",
	"play_video",
	"pause_video",
	"stop_video",
	"seek_video",
	"speed_change_video",
}

// defaultEngagementKindNames is the closed allow-list of event kinds
// considered engagement-bearing. Events outside this list (instructor
// actions, API noise, profile edits) carry no time-on-task signal and
// are excluded entirely.
var defaultEngagementKindNames = []string{
	// video player
	"load_video",
	"play_video",
	"pause_video",
	"stop_video",
	"seek_video",
	"speed_change_video",
	"show_transcript",
	"hide_transcript",
	// problems
	"problem_check",
	"problem_check_fail",
	"problem_graded",
	"problem_reset",
	"problem_save",
	"problem_show",
	"reset_problem",
	"save_problem_check",
	"save_problem_check_fail",
	"save_problem_fail",
	"save_problem_success",
	"showanswer",
	// courseware navigation
	"seq_goto",
	"seq_next",
	"seq_prev",
	"page_close",
	// textbook
	"book",
	"textbook.pdf.page.navigated",
	"textbook.pdf.page.scrolled",
	"textbook.pdf.display.scaled",
	"textbook.pdf.thumbnails.toggled",
	// forum
	"edx.forum.searched",
	"edx.forum.thread.created",
	"edx.forum.response.created",
	"edx.forum.comment.created",
	// open assessment
	"openassessmentblock.save_submission",
	"openassessmentblock.self_assess",
	"openassessmentblock.peer_assess",
}

// DefaultVideoKinds returns the built-in video kind set.
func DefaultVideoKinds() KindSet {
	return NewKindSet(defaultVideoKindNames...)
}

// DefaultEngagementKinds returns the built-in engagement allow-list.
func DefaultEngagementKinds() KindSet {
	return NewKindSet(defaultEngagementKindNames...)
}
