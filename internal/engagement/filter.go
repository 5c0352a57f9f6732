// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import (
	"regexp"

	"github.com/tomtom215/coursetrace/internal/models"
)

// Filter reasons reported to metrics and logs.
const (
	ReasonEmptyID      = "empty_id"
	ReasonFakeCourse   = "fake_course"
	ReasonGhostStudent = "ghost_student"
	ReasonExcludedKind = "excluded_kind"
)

// DefaultFakeCoursePattern matches course names of test, sandbox and
// demo artifacts that accumulated in the production tracking logs,
// including space-mangled variants of the How_to_Learn_Math course.
var DefaultFakeCoursePattern = regexp.MustCompile(
	`([Tt]est|[Ss]and[Bb]ox|[Dd]avid|[Dd]emo|Humaanities|SampleUniversity|[Jj]ane|ZZZ|Education/EDUC115N[^\s]*\s)`)

// DefaultGhostStudents are screen names known to be load-test or
// instrumentation artifacts rather than people.
var DefaultGhostStudents = []string{
	"9c1185a5c5e9fc54612808977ee8f548b2258d31",
	"3c1276fa_c58b_43ef_bafa_d4d9f18bedf5",
	"c8ced366_1048_4b4a_8e36_aa60f7b53dd8",
}

// Filter drops events that must not reach segmentation: empty
// identifiers, fake/test courses, ghost students and kinds outside the
// engagement allow-list. Dropping is per event and never fatal.
type Filter struct {
	fakeCourse *regexp.Regexp
	ghosts     map[string]struct{}
	kinds      KindSet
}

// NewFilter builds a filter. A nil pattern keeps the default fake-course
// pattern, an empty ghost list keeps the default ghosts, and a nil kind
// set admits every kind.
func NewFilter(fakeCourse *regexp.Regexp, ghostStudents []string, kinds KindSet) *Filter {
	if fakeCourse == nil {
		fakeCourse = DefaultFakeCoursePattern
	}
	if len(ghostStudents) == 0 {
		ghostStudents = DefaultGhostStudents
	}
	ghosts := make(map[string]struct{}, len(ghostStudents))
	for _, g := range ghostStudents {
		ghosts[g] = struct{}{}
	}
	return &Filter{
		fakeCourse: fakeCourse,
		ghosts:     ghosts,
		kinds:      kinds,
	}
}

// Skip reports whether the event must be dropped and why.
func (f *Filter) Skip(ev models.Event) (string, bool) {
	if ev.Course == "" || ev.Student == "" {
		return ReasonEmptyID, true
	}
	if f.fakeCourse.MatchString(ev.Course) {
		return ReasonFakeCourse, true
	}
	if _, ok := f.ghosts[ev.Student]; ok {
		return ReasonGhostStudent, true
	}
	if !f.kinds.Contains(ev.Kind) {
		return ReasonExcludedKind, true
	}
	return "", false
}
