// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import (
	"fmt"
	"time"

	"github.com/tomtom215/coursetrace/internal/models"
)

// segmenterState is the segmenter's position in its session lifecycle.
type segmenterState int

const (
	// stateIdle: no open session.
	stateIdle segmenterState = iota
	// stateOpen: a session exists but has seen only its opening event.
	stateOpen
	// stateAccumulating: the session has received follow-up events.
	stateAccumulating
)

// Segmenter reconstructs usage sessions from one course's event stream.
// It must be fed events in ascending (student, time) order; all events
// of one student arrive before the next student's. Feed every event to
// Consume, then call Flush once at end of stream.
//
// A Segmenter is single-use and owned by one course's processing pass.
// It is not safe for concurrent use.
type Segmenter struct {
	timeout time.Duration
	policy  DurationPolicy

	state    segmenterState
	student  string
	start    time.Time
	prevTime time.Time
	prevKind models.EventKind
	accrued  float64
	events   int
}

// NewSegmenter creates a segmenter with the given inactivity threshold
// and duration policy.
func NewSegmenter(timeout time.Duration, policy DurationPolicy) *Segmenter {
	return &Segmenter{
		timeout: timeout,
		policy:  policy,
		state:   stateIdle,
	}
}

// Consume feeds the next event. It returns a closed SessionRecord when
// the event terminated the previous session (inactivity gap exceeded or
// student changed), nil otherwise.
//
// A non-monotonic timestamp within one student's stream returns
// ErrNonMonotonic: the input ordering contract is violated and
// continuing would corrupt every downstream aggregate.
func (s *Segmenter) Consume(ev models.Event) (*models.SessionRecord, error) {
	if s.state == stateIdle {
		s.open(ev)
		return nil, nil
	}

	if ev.Student != s.student {
		rec, err := s.close()
		s.open(ev)
		return rec, err
	}

	if ev.Time.Before(s.prevTime) {
		return nil, fmt.Errorf("%w: student %s event at %s precedes %s",
			ErrNonMonotonic, ev.Student, ev.Time.Format(time.RFC3339), s.prevTime.Format(time.RFC3339))
	}

	gap := ev.Time.Sub(s.prevTime)
	if gap > s.timeout {
		// The closing session credits the previous event via Final;
		// the current event opens the next session.
		rec, err := s.close()
		s.open(ev)
		return rec, err
	}

	s.accrued += s.policy.Accrue(s.prevKind, gap)
	s.prevTime = ev.Time
	s.prevKind = ev.Kind
	s.events++
	s.state = stateAccumulating
	return nil, nil
}

// Flush closes any session still open at end of stream. It returns nil
// when no session was open. The segmenter is Idle afterwards.
func (s *Segmenter) Flush() (*models.SessionRecord, error) {
	if s.state == stateIdle {
		return nil, nil
	}
	return s.close()
}

// open starts a new session at ev. The opening event contributes no
// duration until a follow-up event or the forced close credits it.
func (s *Segmenter) open(ev models.Event) {
	s.state = stateOpen
	s.student = ev.Student
	s.start = ev.Time
	s.prevTime = ev.Time
	s.prevKind = ev.Kind
	s.accrued = 0
	s.events = 1
}

// close finalizes the open session, crediting the last event its
// no-successor duration, and returns the immutable record.
func (s *Segmenter) close() (*models.SessionRecord, error) {
	minutes := s.accrued + s.policy.Final(s.prevKind)
	if minutes < 0 {
		return nil, fmt.Errorf("%w: student %s session at %s computed %.2f minutes",
			ErrNegativeDuration, s.student, s.start.Format(time.RFC3339), minutes)
	}
	rec := &models.SessionRecord{
		Student:    s.student,
		Start:      s.start,
		Minutes:    minutes,
		EventCount: s.events,
	}
	s.state = stateIdle
	return rec, nil
}
