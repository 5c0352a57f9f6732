// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/coursetrace/internal/logging"
	"github.com/tomtom215/coursetrace/internal/metrics"
	"github.com/tomtom215/coursetrace/internal/models"
)

// EventIterator yields activity events in ascending (course, student,
// time) order. Next returns false when the stream is exhausted.
type EventIterator interface {
	Next() (models.Event, bool, error)
	Close() error
}

// ActivitySource is the external data collaborator: the ordered event
// stream plus the course-runtime lookup.
type ActivitySource interface {
	// Events opens the ordered event stream. A non-empty course
	// restricts the stream to that course.
	Events(ctx context.Context, course string) (EventIterator, error)

	// CourseRun returns the start and end timestamps of a course. The
	// second return is false when the course has no recorded runtime,
	// which is a valid, non-fatal answer meaning "skip this course".
	CourseRun(ctx context.Context, course string) (models.CourseRun, bool, error)
}

// Options configure one Computer. The zero value gets the historical
// defaults; see each field.
type Options struct {
	// SessionTimeout is the inactivity threshold. Zero means 180
	// minutes.
	SessionTimeout time.Duration

	// Policy estimates per-event durations. Nil means FixedDurations
	// with the 15/5 minute defaults.
	Policy DurationPolicy

	// Levels are the median bucket boundaries. Zero means 20/60.
	Levels LevelThresholds

	// Filter drops events before segmentation. Nil means the default
	// filter with the built-in engagement allow-list.
	Filter *Filter

	// ActiveLearnerKinds decides which kinds credit a student as an
	// active learner. Nil means the video kinds. This predicate is
	// deliberately independent of the engagement allow-list.
	ActiveLearnerKinds KindSet

	// Years restricts processing to courses starting in the listed
	// years. Empty means all years.
	Years []int

	// Course restricts processing to one course name. Empty means all.
	Course string
}

// withDefaults resolves zero-valued options.
func (o Options) withDefaults() Options {
	if o.SessionTimeout == 0 {
		o.SessionTimeout = 180 * time.Minute
	}
	if o.Policy == nil {
		o.Policy = NewFixedDurations(15, 5, DefaultVideoKinds())
	}
	if o.Levels == (LevelThresholds{}) {
		o.Levels = DefaultLevelThresholds()
	}
	if o.Filter == nil {
		o.Filter = NewFilter(nil, nil, DefaultEngagementKinds())
	}
	if o.ActiveLearnerKinds == nil {
		o.ActiveLearnerKinds = DefaultVideoKinds()
	}
	return o
}

// CourseResult holds everything computed for one course. Sessions and
// WeeklyEfforts stay available for the detail report sinks; Stats is the
// summary record.
type CourseResult struct {
	Run           models.CourseRun
	Stats         models.CourseStats
	Sessions      map[string][]models.SessionRecord
	WeeklyEfforts []models.WeeklyEffort
}

// Computer runs the engagement computation across courses: one
// sequential pass over the sorted event stream, segmenting sessions and
// aggregating weekly effort course by course. Memory stays bounded to
// one course's working state; only the finished results accumulate.
type Computer struct {
	opts    Options
	agg     *Aggregator
	src     ActivitySource
	results []*CourseResult

	// warnedMissing remembers courses whose runtime lookup already
	// produced a warning, so a course with a million events warns once.
	warnedMissing map[string]struct{}
}

// courseState is the working state of the course currently being
// scanned. A fresh one is built per course and dropped after reduction,
// so no student data can leak across course boundaries.
type courseState struct {
	run      models.CourseRun
	seg      *Segmenter
	sessions map[string][]models.SessionRecord
	active   map[string]struct{}
	started  time.Time
}

// NewComputer creates a Computer over the given activity source.
func NewComputer(opts Options, src ActivitySource) *Computer {
	resolved := opts.withDefaults()
	return &Computer{
		opts:          resolved,
		agg:           NewAggregator(resolved.Levels),
		src:           src,
		warnedMissing: make(map[string]struct{}),
	}
}

// Run executes the pass. Skippable problems (bad events, bad courses)
// are logged and absorbed; ordering violations and source failures
// abort with an error.
func (c *Computer) Run(ctx context.Context) error {
	it, err := c.src.Events(ctx, c.opts.Course)
	if err != nil {
		return fmt.Errorf("opening event stream: %w", err)
	}
	defer func() {
		if cerr := it.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("closing event stream")
		}
	}()

	var (
		cur         *courseState
		skipCourse  string
		haveSkipped bool
	)

	for {
		ev, ok, err := it.Next()
		if err != nil {
			return fmt.Errorf("reading event stream: %w", err)
		}
		if !ok {
			break
		}
		metrics.EventsConsumed.Inc()

		if reason, skip := c.opts.Filter.Skip(ev); skip {
			metrics.RecordEventFiltered(reason)
			logging.Debug().
				Str("course", ev.Course).
				Str("student", ev.Student).
				Str("reason", reason).
				Msg("event filtered")
			continue
		}

		if haveSkipped && ev.Course == skipCourse {
			continue
		}

		if cur != nil && ev.Course == cur.run.Course {
			if err := c.consume(cur, ev); err != nil {
				return err
			}
			continue
		}

		// Course boundary: wrap up the outgoing course, then decide
		// whether the incoming one is processable.
		if cur != nil {
			if err := c.finish(cur); err != nil {
				return err
			}
			cur = nil
		}

		st, skip := c.startCourse(ctx, ev.Course)
		if skip {
			skipCourse = ev.Course
			haveSkipped = true
			continue
		}
		cur = st
		if err := c.consume(cur, ev); err != nil {
			return err
		}
	}

	if cur != nil {
		if err := c.finish(cur); err != nil {
			return err
		}
	}
	return nil
}

// consume feeds one event through the segmenter and the active-learner
// predicate.
func (c *Computer) consume(st *courseState, ev models.Event) error {
	rec, err := st.seg.Consume(ev)
	if err != nil {
		return fmt.Errorf("course %s: %w", st.run.Course, err)
	}
	if rec != nil {
		c.record(st, rec)
	}
	if c.opts.ActiveLearnerKinds.Contains(ev.Kind) {
		st.active[ev.Student] = struct{}{}
	}
	return nil
}

// record stores a closed session, preserving per-student Start order.
func (c *Computer) record(st *courseState, rec *models.SessionRecord) {
	metrics.SessionsClosed.Inc()
	st.sessions[rec.Student] = append(st.sessions[rec.Student], *rec)
}

// startCourse fetches the course runtime and decides whether the course
// is processable. The bool return is true when the course must be
// skipped; every skip is logged with its reason and counted.
func (c *Computer) startCourse(ctx context.Context, course string) (*courseState, bool) {
	run, found, err := c.src.CourseRun(ctx, course)
	if err != nil {
		logging.Warn().Err(err).Str("course", course).Msg("course runtime lookup failed, skipping course")
		metrics.RecordCourseSkipped("no_runtime")
		return nil, true
	}
	if !found {
		if _, warned := c.warnedMissing[course]; !warned {
			c.warnedMissing[course] = struct{}{}
			logging.Warn().Str("course", course).Msg("no runtime recorded for course, skipping course")
		}
		metrics.RecordCourseSkipped("no_runtime")
		return nil, true
	}

	if run.End.Before(run.Start) {
		logging.Warn().
			Str("course", course).
			Time("start", run.Start).
			Time("end", run.End).
			Msg("course ends before it starts, skipping course")
		metrics.RecordCourseSkipped("invalid_runtime")
		return nil, true
	}
	if run.Days() < models.MinCourseDays {
		logging.Warn().
			Str("course", course).
			Int("days", run.Days()).
			Msg("course shorter than one week, skipping course")
		metrics.RecordCourseSkipped("too_short")
		return nil, true
	}

	if len(c.opts.Years) > 0 && !containsInt(c.opts.Years, run.Start.Year()) {
		logging.Debug().
			Str("course", course).
			Int("year", run.Start.Year()).
			Msg("course outside requested years, skipping course")
		metrics.RecordCourseSkipped("year_filtered")
		return nil, true
	}

	logging.Info().Str("course", course).Msg("starting course")
	return &courseState{
		run:      run,
		seg:      NewSegmenter(c.opts.SessionTimeout, c.opts.Policy),
		sessions: make(map[string][]models.SessionRecord),
		active:   make(map[string]struct{}),
		started:  time.Now(),
	}, false
}

// finish flushes the last open session, aggregates the course's weeks
// and appends its result.
func (c *Computer) finish(st *courseState) error {
	rec, err := st.seg.Flush()
	if err != nil {
		return fmt.Errorf("course %s: %w", st.run.Course, err)
	}
	if rec != nil {
		c.record(st, rec)
	}

	efforts, err := c.agg.Aggregate(st.run, st.sessions)
	if err != nil {
		// The run was validated at startCourse; reaching this means
		// the validation and the aggregator disagree.
		if errors.Is(err, ErrInvalidCourseRun) || errors.Is(err, ErrCourseTooShort) {
			return fmt.Errorf("course %s passed validation but failed aggregation: %w", st.run.Course, err)
		}
		return err
	}

	c.results = append(c.results, &CourseResult{
		Run:           st.run,
		Stats:         Reduce(st.run.Course, efforts, len(st.active)),
		Sessions:      st.sessions,
		WeeklyEfforts: efforts,
	})
	metrics.RecordCourseProcessed(time.Since(st.started))
	logging.Info().
		Str("course", st.run.Course).
		Int("students", len(st.sessions)).
		Int("active_learners", len(st.active)).
		Msg("done with course")
	return nil
}

// Results returns every finished course in processing order.
func (c *Computer) Results() []*CourseResult {
	return c.results
}

// EachSession visits every closed session of every finished course in
// deterministic order (courses in processing order, students sorted,
// sessions in start order). The callback returning an error stops the
// walk.
func (c *Computer) EachSession(fn func(course string, rec models.SessionRecord) error) error {
	for _, res := range c.results {
		for _, student := range sortedKeys(res.Sessions) {
			for _, rec := range res.Sessions[student] {
				if err := fn(res.Run.Course, rec); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// EachWeeklyEffort visits every student-week of every finished course.
func (c *Computer) EachWeeklyEffort(fn func(course string, e models.WeeklyEffort) error) error {
	for _, res := range c.results {
		for _, e := range res.WeeklyEfforts {
			if err := fn(res.Run.Course, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedKeys(m map[string][]models.SessionRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}
