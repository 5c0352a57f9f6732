// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

/*
Package engagement computes per-student time-on-task metrics from
timestamped learning-platform activity events.

The computation is a single sequential pass per course over an event
stream sorted by (course, student, time):

 1. A Segmenter reconstructs discrete usage sessions per student using an
    inactivity-timeout heuristic. Raw durations are not observable, only
    event timestamps, so a pluggable DurationPolicy estimates the time
    each event represents.
 2. An Aggregator buckets the closed sessions into 7-day course weeks
    counted from the course start date, computing per-student weekly sums
    and medians and classifying each student-week into an engagement
    level.
 3. Reduce folds the student-weeks into one CourseStats summary per
    course.

The Computer type orchestrates the pass across courses: it filters
malformed and test-artifact events, fetches course runtimes, skips
courses that cannot be partitioned into weeks, and retains per-course
results for the report sinks.

Error scope follows the noisiness of real usage logs: a bad event is
dropped, a bad course is skipped with a warning, but a violated ordering
invariant aborts the run because it would silently corrupt every
downstream aggregate.
*/
package engagement
