// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

// Package models defines the shared data structures that flow through the
// engagement pipeline: raw activity events, closed session records, course
// run metadata, weekly effort rows and the final per-course statistics.
//
// All types here are plain data. Ownership rules:
//
//   - Event and CourseRun are read-only inputs fetched per course.
//   - SessionRecord is immutable once emitted by the segmenter.
//   - WeeklyEffort and CourseStats are produced by the aggregator and
//     reducer and accumulate in per-course result sets.
package models
