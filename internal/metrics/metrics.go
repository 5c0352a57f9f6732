// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

// Package metrics provides Prometheus instrumentation for the engagement
// pipeline: event throughput, filtering, session and course counters, and
// per-course processing latency. Metrics are registered via promauto and
// exposed through the optional /metrics listener in the entrypoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsConsumed counts activity events read from the store.
	EventsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engagement_events_consumed_total",
			Help: "Total number of activity events consumed from the store",
		},
	)

	// EventsFiltered counts events dropped before segmentation.
	EventsFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_events_filtered_total",
			Help: "Total number of activity events dropped before segmentation",
		},
		[]string{"reason"}, // "empty_id", "fake_course", "ghost_student", "excluded_kind"
	)

	// SessionsClosed counts sessions emitted by the segmenter.
	SessionsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engagement_sessions_closed_total",
			Help: "Total number of usage sessions closed by the segmenter",
		},
	)

	// CoursesProcessed counts courses that produced a summary record.
	CoursesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engagement_courses_processed_total",
			Help: "Total number of courses fully processed",
		},
	)

	// CoursesSkipped counts courses dropped before aggregation.
	CoursesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_courses_skipped_total",
			Help: "Total number of courses skipped",
		},
		[]string{"reason"}, // "no_runtime", "invalid_runtime", "too_short", "year_filtered"
	)

	// CourseDuration observes wall-clock processing time per course.
	CourseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engagement_course_processing_seconds",
			Help:    "Wall-clock time spent processing one course",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	// DBQueryDuration observes activity-store query latency.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)
)

// RecordEventFiltered increments the filter counter for one reason.
func RecordEventFiltered(reason string) {
	EventsFiltered.WithLabelValues(reason).Inc()
}

// RecordCourseSkipped increments the skip counter for one reason.
func RecordCourseSkipped(reason string) {
	CoursesSkipped.WithLabelValues(reason).Inc()
}

// RecordCourseProcessed observes one completed course and its duration.
func RecordCourseProcessed(elapsed time.Duration) {
	CoursesProcessed.Inc()
	CourseDuration.Observe(elapsed.Seconds())
}

// RecordDBQuery observes one store query.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}
