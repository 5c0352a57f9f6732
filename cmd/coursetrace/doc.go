// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

// Package main is the coursetrace entry point: one batch run over the
// activity store producing the engagement report files.
//
// The run proceeds in order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, config.yaml,
//     environment variables; highest priority wins)
//  2. Database: open the DuckDB activity store
//  3. Engagement: one sequential pass over the ordered event stream,
//     segmenting sessions and aggregating weekly effort per course
//  4. Reports: write the summary, session detail and weekly effort
//     files (plus the optional JSON summary)
//
// An optional Prometheus listener (METRICS_ENABLED=true) exposes
// /metrics for the duration of the run, which matters for long batch
// jobs over multi-year event archives.
//
// # Example Usage
//
// Process everything in the store:
//
//	export DUCKDB_PATH=/data/coursetrace.duckdb
//	export REPORTS_DIR=/data/reports
//	./coursetrace
//
// Restrict to one course and the elapsed-time heuristic:
//
//	export ENGAGEMENT_COURSE=Engineering/Solar/Fall2014
//	export ENGAGEMENT_HEURISTIC=elapsed
//	./coursetrace
package main
