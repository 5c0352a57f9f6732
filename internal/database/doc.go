// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

// Package database is the DuckDB activity store: the tracking events
// exported from the learning platform plus the course runtime table,
// exposed to the engagement pipeline as an ordered event stream.
//
// DuckDB fits this workload well: a single analytical pass over a large
// append-only table, no concurrent writers, and the whole store in one
// file (or fully in memory for tests).
package database
