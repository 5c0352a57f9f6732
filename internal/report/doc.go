// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

// Package report writes the three engagement output tables: the
// per-course summary, the full session detail and the weekly effort
// rows. Column names and layouts are kept byte-compatible with the
// historical CSV exports so existing downstream notebooks keep working;
// the JSON summary is the machine-friendly addition.
package report
