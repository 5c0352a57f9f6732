// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package engagement

import (
	"math"
	"time"

	"github.com/tomtom215/coursetrace/internal/models"
)

// DurationPolicy decides how much engagement time an event represents.
// It is the single most consequential heuristic in the system and the
// historical record disagrees on the right constants, so it is a
// pluggable policy rather than a set of package constants.
type DurationPolicy interface {
	// Accrue returns the minutes credited for an event once its
	// successor arrives gap later within the same session.
	Accrue(kind models.EventKind, gap time.Duration) float64

	// Final returns the minutes credited for a session's last event,
	// for which no successor exists to measure against.
	Final(kind models.EventKind) float64
}

// FixedDurations credits every event a constant duration by kind:
// video events one value, everything else another.
type FixedDurations struct {
	// VideoMinutes is credited per video event.
	VideoMinutes float64
	// OtherMinutes is credited per non-video event.
	OtherMinutes float64
	// VideoKinds decides which kinds count as video.
	VideoKinds KindSet
}

// NewFixedDurations builds the fixed policy with the historical defaults
// (15 minutes per video event, 5 per other event) where zero values are
// given.
func NewFixedDurations(videoMinutes, otherMinutes float64, videoKinds KindSet) FixedDurations {
	if videoMinutes == 0 && otherMinutes == 0 {
		videoMinutes, otherMinutes = 15, 5
	}
	if videoKinds == nil {
		videoKinds = DefaultVideoKinds()
	}
	return FixedDurations{
		VideoMinutes: videoMinutes,
		OtherMinutes: otherMinutes,
		VideoKinds:   videoKinds,
	}
}

// Accrue implements DurationPolicy.
func (p FixedDurations) Accrue(kind models.EventKind, _ time.Duration) float64 {
	return p.minutesFor(kind)
}

// Final implements DurationPolicy.
func (p FixedDurations) Final(kind models.EventKind) float64 {
	return p.minutesFor(kind)
}

func (p FixedDurations) minutesFor(kind models.EventKind) float64 {
	// A nil VideoKinds set would match everything; treat that as
	// "no video kinds" instead.
	if p.VideoKinds != nil && p.VideoKinds.Contains(kind) {
		return p.VideoMinutes
	}
	return p.OtherMinutes
}

// ElapsedTime credits each non-final event the wall-clock gap to its
// successor. The session's final event has no successor and falls back
// to the fixed per-kind constants.
type ElapsedTime struct {
	// RoundToMinute rounds gaps to whole minutes; otherwise fractional
	// minutes are kept.
	RoundToMinute bool
	// Fallback supplies the final-event constants.
	Fallback FixedDurations
}

// Accrue implements DurationPolicy.
func (p ElapsedTime) Accrue(_ models.EventKind, gap time.Duration) float64 {
	minutes := gap.Minutes()
	if p.RoundToMinute {
		return math.Round(minutes)
	}
	return minutes
}

// Final implements DurationPolicy.
func (p ElapsedTime) Final(kind models.EventKind) float64 {
	return p.Fallback.Final(kind)
}
