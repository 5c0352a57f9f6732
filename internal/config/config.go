// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/tomtom215/coursetrace/internal/validation"
)

// Config is the full application configuration, loaded via Koanf from
// defaults, an optional YAML file and environment variables.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Engagement EngagementConfig `koanf:"engagement"`
	Reports    ReportsConfig    `koanf:"reports"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DatabaseConfig configures the DuckDB activity store.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" runs fully in-process
	// without a file, which the tests rely on.
	Path string `koanf:"path" validate:"required"`

	// MaxMemory caps DuckDB's memory use, e.g. "2GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`
}

// EngagementConfig carries every tunable of the engagement computation.
// The historical revisions of this analysis hardcoded most of these as
// mutable class-level constants; here they are explicit immutable inputs.
type EngagementConfig struct {
	// SessionTimeout is the inactivity threshold: the maximum gap
	// between two events still considered part of one session.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// Heuristic selects the duration policy: "fixed" credits each event
	// a constant per-kind duration; "elapsed" credits the wall-clock gap
	// to the next event, falling back to the fixed constants for the
	// session's final event.
	Heuristic string `koanf:"heuristic" validate:"oneof=fixed elapsed"`

	// VideoMinutes and OtherMinutes are the fixed per-kind durations.
	VideoMinutes float64 `koanf:"video_minutes" validate:"min=0"`
	OtherMinutes float64 `koanf:"other_minutes" validate:"min=0"`

	// RoundElapsed rounds elapsed-mode gaps to whole minutes instead of
	// keeping fractional values.
	RoundElapsed bool `koanf:"round_elapsed"`

	// LowMedianMax and MidMedianMax are the engagement-level bucket
	// boundaries in minutes: median < LowMedianMax is low, up to
	// MidMedianMax is mid, above is high.
	LowMedianMax float64 `koanf:"low_median_max" validate:"gt=0"`
	MidMedianMax float64 `koanf:"mid_median_max" validate:"gt=0"`

	// VideoKinds lists event kinds treated as video activity. Empty
	// means the built-in edX video kinds.
	VideoKinds []string `koanf:"video_kinds"`

	// EngagementKinds is the allow-list of engagement-bearing event
	// kinds; events outside it are excluded entirely. Empty means every
	// kind qualifies.
	EngagementKinds []string `koanf:"engagement_kinds"`

	// ActiveLearnerKinds lists the kinds that credit a student as an
	// active learner. Kept independent of EngagementKinds because the
	// two predicates have different scopes. Empty means video kinds.
	ActiveLearnerKinds []string `koanf:"active_learner_kinds"`

	// FakeCoursePattern is a regular expression matching test/sandbox
	// course names to drop. Empty means the built-in pattern.
	FakeCoursePattern string `koanf:"fake_course_pattern"`

	// GhostStudents lists student ids to drop before segmentation.
	GhostStudents []string `koanf:"ghost_students"`

	// Years restricts processing to courses whose start date falls in
	// one of the listed years. Empty means all years.
	Years []int `koanf:"years"`

	// Course restricts processing to a single course name.
	Course string `koanf:"course"`

	// Platform is the constant platform column stamped on every report
	// row.
	Platform string `koanf:"platform" validate:"required"`
}

// ReportsConfig configures the output sinks.
type ReportsConfig struct {
	// Dir is the directory the report files are written to.
	Dir string `koanf:"dir" validate:"required"`

	// JSONSummary additionally writes the course summary as JSON.
	JSONSummary bool `koanf:"json_summary"`
}

// MetricsConfig configures the optional Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Listen  string `koanf:"listen"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/coursetrace.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Engagement: EngagementConfig{
			SessionTimeout: 180 * time.Minute,
			Heuristic:      "fixed",
			VideoMinutes:   15,
			OtherMinutes:   5,
			RoundElapsed:   true,
			LowMedianMax:   20,
			MidMedianMax:   60,
			Platform:       "OpenEdX",
		},
		Reports: ReportsConfig{
			Dir:         "/data/reports",
			JSONSummary: false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9465",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for consistency. Struct tags cover
// the per-field rules; cross-field constraints are checked by hand.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Engagement.SessionTimeout <= 0 {
		return fmt.Errorf("engagement.session_timeout must be positive, got %s", c.Engagement.SessionTimeout)
	}
	if c.Engagement.MidMedianMax <= c.Engagement.LowMedianMax {
		return fmt.Errorf("engagement.mid_median_max (%g) must exceed low_median_max (%g)",
			c.Engagement.MidMedianMax, c.Engagement.LowMedianMax)
	}
	if c.Engagement.FakeCoursePattern != "" {
		if _, err := regexp.Compile(c.Engagement.FakeCoursePattern); err != nil {
			return fmt.Errorf("engagement.fake_course_pattern does not compile: %w", err)
		}
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen must be set when metrics.enabled is true")
	}
	return nil
}
