// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/coursetrace/internal/config"
	"github.com/tomtom215/coursetrace/internal/database"
	"github.com/tomtom215/coursetrace/internal/engagement"
	"github.com/tomtom215/coursetrace/internal/logging"
	"github.com/tomtom215/coursetrace/internal/models"
	"github.com/tomtom215/coursetrace/internal/report"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	runID := uuid.NewString()
	logging.SetLogger(logging.With().Str("run_id", runID).Logger())
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("reports_dir", cfg.Reports.Dir).
		Str("heuristic", cfg.Engagement.Heuristic).
		Msg("Starting coursetrace")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Metrics.Enabled {
		startMetricsListener(cfg.Metrics.Listen)
	}

	computer := engagement.NewComputer(engagementOptions(&cfg.Engagement), db)

	started := time.Now()
	if err := computer.Run(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Engagement computation failed")
	}

	results := computer.Results()
	stats := make([]models.CourseStats, 0, len(results))
	for _, res := range results {
		stats = append(stats, res.Stats)
	}

	writer := &report.Writer{
		Dir:         cfg.Reports.Dir,
		Platform:    cfg.Engagement.Platform,
		JSONSummary: cfg.Reports.JSONSummary,
	}
	if err := writer.WriteAll(stats, computer, computer); err != nil {
		logging.Fatal().Err(err).Msg("Failed to write reports")
	}

	logging.Info().
		Int("courses", len(results)).
		Dur("elapsed", time.Since(started)).
		Msg("Run complete")
}

// engagementOptions maps the configuration onto the computation's
// options, resolving the built-in defaults for empty values.
func engagementOptions(cfg *config.EngagementConfig) engagement.Options {
	videoKinds := engagement.NewKindSet(cfg.VideoKinds...)
	if videoKinds == nil {
		videoKinds = engagement.DefaultVideoKinds()
	}
	fixed := engagement.NewFixedDurations(cfg.VideoMinutes, cfg.OtherMinutes, videoKinds)

	var policy engagement.DurationPolicy = fixed
	if cfg.Heuristic == "elapsed" {
		policy = engagement.ElapsedTime{RoundToMinute: cfg.RoundElapsed, Fallback: fixed}
	}

	// Validate already checked the pattern compiles; an empty pattern
	// keeps the built-in one.
	var fakeCourse *regexp.Regexp
	if cfg.FakeCoursePattern != "" {
		fakeCourse = regexp.MustCompile(cfg.FakeCoursePattern)
	}

	return engagement.Options{
		SessionTimeout:     cfg.SessionTimeout,
		Policy:             policy,
		Levels:             engagement.LevelThresholds{LowMax: cfg.LowMedianMax, MidMax: cfg.MidMedianMax},
		Filter:             engagement.NewFilter(fakeCourse, cfg.GhostStudents, engagement.NewKindSet(cfg.EngagementKinds...)),
		ActiveLearnerKinds: engagement.NewKindSet(cfg.ActiveLearnerKinds...),
		Years:              cfg.Years,
		Course:             cfg.Course,
	}
}

// startMetricsListener serves /metrics for the duration of the run.
// Failures are logged, not fatal: metrics never block the batch.
func startMetricsListener(listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logging.Info().Str("listen", listen).Msg("Metrics listener started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn().Err(err).Msg("Metrics listener failed")
		}
	}()
}
