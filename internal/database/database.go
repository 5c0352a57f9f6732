// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/coursetrace/internal/config"
	"github.com/tomtom215/coursetrace/internal/logging"
	"github.com/tomtom215/coursetrace/internal/metrics"
	"github.com/tomtom215/coursetrace/internal/models"
)

// DB wraps the DuckDB connection over the activity store.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the store and initializes the schema. A Path of ":memory:"
// runs fully in-process without a file.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != ":memory:" {
		// DuckDB errors out when the parent directory is missing.
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Auto-install/auto-load stay disabled so a restricted network
	// environment cannot hang the open.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The engagement pass is one sequential reader; DuckDB
	// parallelizes internally via its own thread pool.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initSchema(context.Background()); err != nil {
		closeWithLog(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Msg("database opened")
	return db, nil
}

// initSchema creates the activity and runtime tables. Column names
// mirror the platform's export schema so bulk COPY loads need no
// renaming.
func (db *DB) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			course_display_name VARCHAR NOT NULL,
			anon_screen_name    VARCHAR NOT NULL,
			event_type          VARCHAR NOT NULL,
			time                TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS course_runtimes (
			course_display_name VARCHAR PRIMARY KEY,
			course_start_date   TIMESTAMP NOT NULL,
			course_end_date     TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_scan
			ON activities (course_display_name, anon_screen_name, time)`,
	}
	for _, stmt := range stmts {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// InsertEvents appends activity rows in one transaction.
func (db *DB) InsertEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO activities (course_display_name, anon_screen_name, event_type, time) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("closing insert statement")
		}
	}()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, ev.Course, ev.Student, string(ev.Kind), ev.Time); err != nil {
			return fmt.Errorf("failed to insert activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activities: %w", err)
	}
	metrics.RecordDBQuery("insert", "activities", time.Since(start))
	return nil
}

// UpsertCourseRun records or replaces a course's runtime.
func (db *DB) UpsertCourseRun(ctx context.Context, run models.CourseRun) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO course_runtimes (course_display_name, course_start_date, course_end_date)
		 VALUES (?, ?, ?)
		 ON CONFLICT (course_display_name) DO UPDATE SET
			course_start_date = excluded.course_start_date,
			course_end_date   = excluded.course_end_date`,
		run.Course, run.Start, run.End)
	if err != nil {
		return fmt.Errorf("failed to upsert course runtime for %s: %w", run.Course, err)
	}
	metrics.RecordDBQuery("upsert", "course_runtimes", time.Since(start))
	return nil
}

// CountEvents returns the number of stored activity rows.
func (db *DB) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return n, nil
}

func closeWithLog(c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Msg("close failed")
	}
}
