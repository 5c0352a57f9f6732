// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/coursetrace/config.yaml",
	"/etc/coursetrace/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if found)
//  3. Environment variables: override any setting
//
// Precedence is ENV > file > defaults. The result is validated before
// being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority).
	// ENGAGEMENT_SESSION_TIMEOUT -> engagement.session_timeout
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; convert known slice fields.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// stringSliceConfigPaths are config paths parsed as comma-separated
// string slices when set through the environment.
var stringSliceConfigPaths = []string{
	"engagement.video_kinds",
	"engagement.engagement_kinds",
	"engagement.active_learner_kinds",
	"engagement.ghost_students",
}

// intSliceConfigPaths are config paths parsed as comma-separated int
// slices when set through the environment.
var intSliceConfigPaths = []string{
	"engagement.years",
}

// processSliceFields converts comma-separated string values to slices for
// the known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range stringSliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		if err := k.Set(path, splitTrimmed(strVal)); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	for _, path := range intSliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := splitTrimmed(strVal)
		ints := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return fmt.Errorf("%s: %q is not an integer: %w", path, p, err)
			}
			ints = append(ints, n)
		}
		if err := k.Set(path, ints); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// splitTrimmed splits a comma-separated string, dropping empty elements.
func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are skipped so random environment noise cannot
// pollute the configuration.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		// Database mappings
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// Engagement mappings
		"engagement_session_timeout":      "engagement.session_timeout",
		"engagement_heuristic":            "engagement.heuristic",
		"engagement_video_minutes":        "engagement.video_minutes",
		"engagement_other_minutes":        "engagement.other_minutes",
		"engagement_round_elapsed":        "engagement.round_elapsed",
		"engagement_low_median_max":       "engagement.low_median_max",
		"engagement_mid_median_max":       "engagement.mid_median_max",
		"engagement_video_kinds":          "engagement.video_kinds",
		"engagement_kinds":                "engagement.engagement_kinds",
		"engagement_active_learner_kinds": "engagement.active_learner_kinds",
		"engagement_fake_course_pattern":  "engagement.fake_course_pattern",
		"engagement_ghost_students":       "engagement.ghost_students",
		"engagement_years":                "engagement.years",
		"engagement_course":               "engagement.course",
		"engagement_platform":             "engagement.platform",

		// Report mappings
		"reports_dir":          "reports.dir",
		"reports_json_summary": "reports.json_summary",

		// Metrics mappings
		"metrics_enabled": "metrics.enabled",
		"metrics_listen":  "metrics.listen",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
