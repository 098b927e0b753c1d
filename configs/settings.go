package configs

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Schema constrains tape configuration files.
const Schema = `
tape_size?: int & >0
step_quota?: int
max_nesting?: int & >0
log_level?: "debug" | "info" | "warn" | "error"
`

// Settings is the merged result of every config file. Zero fields were not
// set by any file.
type Settings struct {
	TapeSize   int
	StepQuota  int
	MaxNesting int
	LogLevel   string
}

// Load merges the given CUE files in order. No files yields zero Settings.
func Load(paths ...string) (Settings, error) {
	var settings Settings
	if len(paths) == 0 {
		return settings, nil
	}

	loader := NewLoader(paths, Schema)
	if err := loader.Validate(); err != nil {
		return settings, fmt.Errorf("load config: %w", err)
	}

	fields := []struct {
		path   string
		target any
	}{
		{"tape_size", &settings.TapeSize},
		{"step_quota", &settings.StepQuota},
		{"max_nesting", &settings.MaxNesting},
		{"log_level", &settings.LogLevel},
	}
	for _, field := range fields {
		if err := loader.AssignLast(field.path, field.target); err != nil && !errors.Is(err, ErrValueNotFound) {
			return settings, fmt.Errorf("config %s: %w", field.path, err)
		}
	}
	return settings, nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}
