// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr" validate:"required"`

	// DataPath is the wide medal CSV loaded at start.
	DataPath string `koanf:"data_path" validate:"required"`

	// PreviewRows is the number of rows in each table preview.
	PreviewRows int `koanf:"preview_rows" validate:"gte=1,lte=1000"`

	// StrictKeys fails the pipeline on column keys without a separator.
	StrictKeys bool `koanf:"strict_keys"`

	// SessionTTLMinutes is how long an idle session keeps its selection.
	SessionTTLMinutes int `koanf:"session_ttl_minutes" validate:"gte=1"`

	// MaxSessions bounds the number of live sessions.
	MaxSessions int `koanf:"max_sessions" validate:"gte=1"`

	// ChartWidth and ChartHeight size the bar chart in pixels.
	ChartWidth  int `koanf:"chart_width" validate:"gte=200"`
	ChartHeight int `koanf:"chart_height" validate:"gte=150"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8501",
		DataPath:          "olympics_08_medalists.csv",
		PreviewRows:       5,
		StrictKeys:        false,
		SessionTTLMinutes: 30,
		MaxSessions:       10_000,
		ChartWidth:        1200,
		ChartHeight:       520,
	}
}
