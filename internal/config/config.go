package config

import (
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	Editor Editor `envconfig:"EDITOR"`
}

// Editor holds the interaction tunables shared by the wasm and server hosts.
// Environment keys carry the EDITOR_ prefix, e.g. EDITOR_DRAG_THRESHOLD.
type Editor struct {
	HistoryLimit    int     `envconfig:"HISTORY_LIMIT" default:"100"`
	DragThreshold   float64 `envconfig:"DRAG_THRESHOLD" default:"5"`
	HandleSize      float64 `envconfig:"HANDLE_SIZE" default:"8"`
	BorderTolerance float64 `envconfig:"BORDER_TOLERANCE" default:"4"`
	RotateZone      float64 `envconfig:"ROTATE_ZONE" default:"16"`
	EllipseSegments int     `envconfig:"ELLIPSE_SEGMENTS" default:"32"`
	PasteOffset     float64 `envconfig:"PASTE_OFFSET" default:"10"`
	NudgeStep       float64 `envconfig:"NUDGE_STEP" default:"1"`
	NudgeLargeStep  float64 `envconfig:"NUDGE_LARGE_STEP" default:"10"`
	FrameIntervalMS int     `envconfig:"FRAME_INTERVAL_MS" default:"16"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultEditor returns the editor tunables with their documented defaults,
// for hosts that do not read the environment.
func DefaultEditor() Editor {
	return Editor{
		HistoryLimit:    100,
		DragThreshold:   5,
		HandleSize:      8,
		BorderTolerance: 4,
		RotateZone:      16,
		EllipseSegments: 32,
		PasteOffset:     10,
		NudgeStep:       1,
		NudgeLargeStep:  10,
		FrameIntervalMS: 16,
	}
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
