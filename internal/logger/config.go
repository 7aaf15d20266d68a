package logger

import (
	"log/slog"
	"strings"
)

// Config represents logger configuration
type Config struct {
	Level     string // "debug", "info", "warn", "error"
	Format    string // "json", "text"
	Service   string
	Version   string
	AddSource bool
}

// DefaultConfig returns defaults used when the app config has no log section
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "text",
		Service: "bodgelab",
		Version: "dev",
	}
}

// LogLevel converts string level to slog.Level
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsJSON returns true if format is JSON
func (c Config) IsJSON() bool {
	return strings.ToLower(c.Format) == "json"
}

// BaseAttributes returns common attributes added to every record
func (c Config) BaseAttributes() []any {
	return []any{
		slog.String("service", c.Service),
		slog.String("version", c.Version),
	}
}
