package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"

	Module = "menucustom"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// NewStructuredLogger creates a JSON logger at the given level writing to w.
// Module name and version are attached to every record; AddSource is enabled for
// debug level only.
func NewStructuredLogger(w io.Writer, level string) *slog.Logger {
	lev := ParseLogLevel(level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	})).With("module", Module, "version", Version)
}

// SetDefaultLogger installs a stderr logger as the slog default. An empty level falls
// back to LOG_LEVEL.
func SetDefaultLogger(level string) *slog.Logger {
	if strings.TrimSpace(level) == "" {
		level = os.Getenv(EnvVarLogLevel)
	}
	l := NewStructuredLogger(os.Stderr, level)
	slog.SetDefault(l)
	return l
}

// Discard is a logger that drops everything; the TUI uses it so log lines never
// paint over the alternate screen.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// ParseLogLevel converts a level name into a slog.Level. Unknown names mean info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
