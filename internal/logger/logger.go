// Package logger builds the zerolog loggers used by the command and server.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "SKY_DETECT_LOG_LEVEL"

// Durations are logged as fractional milliseconds by every logger.
func init() {
	zerolog.DurationFieldInteger = false
	zerolog.DurationFieldUnit = time.Millisecond
}

// ParseLevel converts a level name to a zerolog level. An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q: %w", name, err)
	}
	return level, nil
}

// New returns a JSON logger writing to w with timestamps.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// NewConsole returns a human-readable logger on stderr. Stdout stays free for
// reports and the MCP protocol. The environment variable EnvLevel, when set,
// takes precedence over level.
func NewConsole(level string) (zerolog.Logger, error) {
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	return New(consoleWriter, level)
}
