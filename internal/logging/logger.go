// Package logging builds the slog logger shared by the server and the CLI.
//
// Components receive a *slog.Logger and log key/value attributes:
//
//	logger := logging.New(logging.Config{Level: "info", Format: "json"})
//	logger.Info("investment created", "id", inv.ID)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects level, encoding and destination.
type Config struct {
	Level  string    // debug | info | warn | error
	Format string    // json | text
	Output io.Writer // defaults to stderr
}

// New creates a logger from cfg. Unknown levels fall back to info and
// unknown formats to text.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
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

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
