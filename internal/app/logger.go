package app

import (
	"io"
	"log/slog"
)

// newLogger builds an isolated slog.Logger for one application instance,
// leaving the process-global logger untouched. The level string accepts
// anything slog.Level understands ("debug", "WARN", "error+2");
// unrecognized levels fall back to info rather than failing startup.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
