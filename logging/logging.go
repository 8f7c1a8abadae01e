// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

// Add trace and fatal level names.
var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

var level = new(slog.LevelVar)

// Init installs the default logger. format is "json" or "text"; anything else means text.
func Init(w io.Writer, format string, lvl slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level.Set(lvl)

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// SetLevel changes the minimum level of the logger installed by Init.
func SetLevel(lvl slog.Level) {
	level.Set(lvl)
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
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

// ForService returns the default logger tagged with a service name.
func ForService(name string) *slog.Logger {
	return slog.Default().With("service", name)
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		lvl, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		label, exists := levelNames[lvl]
		if !exists {
			label = lvl.String()
		}
		a.Value = slog.StringValue(label)
	}
	return a
}
