// Package logging configures log/slog for the enigma command and its packages.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the process-wide log handler.
type Options struct {
	Level  slog.Level
	Format string    // "text" (default) or "json"
	Writer io.Writer // nil means os.Stderr
}

// Init installs the slog default described by opts.
func Init(opts Options) error {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	switch opts.Format {
	case "", "text":
		handler = slog.NewTextHandler(w, hopts)
	case "json":
		handler = slog.NewJSONHandler(w, hopts)
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", opts.Format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// New returns a logger with a "component" attribute for module-scoped logging.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

// ParseLevel maps a --log-level flag value to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn, error)", s)
}
