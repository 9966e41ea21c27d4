// Package logging builds the structured loggers every component writes to.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger on stderr tagged with component.
func New(component string, level slog.Level) *slog.Logger {
	return NewWriter(os.Stderr, component, level)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, component string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}

// ParseLevel reads "debug", "info", "warn" or "error", optionally with an
// offset such as "info+2". Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return l, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}
