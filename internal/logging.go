package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig configures the diagnostics side channel. Diagnostics print the
// plaintext secret and every woven copy, so they are off unless Debug is
// set and must stay off wherever the secret matters.
type LogConfig struct {
	Debug bool
	// Format is "text" (default) or "json".
	Format string
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// NewLogger returns a slog.Logger for cfg. With Debug unset every record is
// discarded.
func NewLogger(cfg LogConfig) (*slog.Logger, error) {
	if !cfg.Debug {
		return slog.New(slog.DiscardHandler), nil
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (supported: text, json)", cfg.Format)
	}
}
