// Package slogx builds the shop's structured logger and carries it through
// request contexts.
package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Service string
	Version string
	Env     string // "dev" adds source locations
	Level   string // debug, info, warn or error; anything else is info
	Format  string // json or text; empty means text in dev and json elsewhere

	// Output defaults to stdout.
	Output io.Writer
}

// New returns a configured slog.Logger and installs it as the default.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	dev := cfg.Env == "dev"
	opts := &slog.HandlerOptions{AddSource: dev, Level: level}

	format := strings.ToLower(cfg.Format)
	if format == "" && dev {
		format = "text"
	}

	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if format == "text" {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler).With(
		slog.Group("app",
			slog.String("service", cfg.Service),
			slog.String("version", cfg.Version),
			slog.String("env", cfg.Env),
		),
	)
	slog.SetDefault(logger)
	return logger
}
