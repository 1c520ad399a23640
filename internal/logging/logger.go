// Package logging provides structured logging configuration using log/slog.
//
// A single logger is built at process start and handed to every component.
// It writes each record to the console and, when configured, to an
// append-only log file. The package also integrates with chi's RequestID
// middleware so request-scoped loggers carry the request id.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/reportmap/internal/config"
)

// Setup builds the process logger from cfg, installs it as the slog default,
// and returns it with a closer for the log file.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
// File: path of the append-only log file; "" or "-" disables the file sink.
func Setup(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	return SetupWithConsole(cfg, os.Stdout)
}

// SetupWithConsole is Setup with an explicit console sink.
func SetupWithConsole(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, io.Closer, error) {
	sinks := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	if cfg.File != "" && cfg.File != "-" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", cfg.File, err)
		}
		sinks = append(sinks, f)
		closer = f
	}

	logger := New(io.MultiWriter(sinks...), cfg.Level, cfg.Format)
	slog.SetDefault(logger)

	return logger, closer, nil
}

// New returns a logger writing to w with the given level and format.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// FromContext returns base enriched with the chi request id from ctx, if any.
// A nil base falls back to slog.Default().
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return base.With("request_id", reqID)
	}

	return base
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
