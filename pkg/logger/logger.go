// Package logger provides the key/value structured logger used across the
// service. It is a thin layer over log/slog with a charmbracelet/log handler.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

type Logger struct {
	*slog.Logger
}

type Options struct {
	Level      string
	Format     string // "text" or "json"
	TimeFormat string
	Prefix     string
}

// NewLogger returns a text logger on stderr at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func NewLogger(level string) *Logger {
	return New(os.Stderr, Options{Level: level})
}

func New(w io.Writer, opts Options) *Logger {
	lvl, err := charmlog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		lvl = charmlog.InfoLevel
	}

	formatter := charmlog.TextFormatter
	if opts.Format == "json" {
		formatter = charmlog.JSONFormatter
	}

	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05"
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           lvl,
		Prefix:          opts.Prefix,
		Formatter:       formatter,
	})

	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
