// Package logger builds the structured logger used across the CLI.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// LogLevel is a textual log level as written in config and flags.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Levels lists the accepted log levels.
func Levels() []LogLevel {
	return []LogLevel{DebugLevel, InfoLevel, WarnLevel, ErrorLevel}
}

// ParseLevel validates a level name. Matching is case-insensitive.
func ParseLevel(s string) (LogLevel, error) {
	l := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Levels() {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// ToCharmlogLevel maps the level onto charmbracelet/log. Unknown values map
// to info.
func (l LogLevel) ToCharmlogLevel() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Config holds the logger configuration.
type Config struct {
	Level      LogLevel
	Output     io.Writer
	JSON       bool
	TimeFormat string
}

// DefaultConfig logs at info level, as text, to stderr. Stdout is reserved
// for command output and the TUI.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// New creates a logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *charmlog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level.ToCharmlogLevel(),
		Prefix:          "p2000",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	return l
}

// Discard returns a logger that writes nowhere.
func Discard() *charmlog.Logger {
	return charmlog.New(io.Discard)
}

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l *charmlog.Logger) context.Context {
	return charmlog.WithContext(ctx, l)
}

// FromContext returns the logger carried by ctx, or the package default
// logger of charmbracelet/log when there is none.
func FromContext(ctx context.Context) *charmlog.Logger {
	return charmlog.FromContext(ctx)
}
