package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without tzdata
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/p2000/pkg/parser"
)

// LogLevels lists the accepted values of log.level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Load reads and validates a configuration file. An empty path yields the
// defaults. Environment overrides apply in both cases.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// decode rejects unknown keys so typos do not silently fall back to defaults.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks a configuration for errors and loads the time zone.
func Validate(cfg *Config) error {
	if err := validateFormat(&cfg.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	if err := validateTimestamp(&cfg.Timestamp); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	for i, w := range cfg.Extractor.DetailKeywords {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("extractor.detail_keywords[%d]: keyword is empty", i)
		}
	}

	for i, s := range cfg.Sources {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("sources[%d]: source is empty", i)
		}
		cfg.Sources[i] = expandEnvVar(s)
	}

	cfg.Abbreviations = expandEnvVar(cfg.Abbreviations)
	cfg.Places = expandEnvVar(cfg.Places)

	if !validLogLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level: invalid level %q (must be %s)", cfg.Log.Level, strings.Join(LogLevels, ", "))
	}

	return nil
}

func validateFormat(f *FormatConfig) error {
	if utf8.RuneCountInString(f.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be exactly one character, got %q", f.Delimiter)
	}
	switch f.Delimiter {
	case " ", "\n", "\r":
		return fmt.Errorf("delimiter %q cannot be a space or line break", f.Delimiter)
	}
	if strings.ContainsAny(f.CommentPrefix, "\n\r") {
		return errors.New("comment_prefix cannot contain a line break")
	}
	return nil
}

func validateTimestamp(tc *TimestampConfig) error {
	if len(tc.Layouts) == 0 {
		return errors.New("layouts: at least one layout is required")
	}
	for i, l := range tc.Layouts {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("layouts[%d]: layout is empty", i)
		}
	}

	if tc.Timezone == "" {
		tc.Timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(tc.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	tc.location = loc

	return nil
}

func validLogLevel(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range LogLevels {
		if level == l {
			return true
		}
	}
	return false
}

// ParserOptions returns the parser settings described by the config.
// Call it after Validate.
func (c *Config) ParserOptions() []parser.Option {
	opts := []parser.Option{
		parser.WithDelimiter(c.Format.Delimiter),
		parser.WithCommentPrefix(c.Format.CommentPrefix),
		parser.WithTimestampLayouts(c.Timestamp.Layouts...),
		parser.WithLocation(c.Timestamp.location),
	}
	if len(c.Extractor.DetailKeywords) > 0 {
		opts = append(opts, parser.WithDetailKeywords(c.Extractor.DetailKeywords...))
	}
	return opts
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
