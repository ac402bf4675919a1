package config

import (
	"os"
	"strings"

	"github.com/ccollicutt/p2000/pkg/parser"
)

// Default values for configuration.
const (
	DefaultTimezone = "UTC"
	DefaultLogLevel = "info"
)

// Environment variable names.
const (
	EnvSources  = "P2000_SOURCES"
	EnvTimezone = "P2000_TIMEZONE"
	EnvLogLevel = "P2000_LOG_LEVEL"
)

// DefaultConfig returns a configuration matching the decoder output format.
func DefaultConfig() *Config {
	return &Config{
		Sources: []string{},
		Format: FormatConfig{
			Delimiter:     parser.DefaultDelimiter,
			CommentPrefix: parser.DefaultCommentPrefix,
		},
		Timestamp: TimestampConfig{
			Layouts:  parser.DefaultTimestampLayouts(),
			Timezone: DefaultTimezone,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if sources := os.Getenv(EnvSources); sources != "" {
		c.Sources = c.Sources[:0]
		for _, s := range strings.Split(sources, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Sources = append(c.Sources, s)
			}
		}
	}

	if tz := os.Getenv(EnvTimezone); tz != "" {
		c.Timestamp.Timezone = tz
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}
