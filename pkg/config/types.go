// Package config provides configuration loading and validation for p2000.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Sources lists files or glob patterns read when no files are given on
	// the command line.
	Sources []string `yaml:"sources,omitempty"`

	Format    FormatConfig    `yaml:"format"`
	Timestamp TimestampConfig `yaml:"timestamp"`
	Extractor ExtractorConfig `yaml:"extractor"`

	// Abbreviations is the path of an "ABBR: meaning" file. Optional.
	Abbreviations string `yaml:"abbreviations,omitempty"`

	// Places is the path of a ';' separated place table with a
	// "place;municipality;province;region" header. Optional.
	Places string `yaml:"places,omitempty"`

	Log LogConfig `yaml:"log"`
}

// FormatConfig describes how a record line is split.
type FormatConfig struct {
	// Delimiter separates the preamble fields. Exactly one character.
	Delimiter string `yaml:"delimiter"`

	// CommentPrefix marks lines to ignore. Empty disables comments.
	CommentPrefix string `yaml:"comment_prefix"`
}

// TimestampConfig defines how the timestamp field is parsed.
type TimestampConfig struct {
	// Layouts are Go time layouts tried in order.
	// See https://pkg.go.dev/time#pkg-constants for format.
	Layouts []string `yaml:"layouts"`

	// Timezone applies to timestamps without an offset. IANA name, "UTC"
	// or "Local".
	Timezone string `yaml:"timezone"`

	// location is the loaded Timezone (populated during validation).
	location *time.Location
}

// Location returns the loaded time zone, or nil before validation.
func (t *TimestampConfig) Location() *time.Location {
	return t.location
}

// ExtractorConfig tunes payload field extraction.
type ExtractorConfig struct {
	// DetailKeywords end a location candidate. They replace the built-in
	// list when set.
	DetailKeywords []string `yaml:"detail_keywords,omitempty"`
}

// LogConfig configures diagnostic logging on stderr.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}
