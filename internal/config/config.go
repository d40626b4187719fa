// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package config defines the settings of the jcrcheck command, and loads
// them from a YAML file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/creachadair/jcr"
	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultMaxDepth  = 1000
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the configuration of a checker run.
type Config struct {
	// AllowComments enables line and block comments in the input.
	AllowComments bool `yaml:"allow_comments"`

	// TrailingCommas permits a comma after the last element of an object or
	// array.
	TrailingCommas bool `yaml:"trailing_commas"`

	// MaxDepth limits the nesting depth of objects and arrays.
	// Zero selects DefaultMaxDepth.
	MaxDepth int `yaml:"max_depth"`

	// Strict validates the event protocol of every parse.
	Strict bool `yaml:"strict"`

	// LogLevel is one of "debug", "info", "warn", or "error".
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format"`
}

// Load reads the configuration from the YAML file at path. If path is empty,
// the defaults are used. Environment overrides are applied after the file,
// and the result is validated.
//
// The environment variables JCR_LOG_LEVEL and JCR_LOG_FORMAT override the
// corresponding fields.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}
	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes, defaults, and validates a configuration from YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decode decodes YAML data into cfg, rejecting unknown fields. Empty data
// leaves cfg unchanged.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// ApplyDefaults fills in default values for unset fields of cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("JCR_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv("JCR_LOG_FORMAT"); val != "" {
		cfg.LogFormat = val
	}
}

// FieldError reports a validation error for a single configuration field.
type FieldError struct {
	Field   string // the YAML name of the field
	Message string
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// ValidationError reports all the validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid configuration: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid configuration: %d errors:", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  - " + err.Error())
	}
	return sb.String()
}

// Validate reports a ValidationError if any field of cfg is invalid.
func Validate(cfg *Config) error {
	var errs []FieldError
	if cfg.MaxDepth < 0 {
		errs = append(errs, FieldError{"max_depth", fmt.Sprintf("must not be negative, got %d", cfg.MaxDepth)})
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		errs = append(errs, FieldError{"log_level", fmt.Sprintf("unknown level %q", cfg.LogLevel)})
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, FieldError{"log_format", fmt.Sprintf("unknown format %q (want text or json)", cfg.LogFormat)})
	}
	if len(errs) != 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level reports the log level selected by cfg.
func (cfg *Config) Level() slog.Level {
	if lvl, ok := logLevels[cfg.LogLevel]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// NewLogger returns a logger writing to w in the format and at the level
// selected by cfg.
func (cfg *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Configure applies the input settings of cfg to st.
func Configure[R any](cfg *Config, st *jcr.Stream[R]) {
	st.AllowComments(cfg.AllowComments)
	st.AllowTrailingCommas(cfg.TrailingCommas)
	st.SetMaxDepth(cfg.MaxDepth)
}
