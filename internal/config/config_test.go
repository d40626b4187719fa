// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package config_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/internal/config"
	"github.com/creachadair/jcr/rule"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  config.Config
	}{
		{"Empty", ``, config.Config{
			MaxDepth: config.DefaultMaxDepth, LogLevel: "info", LogFormat: "text",
		}},
		{"Full", `
allow_comments: true
trailing_commas: true
max_depth: 12
strict: true
log_level: debug
log_format: json
`, config.Config{
			AllowComments: true, TrailingCommas: true, MaxDepth: 12,
			Strict: true, LogLevel: "debug", LogFormat: "json",
		}},
		{"Partial", "strict: true\nlog_level: warn\n", config.Config{
			MaxDepth: config.DefaultMaxDepth, Strict: true, LogLevel: "warn", LogFormat: "text",
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := config.Parse([]byte(test.input))
			if err != nil {
				t.Fatalf("Parse: unexpected error: %v", err)
			}
			if diff := cmp.Diff(test.want, *got); diff != "" {
				t.Errorf("Config: (-want, +got)\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input  string
		fields []string
	}{
		{"max_depth: -1\n", []string{"max_depth"}},
		{"log_level: loud\n", []string{"log_level"}},
		{"log_format: xml\nlog_level: trace\n", []string{"log_level", "log_format"}},
	}
	for _, test := range tests {
		_, err := config.Parse([]byte(test.input))
		var verr config.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Parse %q: got %v, want ValidationError", test.input, err)
			continue
		}
		var fields []string
		for _, fe := range verr.Errors {
			fields = append(fields, fe.Field)
		}
		if diff := cmp.Diff(test.fields, fields); diff != "" {
			t.Errorf("Parse %q fields: (-want, +got)\n%s", test.input, diff)
		}
	}

	for _, bad := range []string{"no_such_field: 1\n", "max_depth: [1]\n", "log_level: [\n"} {
		if _, err := config.Parse([]byte(bad)); err == nil {
			t.Errorf("Parse %q: got nil, want error", bad)
		}
	}
}

func TestValidationErrorString(t *testing.T) {
	one := config.ValidationError{Errors: []config.FieldError{{Field: "a", Message: "bad"}}}
	if got, want := one.Error(), "invalid configuration: a: bad"; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
	two := config.ValidationError{Errors: []config.FieldError{
		{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"},
	}}
	if got, want := two.Error(), "invalid configuration: 2 errors:\n  - a: bad\n  - b: worse"; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jcr.yaml")
	if err := os.WriteFile(path, []byte("allow_comments: true\nlog_level: debug\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Run("File", func(t *testing.T) {
		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !cfg.AllowComments || cfg.LogLevel != "debug" || cfg.MaxDepth != config.DefaultMaxDepth {
			t.Errorf("Load: got %+v", cfg)
		}
	})

	t.Run("Env", func(t *testing.T) {
		t.Setenv("JCR_LOG_LEVEL", "error")
		t.Setenv("JCR_LOG_FORMAT", "json")
		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.LogLevel != "error" || cfg.LogFormat != "json" {
			t.Errorf("Load: got %+v, want env overrides", cfg)
		}
	})

	t.Run("BadEnv", func(t *testing.T) {
		t.Setenv("JCR_LOG_FORMAT", "yaml")
		if _, err := config.Load(""); err == nil {
			t.Error("Load: got nil, want error")
		}
	})

	t.Run("Default", func(t *testing.T) {
		cfg, err := config.Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.LogFormat != "text" {
			t.Errorf("LogFormat: got %q, want text", cfg.LogFormat)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := config.Load(filepath.Join(t.TempDir(), "nonesuch.yaml")); err == nil {
			t.Error("Load: got nil, want error")
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json"}
	log := cfg.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown", slog.Int("n", 1))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info message was not filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"n":1`) {
		t.Errorf("Output is missing the warning: %s", out)
	}

	buf.Reset()
	cfg = &config.Config{LogLevel: "debug", LogFormat: "text"}
	cfg.NewLogger(&buf).Debug("visible")
	if !strings.Contains(buf.String(), "level=DEBUG msg=visible") {
		t.Errorf("Text output: got %q", buf.String())
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level: got %v, want debug", cfg.Level())
	}
}

func TestConfigure(t *testing.T) {
	parse := func(cfg *config.Config, input string) error {
		st := jcr.NewStream(strings.NewReader(input), rule.Compiler{})
		config.Configure(cfg, st)
		return st.Parse(jcr.NopHandler[rule.Rule]{})
	}
	cfg, err := config.Parse([]byte("allow_comments: true\ntrailing_commas: true\nmax_depth: 2\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := parse(cfg, "// ok\n[[1,],]"); err != nil {
		t.Errorf("Parse with options: unexpected error: %v", err)
	}
	if err := parse(cfg, "[[[1]]]"); err == nil {
		t.Error("Parse beyond max depth: got nil, want error")
	}

	strict, _ := config.Parse(nil)
	if err := parse(strict, "// no\n1"); err == nil {
		t.Error("Parse with comments disabled: got nil, want error")
	}
}
