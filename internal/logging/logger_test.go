// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"WARN", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("key", "value").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestWithComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	componentLog := With().Str("component", "engine").Logger()
	componentLog.Info().Msg("started")

	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestSlogHandlerBridgesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)

	sl := NewSlogLogger(zl)
	sl.Info("supervisor event", slog.String("service", "http-server"), slog.Int("restarts", 2))

	out := buf.String()
	if !strings.Contains(out, `"service":"http-server"`) {
		t.Errorf("expected slog attr as zerolog field, got %q", out)
	}
	if !strings.Contains(out, `"restarts":2`) {
		t.Errorf("expected int attr, got %q", out)
	}
}

func TestSlogHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)

	sl := slog.New(NewSlogHandler(zl).WithGroup("tree"))
	sl.Warn("backoff", slog.String("layer", "api"))

	if !strings.Contains(buf.String(), `"tree.layer":"api"`) {
		t.Errorf("expected grouped key, got %q", buf.String())
	}
}
