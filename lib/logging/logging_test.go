// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) succeeded")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":     FormatAuto,
		"auto": FormatAuto,
		"Text": FormatText,
		"json": FormatJSON,
	}
	for name, want := range tests {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}
}

func TestNewWriter_JSON(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewWriter(&buffer, slog.LevelInfo, FormatJSON)
	logger.Debug("hidden")
	logger.Info("attached", "state", "V1(AuthSession)")

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buffer.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "attached" || record["state"] != "V1(AuthSession)" {
		t.Errorf("record = %v", record)
	}
}

func TestNewWriter_Text(t *testing.T) {
	var buffer bytes.Buffer
	NewWriter(&buffer, slog.LevelDebug, FormatText).Debug("listening", "port", 7123)
	if got := buffer.String(); !strings.Contains(got, "msg=listening") || !strings.Contains(got, "port=7123") {
		t.Errorf("text output = %q", got)
	}
}
