// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the daemon's structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects the handler for New.
type Format int

const (
	// FormatAuto picks text when stderr is a terminal and JSON
	// otherwise.
	FormatAuto Format = iota
	FormatText
	FormatJSON
)

// ParseFormat accepts "auto", "text" and "json".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatAuto, fmt.Errorf("unknown log format %q (want auto, text or json)", name)
}

// ParseLevel accepts the slog level names, case-insensitively.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
	}
	return level, nil
}

// New creates a logger writing to stderr. Under a service manager
// stderr is not a terminal, so FormatAuto produces JSON there.
func New(level slog.Level, format Format) *slog.Logger {
	if format == FormatAuto {
		format = FormatJSON
		if term.IsTerminal(int(os.Stderr.Fd())) {
			format = FormatText
		}
	}
	return NewWriter(os.Stderr, level, format)
}

// NewWriter creates a logger writing to w. FormatAuto is treated as
// JSON since w is not known to be a terminal.
func NewWriter(w io.Writer, level slog.Level, format Format) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if format == FormatText {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
