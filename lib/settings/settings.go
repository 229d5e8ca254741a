// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"fmt"
	"runtime"
)

// Platform selects which configuration sections are mandatory.
type Platform int

const (
	PlatformUnix Platform = iota
	PlatformWindows
)

// CurrentPlatform returns the platform the binary was built for.
func CurrentPlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformUnix
}

func (p Platform) String() string {
	switch p {
	case PlatformUnix:
		return "unix"
	case PlatformWindows:
		return "windows"
	default:
		return fmt.Sprintf("platform-%d", int(p))
	}
}

// MinimumPort is the lowest port the daemon will listen on.
const MinimumPort = 1024

// UnixSection holds unix-specific settings.
type UnixSection struct {
	// SocketDir is an existing directory for the daemon's sockets.
	SocketDir string
}

// WindowsSection holds windows-specific settings.
type WindowsSection struct {
	// TokenDataDir is an existing directory where auth token files
	// are created.
	TokenDataDir string
}

// Settings is validated daemon configuration. It is immutable: the
// accessors return copies.
type Settings struct {
	platform Platform
	port     uint16
	unix     *UnixSection
	windows  *WindowsSection
}

// Platform returns the platform the settings were validated for.
func (s *Settings) Platform() Platform {
	return s.platform
}

// Port returns the TCP port the daemon listens on.
func (s *Settings) Port() uint16 {
	return s.port
}

// Unix returns the unix section. ok is false when the section was not
// configured, which only happens on windows.
func (s *Settings) Unix() (section UnixSection, ok bool) {
	if s.unix == nil {
		return UnixSection{}, false
	}
	return *s.unix, true
}

// Windows returns the windows section. ok is false when the section
// was not configured, which only happens on unix.
func (s *Settings) Windows() (section WindowsSection, ok bool) {
	if s.windows == nil {
		return WindowsSection{}, false
	}
	return *s.windows, true
}

// TokenDataDir returns the directory for auth token files, or an error
// if no windows section was configured.
func (s *Settings) TokenDataDir() (string, error) {
	if s.windows == nil {
		return "", &ValidationError{Message: "Missing token data directory"}
	}
	return s.windows.TokenDataDir, nil
}

// Config returns the settings in configuration form. Building the
// result with FromConfig yields equal settings.
func (s *Settings) Config() Config {
	config := Config{Port: int(s.port)}
	if s.unix != nil {
		config.Unix = &UnixConfig{SocketDir: s.unix.SocketDir}
	}
	if s.windows != nil {
		config.Windows = &WindowsConfig{TokenDataDir: s.windows.TokenDataDir}
	}
	return config
}

// ValidationError reports configuration that cannot be built into
// Settings.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "settings validation error: " + e.Message
}
