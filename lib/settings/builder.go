// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"fmt"
	"math"
	"os"
)

// Builder assembles Settings. Methods chain; the first validation
// failure is kept and returned by Build, and later calls are ignored.
//
//	settings, err := settings.NewBuilder().
//		Port(7123).
//		Unix().SocketDir("/run/sasd").Done().
//		Build()
type Builder struct {
	platform Platform
	port     uint16
	hasPort  bool
	unix     *UnixSection
	windows  *WindowsSection
	err      error
}

// NewBuilder returns a builder for the current platform.
func NewBuilder() *Builder {
	return NewBuilderFor(CurrentPlatform())
}

// NewBuilderFor returns a builder that applies platform's section
// requirements. Tests use it to validate the other platform's rules.
func NewBuilderFor(platform Platform) *Builder {
	return &Builder{platform: platform}
}

func (b *Builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = &ValidationError{Message: fmt.Sprintf(format, args...)}
	}
}

// Port sets the listening port. Ports below MinimumPort and above
// 65535 are rejected.
func (b *Builder) Port(port int) *Builder {
	if b.err != nil {
		return b
	}
	if port < MinimumPort {
		b.fail("port: value must not be less than %d, got %d", MinimumPort, port)
		return b
	}
	if port > math.MaxUint16 {
		b.fail("port: value must not be greater than %d, got %d", math.MaxUint16, port)
		return b
	}
	b.port = uint16(port)
	b.hasPort = true
	return b
}

// Unix starts the unix section.
func (b *Builder) Unix() *UnixBuilder {
	return &UnixBuilder{parent: b}
}

// Windows starts the windows section.
func (b *Builder) Windows() *WindowsBuilder {
	return &WindowsBuilder{parent: b}
}

// Build validates that every section the platform requires is present
// and returns the settings.
func (b *Builder) Build() (*Settings, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch b.platform {
	case PlatformUnix:
		if b.unix == nil {
			return nil, &ValidationError{Message: "Missing unix configuration"}
		}
	case PlatformWindows:
		if b.windows == nil {
			return nil, &ValidationError{Message: "Missing windows configuration"}
		}
	}
	if !b.hasPort {
		return nil, &ValidationError{Message: "Missing config value: port"}
	}
	return &Settings{
		platform: b.platform,
		port:     b.port,
		unix:     b.unix,
		windows:  b.windows,
	}, nil
}

// validateDirectory checks that path exists and is a directory.
func (b *Builder) validateDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			b.fail("path does not exist: %s", path)
		} else {
			b.fail("path is not accessible: %s: %v", path, err)
		}
		return false
	}
	if !info.IsDir() {
		b.fail("path is not a directory: %s", path)
		return false
	}
	return true
}

// UnixBuilder builds the unix section.
type UnixBuilder struct {
	parent    *Builder
	socketDir string
	set       bool
}

// SocketDir sets the socket directory. It must exist.
func (u *UnixBuilder) SocketDir(path string) *UnixBuilder {
	if u.parent.err == nil && u.parent.validateDirectory(path) {
		u.socketDir = path
		u.set = true
	}
	return u
}

// Done closes the section and returns the parent builder. A missing
// socket directory is an error only on unix.
func (u *UnixBuilder) Done() *Builder {
	parent := u.parent
	if parent.err != nil {
		return parent
	}
	if !u.set {
		if parent.platform == PlatformUnix {
			parent.fail("Missing socket directory")
		}
		return parent
	}
	parent.unix = &UnixSection{SocketDir: u.socketDir}
	return parent
}

// WindowsBuilder builds the windows section.
type WindowsBuilder struct {
	parent       *Builder
	tokenDataDir string
	set          bool
}

// TokenDataDir sets the token data directory. It must exist.
func (w *WindowsBuilder) TokenDataDir(path string) *WindowsBuilder {
	if w.parent.err == nil && w.parent.validateDirectory(path) {
		w.tokenDataDir = path
		w.set = true
	}
	return w
}

// Done closes the section and returns the parent builder. A missing
// token data directory is an error only on windows.
func (w *WindowsBuilder) Done() *Builder {
	parent := w.parent
	if parent.err != nil {
		return parent
	}
	if !w.set {
		if parent.platform == PlatformWindows {
			parent.fail("Missing token data directory")
		}
		return parent
	}
	parent.windows = &WindowsSection{TokenDataDir: w.tokenDataDir}
	return parent
}
