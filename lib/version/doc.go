// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build information for the sasd binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/sasd/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/sasd
//
// They default to "unknown" / "0.1.0-dev" in development builds and
// test runs.
package version
