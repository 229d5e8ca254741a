// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for sasd packages.
//
// [TokenDir] creates a directory for token files and, when the test
// completes, removes it with os.Remove rather than os.RemoveAll: a
// token file left behind makes the removal fail and the test with it.
// Tests that release every token file get the "parent directory is
// removable" check for free.
//
// [Sequence] and [FailingReader] stand in for crypto/rand.Reader.
// Sequence yields predictable, never-repeating bytes so tests can
// assert exact tokens; FailingReader exercises entropy failures.
//
// [RequireReceive] and [RequireClosed] bound every wait on a channel
// so a hung server fails the test instead of the whole run.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no sasd-internal dependencies.
package testutil
