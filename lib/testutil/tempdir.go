// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"testing"
)

// TokenDir creates an empty temporary directory for token files. At
// cleanup the directory is removed with os.Remove, which fails if any
// file is left inside; the test is then marked failed.
func TokenDir(t *testing.T) string {
	t.Helper()
	directory, err := os.MkdirTemp("", "sasd-token-*")
	if err != nil {
		t.Fatalf("creating token directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Remove(directory); err != nil {
			t.Errorf("token directory not removable after test: %v", err)
			_ = os.RemoveAll(directory)
		}
	})
	return directory
}
