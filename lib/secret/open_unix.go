// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package secret

import "os"

func openShared(path string) (*os.File, error) {
	return os.Open(path)
}
