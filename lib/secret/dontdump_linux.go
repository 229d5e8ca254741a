// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import "golang.org/x/sys/unix"

// excludeFromCoreDumps marks the region MADV_DONTDUMP. Older kernels
// reject the advice; the secret is still zeroed on close.
func excludeFromCoreDumps(data []byte) {
	_ = unix.Madvise(data, unix.MADV_DONTDUMP)
}
