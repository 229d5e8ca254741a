// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package secret

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// region is an anonymous mmap outside the Go heap, so the garbage
// collector never copies or relocates the secret.
type region struct {
	data   []byte
	locked bool
}

func allocate(size int) (region, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return region{}, fmt.Errorf("secret: mmap failed: %w", err)
	}

	locked := true
	if err := unix.Mlock(data); err != nil {
		// Over RLIMIT_MEMLOCK, or no CAP_IPC_LOCK. The buffer stays
		// usable, only swap protection is lost.
		if !errors.Is(err, unix.ENOMEM) && !errors.Is(err, unix.EPERM) && !errors.Is(err, unix.EAGAIN) {
			unix.Munmap(data)
			return region{}, fmt.Errorf("secret: mlock failed: %w", err)
		}
		locked = false
	}

	excludeFromCoreDumps(data)

	return region{data: data, locked: locked}, nil
}

func (r region) release() error {
	var firstError error
	if r.locked {
		if err := unix.Munlock(r.data); err != nil {
			firstError = fmt.Errorf("secret: munlock failed: %w", err)
		}
	}
	if err := unix.Munmap(r.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap failed: %w", err)
	}
	return firstError
}
