// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// region is a VirtualAlloc'd block outside the Go heap.
type region struct {
	address uintptr
	data    []byte
	locked  bool
}

func allocate(size int) (region, error) {
	address, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return region{}, fmt.Errorf("secret: VirtualAlloc failed: %w", err)
	}

	// VirtualLock fails once the working set minimum is exhausted;
	// the buffer stays usable without swap protection.
	locked := windows.VirtualLock(address, uintptr(size)) == nil

	// The pages live outside the Go heap until VirtualFree in release.
	data := unsafe.Slice((*byte)(unsafe.Add(nil, address)), size)
	return region{address: address, data: data, locked: locked}, nil
}

func (r region) release() error {
	var firstError error
	if r.locked {
		if err := windows.VirtualUnlock(r.address, uintptr(len(r.data))); err != nil {
			firstError = fmt.Errorf("secret: VirtualUnlock failed: %w", err)
		}
	}
	if err := windows.VirtualFree(r.address, 0, windows.MEM_RELEASE); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: VirtualFree failed: %w", err)
	}
	return firstError
}
