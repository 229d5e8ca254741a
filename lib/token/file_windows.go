// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ownerOnlySDDL grants full access to the file's owner and nobody
// else; P blocks inherited entries from the parent directory.
const ownerOnlySDDL = "D:P(A;;FA;;;OW)"

// hiddenName returns name unchanged; windows hides the file through
// FILE_ATTRIBUTE_HIDDEN.
func hiddenName(name string) string {
	return name
}

// createExclusive creates path with CREATE_NEW and
// FILE_FLAG_DELETE_ON_CLOSE. FILE_SHARE_DELETE is required so a
// reader can open the file while the daemon holds the handle.
func createExclusive(path string) (*os.File, error) {
	descriptor, err := windows.SecurityDescriptorFromString(ownerOnlySDDL)
	if err != nil {
		return nil, fmt.Errorf("building security descriptor: %w", err)
	}
	attributes := &windows.SecurityAttributes{
		SecurityDescriptor: descriptor,
		InheritHandle:      0,
	}
	attributes.Length = uint32(unsafe.Sizeof(*attributes))

	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	handle, err := windows.CreateFile(
		name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_DELETE,
		attributes,
		windows.CREATE_NEW,
		windows.FILE_ATTRIBUTE_HIDDEN|windows.FILE_ATTRIBUTE_TEMPORARY|windows.FILE_FLAG_DELETE_ON_CLOSE,
		0,
	)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(handle), path), nil
}

// release closes the handle. The kernel deletes the file once every
// handle, including any reader's, is closed.
func release(file *os.File, path string) error {
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing token file %s: %w", path, err)
	}
	return nil
}
