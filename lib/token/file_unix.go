// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package token

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// hiddenName prefixes a dot, which hides the file from ls and most
// file managers.
func hiddenName(name string) string {
	return "." + name
}

// createExclusive opens a new file readable and writable only by the
// current user. O_EXCL fails if path exists; O_NOFOLLOW refuses a
// planted symlink.
func createExclusive(path string) (*os.File, error) {
	descriptor, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_NOFOLLOW|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, err
	}
	// The umask cannot widen 0600, but a restrictive umask could
	// narrow it below what the owner needs.
	if err := unix.Fchmod(descriptor, 0o600); err != nil {
		unix.Close(descriptor)
		unix.Unlink(path)
		return nil, fmt.Errorf("setting token file mode: %w", err)
	}
	return os.NewFile(uintptr(descriptor), path), nil
}

// release closes the handle and unlinks the path. Unix has no
// delete-on-close flag; a reader that already opened the file keeps
// its own descriptor to the unlinked inode.
func release(file *os.File, path string) error {
	closeError := file.Close()
	removeError := unix.Unlink(path)
	if errors.Is(removeError, unix.ENOENT) {
		removeError = nil
	}
	if removeError != nil {
		removeError = fmt.Errorf("removing token file %s: %w", path, removeError)
	}
	return errors.Join(closeError, removeError)
}
