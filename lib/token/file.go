// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// File is an open token file. The path exists until Close.
type File struct {
	path string

	mu     sync.Mutex
	file   *os.File
	closed bool
}

// CreateFile writes contents into a new file in directory and returns
// it with its handle open and the cursor at offset 0. The file name is
// random (FileNameBytes bytes, hex encoded) and the file must not
// already exist.
//
// On any failure after creation the partial file is removed before
// returning.
func CreateFile(directory string, random io.Reader, contents []byte) (*File, error) {
	absolute, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("resolving token directory %s: %w", directory, err)
	}

	name, err := Generate(random, FileNameBytes)
	if err != nil {
		return nil, fmt.Errorf("generating token file name: %w", err)
	}
	path := filepath.Join(absolute, hiddenName(name))

	handle, err := createExclusive(path)
	if err != nil {
		return nil, fmt.Errorf("creating token file %s: %w", path, err)
	}
	file := &File{path: path, file: handle}

	if err := file.fill(contents); err != nil {
		return nil, errors.Join(fmt.Errorf("writing token file %s: %w", path, err), file.Close())
	}
	return file, nil
}

func (f *File) fill(contents []byte) error {
	if _, err := f.file.Write(contents); err != nil {
		return err
	}
	if err := f.file.Sync(); err != nil {
		return err
	}
	_, err := f.file.Seek(0, io.SeekStart)
	return err
}

// Path returns the absolute path of the file.
func (f *File) Path() string {
	return f.path
}

// Closed reports whether Close has been called.
func (f *File) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close releases the handle, which deletes the file. Calls after the
// first return nil.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	return release(f.file, f.path)
}
