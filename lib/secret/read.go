// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
)

// maxFileSecret bounds ReadFile. Auth tokens are 64 bytes; anything
// near this size is not a token file.
const maxFileSecret = 4096

// ReadFile reads a secret from path into a Buffer. Leading and
// trailing whitespace is trimmed. The heap copy used while reading is
// zeroed before return. Returns an error if the file is empty after
// trimming or larger than 4 KiB.
func ReadFile(path string) (*Buffer, error) {
	file, err := openShared(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadFrom(file)
}

// ReadFrom is ReadFile for an already open reader.
func ReadFrom(reader io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxFileSecret+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("reading secret: %w", err)
	}
	if len(data) > maxFileSecret {
		Zero(data)
		return nil, fmt.Errorf("secret exceeds %d bytes", maxFileSecret)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret is empty")
	}

	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
