// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"sync"
)

// Sequence is a deterministic byte source. Each Read continues a
// little-endian counter over 8-byte blocks, so no two reads of 8 bytes
// or more return the same bytes. Safe for concurrent use.
type Sequence struct {
	mu      sync.Mutex
	counter uint64
	pending []byte
}

func (s *Sequence) Read(buffer []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for written := 0; written < len(buffer); {
		if len(s.pending) == 0 {
			s.counter++
			block := make([]byte, 8)
			for index := range block {
				block[index] = byte(s.counter >> (8 * index))
			}
			s.pending = block
		}
		count := copy(buffer[written:], s.pending)
		s.pending = s.pending[count:]
		written += count
	}
	return len(buffer), nil
}

// ErrEntropy is returned by FailingReader.
var ErrEntropy = errors.New("entropy source exhausted")

// FailingReader fails every Read with ErrEntropy.
type FailingReader struct{}

func (FailingReader) Read([]byte) (int, error) {
	return 0, ErrEntropy
}
