// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/bureau-foundation/sasd/lib/secret"
	"github.com/bureau-foundation/sasd/lib/token"
)

// Store holds one connection's issued tokens and its open token file.
// Tokens are kept in secret.Buffers in issue order, the auth token
// last. A Store belongs to exactly one Context.
type Store struct {
	tokens []*secret.Buffer
	file   *token.File
}

func newStore() *Store {
	return &Store{}
}

// TokenCount returns the number of tokens currently issued.
func (s *Store) TokenCount() int {
	return len(s.tokens)
}

// HasAuthFile reports whether a token file is open.
func (s *Store) HasAuthFile() bool {
	return s.file != nil
}

// AuthFilePath returns the open token file's path, or "" when none is
// open.
func (s *Store) AuthFilePath() string {
	if s.file == nil {
		return ""
	}
	return s.file.Path()
}

// Fingerprints returns token.Fingerprint of every stored token, for
// logging.
func (s *Store) Fingerprints() []string {
	fingerprints := make([]string, len(s.tokens))
	for index, buffer := range s.tokens {
		fingerprints[index] = token.Fingerprint(buffer.Bytes())
	}
	return fingerprints
}

// MemoryLocked reports whether every stored token sits in locked
// memory. It is false when no tokens are stored.
func (s *Store) MemoryLocked() bool {
	if len(s.tokens) == 0 {
		return false
	}
	for _, buffer := range s.tokens {
		if !buffer.Locked() {
			return false
		}
	}
	return true
}

// setTokens replaces the stored tokens. The previous tokens are zeroed.
func (s *Store) setTokens(values []string) error {
	buffers := make([]*secret.Buffer, 0, len(values))
	for _, value := range values {
		buffer, err := secret.NewFromString(value)
		if err != nil {
			for _, created := range buffers {
				created.Close()
			}
			return fmt.Errorf("storing token: %w", err)
		}
		buffers = append(buffers, buffer)
	}
	s.clearTokens()
	s.tokens = buffers
	return nil
}

func (s *Store) clearTokens() {
	for _, buffer := range s.tokens {
		buffer.Close()
	}
	s.tokens = nil
}

// firstMismatch compares candidates with the stored tokens in order
// and returns the index of the first one that differs, or -1 when all
// match. Each comparison is constant time and every stored token is
// compared even after a mismatch. A count mismatch is reported at the
// first index that has no counterpart.
func (s *Store) firstMismatch(candidates []string) int {
	mismatch := -1
	for index, buffer := range s.tokens {
		equal := index < len(candidates) && buffer.EqualString(candidates[index])
		if !equal && mismatch < 0 {
			mismatch = index
		}
	}
	if mismatch < 0 && len(candidates) != len(s.tokens) {
		mismatch = min(len(candidates), len(s.tokens))
	}
	return mismatch
}

// matches reports whether candidates equal the stored tokens exactly.
// An empty store matches nothing.
func (s *Store) matches(candidates []string) bool {
	return len(s.tokens) > 0 && s.firstMismatch(candidates) < 0
}

// setAuthFile takes ownership of file. A previously held file is
// released first.
func (s *Store) setAuthFile(file *token.File) error {
	err := s.ReleaseAuthFile()
	s.file = file
	return err
}

// ReleaseAuthFile closes the token file, which deletes it. It is a
// no-op when no file is held, so the file is released exactly once
// whichever of session establishment or teardown comes first.
func (s *Store) ReleaseAuthFile() error {
	if s.file == nil {
		return nil
	}
	file := s.file
	s.file = nil
	return file.Close()
}

// Close releases the token file and zeroes the tokens.
func (s *Store) Close() error {
	err := s.ReleaseAuthFile()
	s.clearTokens()
	return err
}
