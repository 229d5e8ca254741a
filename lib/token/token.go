// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

const (
	// Bytes is the number of random bytes in an issued token. Tokens
	// are hex encoded, so they are twice this many characters long.
	Bytes = 32

	// FileNameBytes is the number of random bytes in a token file name.
	FileNameBytes = 8
)

// Generate reads n bytes from random and returns them as a lowercase
// hex string of length 2n.
func Generate(random io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}
	buffer := make([]byte, n)
	defer clear(buffer)
	if _, err := io.ReadFull(random, buffer); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// MakeRandomHex is Generate with the operating system's secure random
// source.
func MakeRandomHex(n int) (string, error) {
	return Generate(rand.Reader, n)
}

// fingerprintDomainKey is the ASCII encoding of the domain name,
// zero-padded to 32 bytes. Changing it changes every fingerprint.
var fingerprintDomainKey = [32]byte{
	's', 'a', 's', 'd', '.', 't', 'o', 'k', 'e', 'n', '.',
	'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't',
}

// Fingerprint returns a short, stable identifier for a token: the
// first 8 bytes of its BLAKE3 keyed hash, hex encoded. Log
// fingerprints, never tokens.
func Fingerprint(token []byte) string {
	hasher, err := blake3.NewKeyed(fingerprintDomainKey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic("token: " + err.Error())
	}
	hasher.Write(token)
	var digest [32]byte
	hasher.Sum(digest[:0])
	return hex.EncodeToString(digest[:8])
}
