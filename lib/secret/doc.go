// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for the session and
// auth tokens sasd issues.
//
// [Buffer] allocates memory outside the Go heap (mmap(MAP_ANON) on
// unix, VirtualAlloc on windows), locks it into physical RAM when the
// process is permitted to, and on linux marks it MADV_DONTDUMP. On
// Close the memory is zeroed and released. Because the memory lives
// outside the Go heap, the garbage collector cannot copy or relocate
// it.
//
// Constructors:
//
//   - [New] -- allocates a zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeros the source
//   - [NewFromString] -- copies a string into protected memory
//   - [ReadFile] and [ReadFrom] -- read a token file with a size limit
//
// [Buffer.Equal] and [Buffer.EqualString] compare in constant time;
// token verification in lib/protocol goes through them. After Close,
// any access panics. Close is idempotent.
//
// Depends on golang.org/x/sys. No sasd-internal dependencies.
package secret
