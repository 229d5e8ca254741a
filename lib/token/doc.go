// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package token issues the secrets used by the sasd handshake and
// delivers the auth token through a file only the daemon's user can
// read.
//
// [Generate] and [MakeRandomHex] produce lowercase hex strings from a
// cryptographically secure source. [Fingerprint] names a token in logs
// without revealing it.
//
// [CreateFile] writes a token into a fresh, exclusively created,
// owner-only, hidden file inside a directory and keeps the handle
// open. The file disappears when the handle is released with
// [File.Close]: on windows the kernel deletes it through
// FILE_FLAG_DELETE_ON_CLOSE, on unix Close unlinks it after closing
// the handle. Close is the only deletion path and runs once.
package token
