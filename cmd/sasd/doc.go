// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Sasd is the local session-authentication daemon. Clients connect
// over loopback TCP, negotiate a protocol version, and prove they run
// as the same user by reading an auth token from a file only that user
// can open. The file is deleted as soon as the handshake finishes or
// the connection drops.
//
// Usage:
//
//	sasd [flags]                  run the daemon in the foreground
//	sasd [flags] probe            handshake with a running daemon
//	sasd [flags] service ACTION   install, uninstall, start, stop or run
//	                              as an OS service
//
// Settings come from the file named by --config or, failing that, by
// the SASD_CONFIG environment variable.
package main
