// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package server accepts sasd client connections on a loopback TCP
// port and drives one protocol.Machine per connection.
//
// Messages are CBOR arrays written back to back on the stream; CBOR is
// self-delimiting so no extra framing is used. Each connection gets a
// random UUID that tags every log line it produces.
//
// Error policy per message: a protocol.ErrInvalidMessage (or an
// envelope that does not decode) is logged and the connection keeps
// reading so the client can retry; any other error closes the
// connection. A step with neither reply nor next state closes the
// connection. Closing a connection always releases its token file.
//
// New connections are rate limited per peer host with
// github.com/sethvargo/go-limiter when ConnectionsPerSecond is set.
package server
