// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol implements the sasd connection state machine.
//
// A connection starts in [Start]. The client negotiates a protocol
// version, then walks the token handshake:
//
//	Start --version(1)--> InitSession --attach--> AuthSession --auth-attach--> Session
//
// with the handshake states present only when the connection's
// [Profile] delivers the auth token through a side-channel file. The
// direct profile goes from Start straight to Session.
//
// [Change] is the single entry point for a message. It applies the
// rules shared by every state (version requests renegotiate, the done
// notice closes, responses are never accepted) and otherwise hands the
// message to the current state. The result is a [Step]:
//
//   - Next set: the connection moves to Next, and Reply (if any) is sent
//   - Next nil, Reply set: the state is unchanged and Reply is sent
//   - both nil: the connection is finished
//
// Errors are classified with [ErrInvalidMessage] (malformed envelope
// or arguments; the client may retry), [ErrUnexpectedMessage]
// (well-formed but not allowed in this state; the connection should be
// closed) and [ErrInternal] (the daemon failed, for example creating a
// token file). Structural causes from lib/rpc remain reachable with
// errors.As.
//
// [Machine] owns one connection's current state and [Context] and
// applies Steps. Nothing here is safe for concurrent use: each
// connection has its own Machine and the only value shared between
// connections is the read-only *settings.Settings.
package protocol
