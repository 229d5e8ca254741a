// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package v1 holds the code enumerations of protocol version 1.
//
// Method values start after rpc.RequestVersion so a v1 method is never
// mistaken for a version request by the envelope layer, which tries
// the protocol-independent codes first. Error values share numbering
// with rpc.ResponseError: UnsupportedVersion is 3 in both.
package v1

import "fmt"

// SessionMethod is a request method valid once version 1 has been
// negotiated.
type SessionMethod uint64

const (
	// Attach starts (or, when it carries the stored tokens, skips) the
	// token handshake. Arguments: none, or the previously issued
	// tokens. Result: [session token, token file path] or
	// [token file path] depending on the handshake profile.
	Attach SessionMethod = iota + 3

	// AuthAttach proves possession of the issued tokens. Arguments:
	// the tokens, in issue order, the auth token read from the token
	// file last.
	AuthAttach

	// KeyList takes no arguments.
	KeyList

	// CreateKey takes a map of string attributes.
	CreateKey

	// DeleteKey takes a map of string attributes.
	DeleteKey

	// ProtocolStart takes a map of string attributes that must include
	// "proto", the name of the protocol module to use.
	ProtocolStart

	// ProtocolWrite takes a single byte string.
	ProtocolWrite

	// ProtocolRead takes a single byte string.
	ProtocolRead

	// ProtocolConfirm takes a map of attributes.
	ProtocolConfirm

	// ProtocolNeedKey takes a map of attributes.
	ProtocolNeedKey

	// ProtocolNeedKeyDone takes a map of attributes.
	ProtocolNeedKeyDone

	// ProtocolAuthInfo takes no arguments.
	ProtocolAuthInfo
)

var sessionMethodNames = map[SessionMethod]string{
	Attach:              "attach",
	AuthAttach:          "auth-attach",
	KeyList:             "key-list",
	CreateKey:           "create-key",
	DeleteKey:           "delete-key",
	ProtocolStart:       "protocol-start",
	ProtocolWrite:       "protocol-write",
	ProtocolRead:        "protocol-read",
	ProtocolConfirm:     "protocol-confirm",
	ProtocolNeedKey:     "protocol-need-key",
	ProtocolNeedKeyDone: "protocol-need-key-done",
	ProtocolAuthInfo:    "protocol-auth-info",
}

func (m SessionMethod) Valid() bool {
	_, ok := sessionMethodNames[m]
	return ok
}

func (m SessionMethod) String() string {
	if name, ok := sessionMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("session-method-%d", uint64(m))
}

// SessionError is a response error code in version 1.
type SessionError uint64

const (
	Nil SessionError = 0

	// UnsupportedVersion matches rpc.ErrorUnsupportedVersion.
	UnsupportedVersion SessionError = iota + 2

	// InvalidAttach rejects an auth-attach whose tokens do not match.
	// Result: a string naming the token that failed.
	InvalidAttach

	KeyExists
	KeyNotFound
	UnknownProtocol
	InvalidProtocolMessage
	ProtocolError
	ProtocolNeedsKey
	ProtocolNeedConfirmation
	InvalidProtocolAuth
)

var sessionErrorNames = map[SessionError]string{
	Nil:                      "nil",
	UnsupportedVersion:       "unsupported version",
	InvalidAttach:            "invalid attach",
	KeyExists:                "key exists",
	KeyNotFound:              "key not found",
	UnknownProtocol:          "unknown protocol",
	InvalidProtocolMessage:   "invalid protocol message",
	ProtocolError:            "protocol error",
	ProtocolNeedsKey:         "protocol needs key",
	ProtocolNeedConfirmation: "protocol needs confirmation",
	InvalidProtocolAuth:      "invalid protocol auth",
}

func (e SessionError) Valid() bool {
	_, ok := sessionErrorNames[e]
	return ok
}

func (e SessionError) String() string {
	if name, ok := sessionErrorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("session-error-%d", uint64(e))
}

// Notice is a notification code in version 1.
type Notice uint64

const (
	// Done announces that the client will send no more requests.
	Done Notice = 1
)

func (n Notice) Valid() bool { return n == Done }

func (n Notice) String() string {
	if n == Done {
		return "done"
	}
	return fmt.Sprintf("notice-%d", uint64(n))
}
