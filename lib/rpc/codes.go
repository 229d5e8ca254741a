// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

// The codes below are understood in every connection state, before
// and after a protocol version has been negotiated. Version-specific
// enumerations live in subpackages (lib/rpc/v1) and must not reuse
// RequestVersion's value for a method.

// RequestMethod is a protocol-independent request method.
type RequestMethod uint64

const (
	// RequestVersion opens a session by asking for a protocol version.
	// Single argument: the unsigned protocol number.
	RequestVersion RequestMethod = 2
)

func (m RequestMethod) Valid() bool { return m == RequestVersion }

func (m RequestMethod) String() string {
	if m == RequestVersion {
		return "version"
	}
	return "unknown"
}

// Notice is a protocol-independent notification code.
type Notice uint64

const (
	// NoticeDone announces that the client will send no more requests.
	NoticeDone Notice = 1
)

func (n Notice) Valid() bool { return n == NoticeDone }

func (n Notice) String() string {
	if n == NoticeDone {
		return "done"
	}
	return "unknown"
}

// ResponseError is a protocol-independent response error code.
type ResponseError uint64

const (
	// ErrorUnsupportedVersion rejects a version request naming a
	// protocol the server does not speak. Result: nil.
	ErrorUnsupportedVersion ResponseError = 3
)

func (e ResponseError) Valid() bool { return e == ErrorUnsupportedVersion }

func (e ResponseError) String() string {
	if e == ErrorUnsupportedVersion {
		return "unsupported version"
	}
	return "unknown"
}
