// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rpc defines the message envelope spoken between sasd and its
// clients.
//
// Every message is a CBOR array whose first element is the
// [MessageType]:
//
//	request:      [0, id, method, args]
//	response:     [1, id, error, result]
//	notification: [2, code, args]
//
// [Message] is the untyped envelope as read off the wire. It only
// guarantees that the value is a non-empty array with a known type
// tag. The typed views [Request], [Response] and [Notification] are
// parameterized by a code enumeration (anything satisfying [Code]) and
// check the full shape on conversion, failing with
// [*ArrayLengthError], [*MessageTypeError], [*FieldError] or
// [*CodeError].
//
// Integer fields accept any Go integer type when a message is built
// in-process and uint64/int64 when decoded from CBOR; see [AsUint64].
package rpc
