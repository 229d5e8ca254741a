// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import "fmt"

// ArrayLengthError reports an envelope with the wrong number of
// elements for its message type.
type ArrayLengthError struct {
	Want int
	Got  int
}

func (e *ArrayLengthError) Error() string {
	return fmt.Sprintf("expected array length of %d, got %d", e.Want, e.Got)
}

// MessageTypeError reports an envelope whose type tag is unknown, or
// known but not the type a typed view requires.
type MessageTypeError struct {
	Want MessageType
	// Got is the raw tag value. It may not be a valid MessageType.
	Got uint64
	// Unknown is set when Got is not a MessageType at all.
	Unknown bool
}

func (e *MessageTypeError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown message type %d", e.Got)
	}
	return fmt.Sprintf("expected %s message, got %s", e.Want, MessageType(e.Got))
}

// FieldError reports an envelope element with the wrong CBOR type.
type FieldError struct {
	Field string
	Want  string
	Value any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %T", e.Field, e.Want, e.Value)
}

// CodeError reports an integer that does not map to any member of a
// code enumeration.
type CodeError struct {
	Enumeration string
	Value       uint64
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("unknown %s code %d", e.Enumeration, e.Value)
}
