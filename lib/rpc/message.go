// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"fmt"

	"github.com/bureau-foundation/sasd/lib/codec"
)

// MessageType is the first element of every envelope.
type MessageType uint64

const (
	TypeRequest      MessageType = 0
	TypeResponse     MessageType = 1
	TypeNotification MessageType = 2
)

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	return t <= TypeNotification
}

func (t MessageType) String() string {
	switch t {
	case TypeRequest:
		return "request"
	case TypeResponse:
		return "response"
	case TypeNotification:
		return "notification"
	default:
		return fmt.Sprintf("message type %d", uint64(t))
	}
}

// Envelope lengths per message type.
const (
	requestLength      = 4
	responseLength     = 4
	notificationLength = 3
)

// Message is an untyped envelope: a non-empty array whose first
// element is a known MessageType. Nothing else about its shape is
// checked until it is converted to a typed view.
type Message struct {
	items []any
}

// NewMessage validates value as an envelope. value must be a []any
// whose first element is a valid MessageType.
func NewMessage(value any) (Message, error) {
	items, ok := AsArray(value)
	if !ok {
		return Message{}, &FieldError{Field: "message", Want: "array", Value: value}
	}
	if len(items) == 0 {
		return Message{}, &ArrayLengthError{Want: notificationLength, Got: 0}
	}
	tag, ok := AsUint64(items[0])
	if !ok {
		return Message{}, &FieldError{Field: "message type", Want: "unsigned integer", Value: items[0]}
	}
	if !MessageType(tag).Valid() {
		return Message{}, &MessageTypeError{Got: tag, Unknown: true}
	}
	return Message{items: items}, nil
}

// MustMessage is NewMessage for envelopes built from constants. It
// panics on an invalid envelope.
func MustMessage(items ...any) Message {
	message, err := NewMessage(items)
	if err != nil {
		panic(fmt.Sprintf("rpc.MustMessage: %v", err))
	}
	return message
}

// Type returns the envelope's message type.
func (m Message) Type() MessageType {
	tag, _ := AsUint64(m.items[0])
	return MessageType(tag)
}

// Len returns the number of envelope elements, including the type tag.
func (m Message) Len() int {
	return len(m.items)
}

// Item returns the element at index, or nil when the envelope is too
// short.
func (m Message) Item(index int) any {
	if index < 0 || index >= len(m.items) {
		return nil
	}
	return m.items[index]
}

// Items returns the envelope elements. The slice aliases the message.
func (m Message) Items() []any {
	return m.items
}

// codeIndex is the position of the method, error or notice code for
// each message type.
func (m Message) codeIndex() int {
	if m.Type() == TypeNotification {
		return 1
	}
	return 2
}

// Code returns the method (request), error (response) or notice
// (notification) code without checking the rest of the envelope. It
// fails with *FieldError when the element is missing or is not an
// unsigned integer.
func (m Message) Code() (uint64, error) {
	index := m.codeIndex()
	value := m.Item(index)
	code, ok := AsUint64(value)
	if !ok {
		return 0, &FieldError{Field: m.Type().String() + " code", Want: "unsigned integer", Value: value}
	}
	return code, nil
}

// MarshalCBOR encodes the envelope as a CBOR array.
func (m Message) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(m.items)
}

// UnmarshalCBOR decodes a CBOR array and validates it as an envelope.
func (m *Message) UnmarshalCBOR(data []byte) error {
	var value any
	if err := codec.Unmarshal(data, &value); err != nil {
		return err
	}
	message, err := NewMessage(value)
	if err != nil {
		return err
	}
	*m = message
	return nil
}

func (m Message) String() string {
	return fmt.Sprintf("%s%v", m.Type(), m.items[1:])
}

// checkShape verifies the message type and element count shared by
// every typed view.
func checkShape(message Message, want MessageType, length int) error {
	if message.items == nil {
		return &ArrayLengthError{Want: length, Got: 0}
	}
	if got := message.Type(); got != want {
		return &MessageTypeError{Want: want, Got: uint64(got)}
	}
	if message.Len() != length {
		return &ArrayLengthError{Want: length, Got: message.Len()}
	}
	return nil
}

// argumentList copies args so a typed view never shares backing
// storage with its caller, and turns nil into an empty array so it
// encodes as [] rather than null.
func argumentList(args []any) []any {
	list := make([]any, len(args))
	copy(list, args)
	return list
}
