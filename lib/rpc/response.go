// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

// Response is a typed view of a response envelope whose error code
// belongs to the enumeration E.
//
// The result is nil when there is nothing to report, a []any when
// several values are returned and a string for a single value or
// diagnostic.
type Response[E Code] struct {
	id     uint32
	code   E
	result any
}

// NewResponse builds a response. id must echo the request id.
func NewResponse[E Code](id uint32, code E, result any) Response[E] {
	return Response[E]{id: id, code: code, result: result}
}

// ResponseFrom converts an envelope into a typed response.
func ResponseFrom[E Code](message Message) (Response[E], error) {
	if err := checkShape(message, TypeResponse, responseLength); err != nil {
		return Response[E]{}, err
	}
	id, ok := AsUint32(message.items[1])
	if !ok {
		return Response[E]{}, &FieldError{Field: "message id", Want: "uint32", Value: message.items[1]}
	}
	code, err := ParseCodeValue[E]("response error", message.items[2])
	if err != nil {
		return Response[E]{}, err
	}
	return Response[E]{id: id, code: code, result: message.items[3]}, nil
}

// ID returns the id of the request this response answers.
func (r Response[E]) ID() uint32 { return r.id }

// ErrorCode returns the response error code.
func (r Response[E]) ErrorCode() E { return r.code }

// Result returns the response result.
func (r Response[E]) Result() any { return r.result }

// Message returns the response as an untyped envelope.
func (r Response[E]) Message() Message {
	return Message{items: []any{uint64(TypeResponse), uint64(r.id), uint64(r.code), r.result}}
}
