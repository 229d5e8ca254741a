// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

// Request is a typed view of a request envelope whose method belongs
// to the enumeration M.
type Request[M Code] struct {
	id     uint32
	method M
	args   []any
}

// NewRequest builds a request.
func NewRequest[M Code](id uint32, method M, args []any) Request[M] {
	return Request[M]{id: id, method: method, args: argumentList(args)}
}

// RequestFrom converts an envelope into a typed request. It checks, in
// order: message type, element count, id, method and argument list.
func RequestFrom[M Code](message Message) (Request[M], error) {
	if err := checkShape(message, TypeRequest, requestLength); err != nil {
		return Request[M]{}, err
	}
	id, ok := AsUint32(message.items[1])
	if !ok {
		return Request[M]{}, &FieldError{Field: "message id", Want: "uint32", Value: message.items[1]}
	}
	method, err := ParseCodeValue[M]("request method", message.items[2])
	if err != nil {
		return Request[M]{}, err
	}
	args, ok := AsArray(message.items[3])
	if !ok {
		return Request[M]{}, &FieldError{Field: "request args", Want: "array", Value: message.items[3]}
	}
	return Request[M]{id: id, method: method, args: args}, nil
}

// ID returns the request id. Responses echo it.
func (r Request[M]) ID() uint32 { return r.id }

// Method returns the request method.
func (r Request[M]) Method() M { return r.method }

// Args returns the request arguments.
func (r Request[M]) Args() []any { return r.args }

// Message returns the request as an untyped envelope.
func (r Request[M]) Message() Message {
	return Message{items: []any{uint64(TypeRequest), uint64(r.id), uint64(r.method), argumentList(r.args)}}
}
