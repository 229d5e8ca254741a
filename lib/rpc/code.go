// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"fmt"
	"strings"
)

// Code is implemented by every numeric code enumeration carried in an
// envelope: request methods, response error codes and notification
// codes. Valid reports whether the value names a member.
type Code interface {
	~uint64
	Valid() bool
}

// ParseCode converts a raw integer into a member of the enumeration C.
func ParseCode[C Code](value uint64) (C, error) {
	code := C(value)
	if !code.Valid() {
		return code, &CodeError{Enumeration: enumerationName[C](), Value: value}
	}
	return code, nil
}

// ParseCodeValue converts an envelope value into a member of C. A value
// that is not an unsigned integer produces a *FieldError naming field.
func ParseCodeValue[C Code](field string, value any) (C, error) {
	number, ok := AsUint64(value)
	if !ok {
		var zero C
		return zero, &FieldError{Field: field, Want: "unsigned integer", Value: value}
	}
	return ParseCode[C](number)
}

// enumerationName returns the unqualified type name of C for error
// messages ("SessionMethod", not "v1.SessionMethod").
func enumerationName[C Code]() string {
	var zero C
	name := fmt.Sprintf("%T", zero)
	if index := strings.LastIndex(name, "."); index >= 0 {
		name = name[index+1:]
	}
	return name
}
