// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import "math"

// AsUint64 converts an envelope value to an unsigned integer. Values
// decoded from CBOR arrive as uint64 (or int64 when negative); values
// built in-process may be any integer type. Negative numbers and
// non-integers report false.
func AsUint64(value any) (uint64, bool) {
	switch number := value.(type) {
	case uint64:
		return number, true
	case uint32:
		return uint64(number), true
	case uint16:
		return uint64(number), true
	case uint8:
		return uint64(number), true
	case uint:
		return uint64(number), true
	case int64:
		return nonNegative(number)
	case int32:
		return nonNegative(int64(number))
	case int16:
		return nonNegative(int64(number))
	case int8:
		return nonNegative(int64(number))
	case int:
		return nonNegative(int64(number))
	default:
		return 0, false
	}
}

func nonNegative(number int64) (uint64, bool) {
	if number < 0 {
		return 0, false
	}
	return uint64(number), true
}

// AsUint32 is AsUint64 restricted to the uint32 range. Message ids
// use it.
func AsUint32(value any) (uint32, bool) {
	number, ok := AsUint64(value)
	if !ok || number > math.MaxUint32 {
		return 0, false
	}
	return uint32(number), true
}

// AsString converts an envelope value to a string. Byte strings are
// not accepted: tokens and paths are always CBOR text.
func AsString(value any) (string, bool) {
	text, ok := value.(string)
	return text, ok
}

// AsArray converts an envelope value to a slice of values.
func AsArray(value any) ([]any, bool) {
	array, ok := value.([]any)
	return array, ok
}
