// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedMessage is a well-formed message that the current
	// state does not accept.
	ErrUnexpectedMessage = errors.New("unexpected message")

	// ErrInvalidMessage is a message with a malformed envelope or
	// arguments.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInternal is a daemon-side failure while handling a valid
	// message.
	ErrInternal = errors.New("internal error")

	// ErrClosed is returned by Machine.Handle after the connection has
	// finished.
	ErrClosed = errors.New("connection closed")
)

// StateValueError reports a checked conversion from StateValue to a
// concrete state that found a different variant.
type StateValueError struct {
	Want Kind
	Got  Kind
}

func (e *StateValueError) Error() string {
	return fmt.Sprintf("invalid state value: expected %s, got %s", e.Want, e.Got)
}

func invalidMessage(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidMessage, cause)
}

func invalidMessagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidMessage, fmt.Sprintf(format, args...))
}

func unexpectedMessagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedMessage, fmt.Sprintf(format, args...))
}

func internalError(cause error) error {
	return fmt.Errorf("%w: %w", ErrInternal, cause)
}
