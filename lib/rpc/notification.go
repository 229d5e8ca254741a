// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

// Notification is a typed view of a notification envelope whose code
// belongs to the enumeration N. Notifications carry no id and are
// never answered.
type Notification[N Code] struct {
	code N
	args []any
}

// NewNotification builds a notification.
func NewNotification[N Code](code N, args []any) Notification[N] {
	return Notification[N]{code: code, args: argumentList(args)}
}

// NotificationFrom converts an envelope into a typed notification.
func NotificationFrom[N Code](message Message) (Notification[N], error) {
	if err := checkShape(message, TypeNotification, notificationLength); err != nil {
		return Notification[N]{}, err
	}
	code, err := ParseCodeValue[N]("notification code", message.items[1])
	if err != nil {
		return Notification[N]{}, err
	}
	args, ok := AsArray(message.items[2])
	if !ok {
		return Notification[N]{}, &FieldError{Field: "notification args", Want: "array", Value: message.items[2]}
	}
	return Notification[N]{code: code, args: args}, nil
}

// Code returns the notification code.
func (n Notification[N]) Code() N { return n.code }

// Args returns the notification arguments.
func (n Notification[N]) Args() []any { return n.args }

// Message returns the notification as an untyped envelope.
func (n Notification[N]) Message() Message {
	return Message{items: []any{uint64(TypeNotification), uint64(n.code), argumentList(n.args)}}
}
