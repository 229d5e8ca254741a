// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import "github.com/bureau-foundation/sasd/lib/rpc"

// Machine drives one connection: it holds the current state, applies
// each Step and releases the Context when the connection finishes.
type Machine struct {
	context *Context
	state   StateValue
	closed  bool
}

// NewMachine returns a machine in Start. The machine owns ctx from now
// on and closes it.
func NewMachine(ctx *Context) *Machine {
	return &Machine{context: ctx, state: NewStart()}
}

// State returns the current state.
func (m *Machine) State() StateValue {
	return m.state
}

// Context returns the connection context.
func (m *Machine) Context() *Context {
	return m.context
}

// Closed reports whether the connection has finished.
func (m *Machine) Closed() bool {
	return m.closed
}

// Handle processes one inbound message and returns the reply to send,
// if any. After a message that finishes the connection Closed reports
// true and the Context is released. An error leaves the state
// unchanged; the caller decides whether to keep the connection.
func (m *Machine) Handle(message rpc.Message) (*rpc.Message, error) {
	if m.closed {
		return nil, ErrClosed
	}

	step, err := Change(m.context, m.state, message)
	if err != nil {
		return nil, err
	}

	switch {
	case step.Next != nil:
		if step.Next.Kind() != m.state.Kind() {
			m.context.logger.Debug("state changed", "from", m.state.Kind(), "to", step.Next.Kind())
		}
		m.state = step.Next
	case step.Closes():
		m.context.logger.Debug("connection finished", "state", m.state.Kind())
		if err := m.Close(); err != nil {
			m.context.logger.Warn("releasing connection context", "error", err)
		}
	}
	return step.Reply, nil
}

// Close finishes the connection and releases the Context. Calls after
// the first only repeat the release, which is a no-op.
func (m *Machine) Close() error {
	m.closed = true
	return m.context.Close()
}
