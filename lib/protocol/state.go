// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/bureau-foundation/sasd/lib/rpc"
	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
)

// Protocol is a wire protocol major version.
type Protocol uint64

const (
	V1 Protocol = 1

	// MaxProtocol is the highest version this daemon speaks.
	MaxProtocol = V1
)

// ParseProtocol maps a version number from a version request to a
// Protocol.
func ParseProtocol(number uint64) (Protocol, bool) {
	if number == uint64(V1) {
		return V1, true
	}
	return 0, false
}

func (p Protocol) String() string {
	return fmt.Sprintf("v%d", uint64(p))
}

// Kind names a StateValue variant.
type Kind int

const (
	KindStart Kind = iota
	KindInitSession
	KindAuthSession
	KindSession
)

// IsV1 reports whether the variant belongs to protocol version 1.
func (k Kind) IsV1() bool {
	return k == KindInitSession || k == KindAuthSession || k == KindSession
}

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "Start"
	case KindInitSession:
		return "V1(InitSession)"
	case KindAuthSession:
		return "V1(AuthSession)"
	case KindSession:
		return "V1(Session)"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// StateValue is the current state of a connection. The set of
// implementations is closed: *Start, *InitSession, *AuthSession and
// *Session.
type StateValue interface {
	Kind() Kind
	stateValue()
}

// SessionRequest is a request carrying a version 1 method.
type SessionRequest = rpc.Request[v1.SessionMethod]

// SessionResponse is a response carrying a version 1 error code.
type SessionResponse = rpc.Response[v1.SessionError]

// Step is the outcome of handling one message. See the package
// documentation for how a driver applies it.
type Step struct {
	Next  StateValue
	Reply *rpc.Message
}

// Closes reports whether the step finishes the connection.
func (s Step) Closes() bool {
	return s.Next == nil && s.Reply == nil
}

func reply(message rpc.Message) *rpc.Message {
	return &message
}

// Change handles message in state. Version requests and the done
// notice are handled here for every state; every other request and
// notification goes to the state's own dispatch. Responses are always
// rejected.
func Change(ctx *Context, state StateValue, message rpc.Message) (Step, error) {
	switch message.Type() {
	case rpc.TypeRequest:
		code, err := message.Code()
		if err != nil {
			return Step{}, invalidMessage(err)
		}
		if _, err := rpc.ParseCode[rpc.RequestMethod](code); err != nil {
			return dispatch(ctx, state, message)
		}
		request, err := rpc.RequestFrom[rpc.RequestMethod](message)
		if err != nil {
			return Step{}, invalidMessage(err)
		}
		// RequestVersion is the only generic method.
		return negotiateVersion(ctx, request)

	case rpc.TypeNotification:
		code, err := message.Code()
		if err != nil {
			return Step{}, invalidMessage(err)
		}
		if _, err := rpc.ParseCode[rpc.Notice](code); err != nil {
			return dispatch(ctx, state, message)
		}
		if _, err := rpc.NotificationFrom[rpc.Notice](message); err != nil {
			return Step{}, invalidMessage(err)
		}
		// NoticeDone is the only generic notice.
		return Step{}, nil

	default:
		return Step{}, unexpectedMessagef("%s received in state %s", message.Type(), state.Kind())
	}
}

// dispatch routes to the concrete state.
func dispatch(ctx *Context, state StateValue, message rpc.Message) (Step, error) {
	switch state := state.(type) {
	case *Start:
		return state.dispatch(ctx, message)
	case *InitSession:
		return state.dispatch(ctx, message)
	case *AuthSession:
		return state.dispatch(ctx, message)
	case *Session:
		return state.dispatch(ctx, message)
	default:
		panic(fmt.Sprintf("protocol: unhandled state %T", state))
	}
}

// Start is the state before a protocol version has been negotiated.
// Only version requests and the done notice are accepted.
type Start struct{}

// NewStart returns the initial state of every connection.
func NewStart() *Start { return &Start{} }

func (*Start) Kind() Kind  { return KindStart }
func (*Start) stateValue() {}

func (*Start) dispatch(_ *Context, message rpc.Message) (Step, error) {
	return Step{}, unexpectedMessagef("%s before version negotiation", message.Type())
}

// IsStart reports whether state is the Start variant.
func IsStart(state StateValue) bool {
	return state != nil && state.Kind() == KindStart
}

// IsV1 reports whether state is a version 1 variant.
func IsV1(state StateValue) bool {
	return state != nil && state.Kind().IsV1()
}

// AsStart converts state to *Start or fails with *StateValueError.
func AsStart(state StateValue) (*Start, error) {
	return as[*Start](state, KindStart)
}

// AsInitSession converts state to *InitSession or fails with
// *StateValueError.
func AsInitSession(state StateValue) (*InitSession, error) {
	return as[*InitSession](state, KindInitSession)
}

// AsAuthSession converts state to *AuthSession or fails with
// *StateValueError.
func AsAuthSession(state StateValue) (*AuthSession, error) {
	return as[*AuthSession](state, KindAuthSession)
}

// AsSession converts state to *Session or fails with *StateValueError.
func AsSession(state StateValue) (*Session, error) {
	return as[*Session](state, KindSession)
}

func as[S StateValue](state StateValue, want Kind) (S, error) {
	concrete, ok := state.(S)
	if !ok {
		got := Kind(-1)
		if state != nil {
			got = state.Kind()
		}
		return concrete, &StateValueError{Want: want, Got: got}
	}
	return concrete, nil
}
